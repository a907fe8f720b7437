package collectible

import "time"

// LiveLookahead is the window within which a freshly created auction goes
// live immediately instead of waiting for the next reconciliation.
const LiveLookahead = 5 * time.Minute

// InitialStatus returns the auction status a new auction should start in.
func InitialStatus(startTime, now time.Time) AuctionStatus {
	if !startTime.After(now.Add(LiveLookahead)) {
		return AuctionStatusLive
	}
	return AuctionStatusScheduled
}

// NextStatus derives the correct lifecycle status for item from wall-clock
// time. It returns the status the auction should hold right now and whether
// that differs from the stored one. A result of AuctionStatusEnded here means
// the auction expired while live and must be settled, the settlement decides
// between ended and sold.
//
// Every accessor reconciles through this before acting, status is never
// trusted to be fresh.
func NextStatus(item *Collectible, now time.Time) (AuctionStatus, bool) {
	if !item.IsAuction() {
		return "", false
	}

	auction := item.Auction
	switch auction.Status {
	case AuctionStatusScheduled:
		if !now.Before(auction.StartTime) && now.Before(auction.EndTime) {
			return AuctionStatusLive, true
		}
	case AuctionStatusLive:
		if !now.Before(auction.EndTime) {
			return AuctionStatusEnded, true
		}
	}
	// ended, cancelled and sold are stable
	return auction.Status, false
}

// ItemStatusFor mirrors an auction transition onto the catalog-level status.
func ItemStatusFor(status AuctionStatus, current ItemStatus) ItemStatus {
	switch status {
	case AuctionStatusLive:
		return ItemStatusActive
	case AuctionStatusSold:
		return ItemStatusSold
	case AuctionStatusCancelled:
		return ItemStatusInactive
	}
	return current
}
