package collectible

import (
	"time"

	"github.com/craftbid/goapi/domain"
)

// MinimumAcceptableBid is the smallest amount the next bid may carry.
func MinimumAcceptableBid(item *Collectible) float64 {
	if !item.IsAuction() {
		return item.Price
	}
	return item.Auction.CurrentBid + item.Auction.MinimumBidIncrement
}

// ValidateBid decides whether a proposed bid is admissible against the current
// state of item. It has no side effects. Checks run in a fixed order and the
// first failing check wins, so callers always see the most specific reason.
func ValidateBid(item *Collectible, bidder domain.CollectorId, amount float64, now time.Time) error {
	if item.SaleType != SaleTypeAuction || item.Auction == nil {
		return ErrNotForAuction
	}

	auction := item.Auction
	if auction.Status != AuctionStatusLive {
		return ErrAuctionNotActive
	}
	if now.Before(auction.StartTime) {
		return ErrAuctionNotStarted
	}
	if now.After(auction.EndTime) {
		return ErrAuctionAlreadyEnded
	}
	if bidder.Equals(item.Owner) {
		return ErrSelfBid
	}
	if minimum := MinimumAcceptableBid(item); amount < minimum {
		return &BidTooLowError{Minimum: minimum}
	}
	// Only the most recent entry is checked. A bidder who has been outbid by
	// someone else may bid again.
	if last := auction.HighestBid(); last != nil && last.Bidder.Equals(bidder) {
		return ErrAlreadyHighestBidder
	}
	return nil
}

// ValidateSchedule checks an auction schedule at creation time.
func ValidateSchedule(auction *AuctionPayload, now time.Time) error {
	if auction == nil {
		return domain.ErrBadParamInput
	}
	if !auction.EndTime.After(auction.StartTime) {
		return domain.ErrInvalidSchedule
	}
	if !auction.StartTime.After(now) {
		return domain.ErrInvalidSchedule
	}
	if auction.MinimumBidIncrement <= 0 {
		return domain.ErrBadParamInput
	}
	return nil
}
