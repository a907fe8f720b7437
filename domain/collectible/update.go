package collectible

import (
	"time"

	"github.com/craftbid/goapi/domain"
)

// UpdateCommand is a typed mutation against one collectible. Commands are
// validated against the freshly read record before reaching storage, there is
// no generic field-by-field pass-through. The repo translates each command
// into a single atomic update.
type UpdateCommand interface {
	// Validate checks the command against the current record state.
	Validate(current *Collectible, now time.Time) error
}

// AdmitBid appends one validated bid and refreshes the derived counters.
type AdmitBid struct {
	Entry         BidEntry
	UniqueBidders int
}

func (c AdmitBid) Validate(current *Collectible, now time.Time) error {
	return ValidateBid(current, c.Entry.Bidder, c.Entry.Amount, now)
}

// Transition moves the auction to a new lifecycle status and mirrors the
// catalog-level status.
type Transition struct {
	AuctionStatus AuctionStatus
	ItemStatus    ItemStatus
}

func (c Transition) Validate(current *Collectible, now time.Time) error {
	if !current.IsAuction() {
		return ErrNotForAuction
	}
	if current.Auction.Status.IsTerminal() {
		return domain.ErrConflict
	}
	return nil
}

// Settle records the terminal outcome of an auction. TerminalEntry is set for
// buy-now purchases only, it appends the synthetic audit bid.
type Settle struct {
	Winner        *domain.CollectorId
	WinningBid    float64
	AuctionStatus AuctionStatus
	ItemStatus    ItemStatus
	TerminalEntry *BidEntry
	// UniqueBidders is the recomputed counter when TerminalEntry is appended
	UniqueBidders int
}

func (c Settle) Validate(current *Collectible, now time.Time) error {
	if !current.IsAuction() {
		return ErrNotForAuction
	}
	if current.Auction.Status.IsTerminal() {
		return domain.ErrConflict
	}
	return nil
}

// SellDirect transfers a direct-sale item to its buyer.
type SellDirect struct {
	Buyer domain.CollectorId
}

func (c SellDirect) Validate(current *Collectible, now time.Time) error {
	if current.SaleType != SaleTypeDirect {
		return ErrNotForSale
	}
	if current.Status != ItemStatusActive {
		return ErrNotForSale
	}
	if c.Buyer.Equals(current.Owner) {
		return ErrBuyNowUnavailable
	}
	return nil
}

// AdjustReserve changes the reserve price. Forbidden once any bid exists,
// sellers must not move the goalposts under admitted bids.
type AdjustReserve struct {
	ReservePrice *float64
}

func (c AdjustReserve) Validate(current *Collectible, now time.Time) error {
	if !current.IsAuction() {
		return ErrNotForAuction
	}
	if current.Auction.Status.IsTerminal() {
		return domain.ErrConflict
	}
	if current.Auction.TotalBids > 0 {
		return ErrAdjustAfterBids
	}
	return nil
}

// SetBuyNow sets or clears the buy-now price. A new price must exceed the
// current bid, otherwise buy-now would undercut admitted bidders.
type SetBuyNow struct {
	BuyNowPrice *float64
}

func (c SetBuyNow) Validate(current *Collectible, now time.Time) error {
	if !current.IsAuction() {
		return ErrNotForAuction
	}
	if current.Auction.Status.IsTerminal() {
		return domain.ErrConflict
	}
	if c.BuyNowPrice != nil && *c.BuyNowPrice <= current.Auction.CurrentBid {
		return ErrBuyNowBelowCurrent
	}
	return nil
}
