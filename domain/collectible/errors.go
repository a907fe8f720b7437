package collectible

import (
	"errors"
	"fmt"
)

// Bid rejections are expected, frequent outcomes rather than failures, they
// are surfaced to the caller with the specific rule violated.
var (
	ErrNotForAuction        = errors.New("this item is not available for auction")
	ErrAuctionNotActive     = errors.New("this auction is not currently active")
	ErrAuctionNotStarted    = errors.New("this auction has not started yet")
	ErrAuctionAlreadyEnded  = errors.New("this auction has already ended")
	ErrSelfBid              = errors.New("you cannot bid on your own auction")
	ErrAlreadyHighestBidder = errors.New("you are already the highest bidder")

	ErrBuyNowUnavailable  = errors.New("buy now is not available for this item")
	ErrNotForSale         = errors.New("this item is not available for purchase")
	ErrCancelWithBids     = errors.New("cannot cancel an auction with existing bids")
	ErrCancelTerminal     = errors.New("this auction can no longer be cancelled")
	ErrAdjustAfterBids    = errors.New("cannot adjust this field after bids have been placed")
	ErrBuyNowBelowCurrent = errors.New("buy now price must exceed the current bid")
)

// BidTooLowError carries the computed minimum acceptable amount so the caller
// can show the bidder what to offer next.
type BidTooLowError struct {
	Minimum float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid must be at least %.2f", e.Minimum)
}

// IsRejection reports whether err is a bid/state rejection rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, ErrNotForAuction),
		errors.Is(err, ErrAuctionNotActive),
		errors.Is(err, ErrAuctionNotStarted),
		errors.Is(err, ErrAuctionAlreadyEnded),
		errors.Is(err, ErrSelfBid),
		errors.Is(err, ErrAlreadyHighestBidder),
		errors.Is(err, ErrBuyNowUnavailable),
		errors.Is(err, ErrNotForSale),
		errors.Is(err, ErrCancelWithBids),
		errors.Is(err, ErrCancelTerminal),
		errors.Is(err, ErrAdjustAfterBids),
		errors.Is(err, ErrBuyNowBelowCurrent):
		return true
	}
	var tooLow *BidTooLowError
	return errors.As(err, &tooLow)
}
