package collectible

import "github.com/craftbid/goapi/domain"

// Outcome is the result of resolving a completed auction.
type Outcome struct {
	Winner       *domain.CollectorId
	WinningBid   float64
	MeetsReserve bool
}

func (o Outcome) HasWinner() bool {
	return o.Winner != nil
}

// ResolveWinner computes the winning bidder from a completed bid history and
// an optional reserve price. Bids are admitted in strictly increasing order,
// so the last entry is the highest and no re-sort is needed. With bids below
// the reserve there is no winner even though the history is non-empty.
func ResolveWinner(history []BidEntry, reservePrice *float64) Outcome {
	if len(history) == 0 {
		return Outcome{}
	}

	last := history[len(history)-1]
	meetsReserve := reservePrice == nil || last.Amount >= *reservePrice
	if !meetsReserve {
		return Outcome{WinningBid: last.Amount}
	}
	winner := last.Bidder
	return Outcome{
		Winner:       &winner,
		WinningBid:   last.Amount,
		MeetsReserve: true,
	}
}
