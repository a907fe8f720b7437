package collectible

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftbid/goapi/base/ptr"
	"github.com/craftbid/goapi/domain"
)

func TestResolveWinner(t *testing.T) {
	req := require.New(t)

	history := []BidEntry{
		{Bidder: "alice", Amount: 110},
		{Bidder: "bob", Amount: 130},
		{Bidder: "alice", Amount: 150},
	}

	// no bids, no winner
	outcome := ResolveWinner(nil, nil)
	req.False(outcome.HasWinner())
	req.Zero(outcome.WinningBid)

	// no reserve, last bidder wins
	outcome = ResolveWinner(history, nil)
	req.True(outcome.HasWinner())
	req.Equal(domain.CollectorId("alice"), *outcome.Winner)
	req.Equal(float64(150), outcome.WinningBid)
	req.True(outcome.MeetsReserve)

	// reserve met exactly
	outcome = ResolveWinner(history, ptr.Float64(150))
	req.True(outcome.HasWinner())

	// reserve not met, highest bid recorded but nobody wins
	outcome = ResolveWinner(history, ptr.Float64(200))
	req.False(outcome.HasWinner())
	req.Equal(float64(150), outcome.WinningBid)
	req.False(outcome.MeetsReserve)
}

func TestCountUniqueBidders(t *testing.T) {
	req := require.New(t)

	a := &Auction{BidHistory: []BidEntry{
		{Bidder: "alice", Amount: 110},
		{Bidder: "bob", Amount: 130},
		{Bidder: "alice", Amount: 150},
	}}

	// outbid bidders still count
	req.Equal(2, a.CountUniqueBidders())
	req.Equal(0, (&Auction{}).CountUniqueBidders())
}
