package collectible

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitialStatus(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	req.Equal(AuctionStatusLive, InitialStatus(now.Add(-time.Hour), now))
	req.Equal(AuctionStatusLive, InitialStatus(now, now))
	req.Equal(AuctionStatusLive, InitialStatus(now.Add(LiveLookahead), now))
	req.Equal(AuctionStatusScheduled, InitialStatus(now.Add(LiveLookahead+time.Second), now))
}

func TestNextStatus(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	item := func(status AuctionStatus, start, end time.Time) *Collectible {
		return &Collectible{
			SaleType: SaleTypeAuction,
			Auction:  &Auction{Status: status, StartTime: start, EndTime: end},
		}
	}

	// scheduled auction inside its window goes live
	next, changed := NextStatus(item(AuctionStatusScheduled, now.Add(-time.Minute), now.Add(time.Hour)), now)
	req.True(changed)
	req.Equal(AuctionStatusLive, next)

	// scheduled auction before its window stays scheduled
	next, changed = NextStatus(item(AuctionStatusScheduled, now.Add(time.Hour), now.Add(2*time.Hour)), now)
	req.False(changed)
	req.Equal(AuctionStatusScheduled, next)

	// live auction past end time must settle
	next, changed = NextStatus(item(AuctionStatusLive, now.Add(-2*time.Hour), now.Add(-time.Minute)), now)
	req.True(changed)
	req.Equal(AuctionStatusEnded, next)

	// live auction inside its window stays live
	next, changed = NextStatus(item(AuctionStatusLive, now.Add(-time.Hour), now.Add(time.Hour)), now)
	req.False(changed)
	req.Equal(AuctionStatusLive, next)

	// terminal statuses never move
	for _, status := range []AuctionStatus{AuctionStatusEnded, AuctionStatusCancelled, AuctionStatusSold} {
		next, changed = NextStatus(item(status, now.Add(-2*time.Hour), now.Add(-time.Hour)), now)
		req.False(changed)
		req.Equal(status, next)
	}

	// non-auction items are left alone
	_, changed = NextStatus(&Collectible{SaleType: SaleTypeDirect}, now)
	req.False(changed)
}

func TestItemStatusFor(t *testing.T) {
	req := require.New(t)

	req.Equal(ItemStatusActive, ItemStatusFor(AuctionStatusLive, ItemStatusPending))
	req.Equal(ItemStatusSold, ItemStatusFor(AuctionStatusSold, ItemStatusActive))
	req.Equal(ItemStatusInactive, ItemStatusFor(AuctionStatusCancelled, ItemStatusActive))
	req.Equal(ItemStatusActive, ItemStatusFor(AuctionStatusEnded, ItemStatusActive))
}
