package collectible

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craftbid/goapi/base/ptr"
	"github.com/craftbid/goapi/domain"
)

func auctionItem(mutate func(*Collectible)) *Collectible {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	item := &Collectible{
		Id:       "item-1",
		Owner:    "seller",
		Price:    100,
		SaleType: SaleTypeAuction,
		Status:   ItemStatusActive,
		Auction: &Auction{
			StartTime:           now.Add(-time.Hour),
			EndTime:             now.Add(time.Hour),
			MinimumBidIncrement: 10,
			CurrentBid:          100,
			Status:              AuctionStatusLive,
		},
	}
	if mutate != nil {
		mutate(item)
	}
	return item
}

func TestValidateBid(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*Collectible)
		bidder domain.CollectorId
		amount float64
		want   error
	}{
		{
			name:   "direct sale item",
			mutate: func(i *Collectible) { i.SaleType = SaleTypeDirect; i.Auction = nil },
			bidder: "alice",
			amount: 150,
			want:   ErrNotForAuction,
		},
		{
			name:   "not live",
			mutate: func(i *Collectible) { i.Auction.Status = AuctionStatusScheduled },
			bidder: "alice",
			amount: 150,
			want:   ErrAuctionNotActive,
		},
		{
			name: "before start",
			mutate: func(i *Collectible) {
				i.Auction.StartTime = now.Add(time.Minute)
			},
			bidder: "alice",
			amount: 150,
			want:   ErrAuctionNotStarted,
		},
		{
			name: "after end",
			mutate: func(i *Collectible) {
				i.Auction.EndTime = now.Add(-time.Minute)
			},
			bidder: "alice",
			amount: 150,
			want:   ErrAuctionAlreadyEnded,
		},
		{
			name:   "owner bids on own auction",
			bidder: "seller",
			amount: 150,
			want:   ErrSelfBid,
		},
		{
			name: "repeated highest bidder",
			mutate: func(i *Collectible) {
				i.Auction.BidHistory = []BidEntry{{Bidder: "alice", Amount: 110}}
				i.Auction.CurrentBid = 110
			},
			bidder: "alice",
			amount: 130,
			want:   ErrAlreadyHighestBidder,
		},
		{
			name:   "acceptable bid",
			bidder: "alice",
			amount: 110,
			want:   nil,
		},
		{
			name: "outbid bidder may return",
			mutate: func(i *Collectible) {
				i.Auction.BidHistory = []BidEntry{
					{Bidder: "alice", Amount: 110},
					{Bidder: "bob", Amount: 120},
				}
				i.Auction.CurrentBid = 120
			},
			bidder: "alice",
			amount: 130,
			want:   nil,
		},
	}

	for _, c := range cases {
		err := ValidateBid(auctionItem(c.mutate), c.bidder, c.amount, now)
		if c.want == nil {
			req.NoError(err, c.name)
		} else {
			req.ErrorIs(err, c.want, c.name)
		}
	}
}

func TestValidateBidTooLow(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	item := auctionItem(func(i *Collectible) {
		i.Auction.BidHistory = []BidEntry{{Bidder: "bob", Amount: 150}}
		i.Auction.CurrentBid = 150
	})

	err := ValidateBid(item, "alice", 155, now)
	tooLow := &BidTooLowError{}
	req.ErrorAs(err, &tooLow)
	req.Equal(float64(160), tooLow.Minimum)

	// the amount check precedes the repeat-bidder check
	err = ValidateBid(item, "bob", 155, now)
	req.ErrorAs(err, &tooLow)
}

func TestMinimumAcceptableBid(t *testing.T) {
	req := require.New(t)

	req.Equal(float64(110), MinimumAcceptableBid(auctionItem(nil)))

	direct := auctionItem(func(i *Collectible) { i.SaleType = SaleTypeDirect; i.Auction = nil })
	req.Equal(float64(100), MinimumAcceptableBid(direct))
}

func TestValidateSchedule(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	valid := &AuctionPayload{
		StartTime:           now.Add(time.Hour),
		EndTime:             now.Add(2 * time.Hour),
		MinimumBidIncrement: 5,
		ReservePrice:        ptr.Float64(200),
	}
	req.NoError(ValidateSchedule(valid, now))

	req.ErrorIs(ValidateSchedule(nil, now), domain.ErrBadParamInput)

	endBeforeStart := *valid
	endBeforeStart.EndTime = valid.StartTime.Add(-time.Minute)
	req.ErrorIs(ValidateSchedule(&endBeforeStart, now), domain.ErrInvalidSchedule)

	startInPast := *valid
	startInPast.StartTime = now.Add(-time.Minute)
	req.ErrorIs(ValidateSchedule(&startInPast, now), domain.ErrInvalidSchedule)

	zeroIncrement := *valid
	zeroIncrement.MinimumBidIncrement = 0
	req.ErrorIs(ValidateSchedule(&zeroIncrement, now), domain.ErrBadParamInput)
}
