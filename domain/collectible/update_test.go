package collectible

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craftbid/goapi/base/ptr"
	"github.com/craftbid/goapi/domain"
)

func TestAdjustReserveValidate(t *testing.T) {
	req := require.New(t)
	now := time.Now()

	item := auctionItem(nil)
	req.NoError(AdjustReserve{ReservePrice: ptr.Float64(300)}.Validate(item, now))
	// clearing is an adjustment too
	req.NoError(AdjustReserve{}.Validate(item, now))

	withBids := auctionItem(func(i *Collectible) { i.Auction.TotalBids = 2 })
	req.ErrorIs(AdjustReserve{ReservePrice: ptr.Float64(300)}.Validate(withBids, now), ErrAdjustAfterBids)

	ended := auctionItem(func(i *Collectible) { i.Auction.Status = AuctionStatusEnded })
	req.ErrorIs(AdjustReserve{}.Validate(ended, now), domain.ErrConflict)
}

func TestSetBuyNowValidate(t *testing.T) {
	req := require.New(t)
	now := time.Now()

	item := auctionItem(func(i *Collectible) { i.Auction.CurrentBid = 150 })

	req.NoError(SetBuyNow{BuyNowPrice: ptr.Float64(200)}.Validate(item, now))
	req.NoError(SetBuyNow{}.Validate(item, now))
	req.ErrorIs(SetBuyNow{BuyNowPrice: ptr.Float64(150)}.Validate(item, now), ErrBuyNowBelowCurrent)
	req.ErrorIs(SetBuyNow{BuyNowPrice: ptr.Float64(100)}.Validate(item, now), ErrBuyNowBelowCurrent)
}

func TestSellDirectValidate(t *testing.T) {
	req := require.New(t)
	now := time.Now()

	direct := &Collectible{Owner: "seller", SaleType: SaleTypeDirect, Status: ItemStatusActive}

	req.NoError(SellDirect{Buyer: "alice"}.Validate(direct, now))
	req.ErrorIs(SellDirect{Buyer: "seller"}.Validate(direct, now), ErrBuyNowUnavailable)

	sold := &Collectible{Owner: "seller", SaleType: SaleTypeDirect, Status: ItemStatusSold}
	req.ErrorIs(SellDirect{Buyer: "alice"}.Validate(sold, now), ErrNotForSale)

	req.ErrorIs(SellDirect{Buyer: "alice"}.Validate(auctionItem(nil), now), ErrNotForSale)
}

func TestSettleValidate(t *testing.T) {
	req := require.New(t)
	now := time.Now()

	live := auctionItem(nil)
	req.NoError(Settle{AuctionStatus: AuctionStatusEnded, ItemStatus: ItemStatusActive}.Validate(live, now))

	// settling twice conflicts, settlement is idempotent one level up
	done := auctionItem(func(i *Collectible) { i.Auction.Status = AuctionStatusSold })
	req.ErrorIs(Settle{AuctionStatus: AuctionStatusEnded}.Validate(done, now), domain.ErrConflict)
}
