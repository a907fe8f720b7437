package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/keyed"
	"github.com/craftbid/goapi/base/metrics"
	"github.com/craftbid/goapi/base/ptr"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
	mCollectible "github.com/craftbid/goapi/domain/collectible/mocks"
	mCollector "github.com/craftbid/goapi/domain/collector/mocks"
	mCourier "github.com/craftbid/goapi/service/courier/mocks"
	mQuery "github.com/craftbid/goapi/service/query/mocks"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite

	repo          *mCollectible.Repo
	collectorRepo *mCollector.Repo
	q             *mQuery.Mongo
	broadcaster   *mCollectible.Broadcaster
	courier       *mCourier.Client

	im *impl
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) SetupTest() {
	timeNow = func() time.Time { return testNow }

	s.repo = &mCollectible.Repo{}
	s.collectorRepo = &mCollector.Repo{}
	s.q = &mQuery.Mongo{}
	s.broadcaster = &mCollectible.Broadcaster{}
	s.courier = &mCourier.Client{}

	// transactions run their body directly, commit semantics are covered by
	// the repository suites
	s.q.On("RunWithTransaction", mock.Anything, mock.Anything).
		Return(func(c bCtx.Ctx, run func(bCtx.Ctx) error) error { return run(c) }).Maybe()
	s.courier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	s.collectorRepo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound).Maybe()

	s.im = New(&CollectibleUseCaseCfg{
		CollectibleRepo: s.repo,
		CollectorRepo:   s.collectorRepo,
		Query:           s.q,
		Locks:           keyed.NewMutex(),
		Broadcaster:     s.broadcaster,
		Courier:         s.courier,
		Metrics:         metrics.New("test"),
	}).(*impl)
}

func (s *testSuite) TearDownTest() {
	timeNow = time.Now

	s.repo.AssertExpectations(s.T())
	s.collectorRepo.AssertExpectations(s.T())
	s.broadcaster.AssertExpectations(s.T())
}

func (s *testSuite) liveAuction(mutate func(*collectible.Collectible)) *collectible.Collectible {
	item := &collectible.Collectible{
		Id:       "d4b4ce19-6ba5-47d5-a1a8-9f6da34697d5",
		Owner:    "seller",
		Title:    "hand thrown vase",
		Price:    100,
		SaleType: collectible.SaleTypeAuction,
		Status:   collectible.ItemStatusActive,
		Version:  1,
		Auction: &collectible.Auction{
			StartTime:           testNow.Add(-time.Hour),
			EndTime:             testNow.Add(time.Hour),
			MinimumBidIncrement: 10,
			CurrentBid:          100,
			BidHistory:          []collectible.BidEntry{},
			Status:              collectible.AuctionStatusLive,
		},
	}
	if mutate != nil {
		mutate(item)
	}
	return item
}

func (s *testSuite) TestCreateAuction() {
	ctx := bCtx.Background()

	payload := collectible.CreatePayload{
		Owner:    "seller",
		Title:    "hand thrown vase",
		Price:    100,
		SaleType: collectible.SaleTypeAuction,
		Auction: &collectible.AuctionPayload{
			StartTime:           testNow.Add(24 * time.Hour),
			EndTime:             testNow.Add(48 * time.Hour),
			MinimumBidIncrement: 10,
			ReservePrice:        ptr.Float64(200),
		},
	}

	s.repo.On("Create", mock.Anything, mock.MatchedBy(func(item *collectible.Collectible) bool {
		return item.Auction != nil &&
			item.Auction.Status == collectible.AuctionStatusScheduled &&
			item.Status == collectible.ItemStatusPending &&
			item.Auction.CurrentBid == 100 &&
			item.Version == 1
	})).Return(nil).Once()
	s.collectorRepo.On("AddListedItem", mock.Anything, domain.CollectorId("seller"), mock.Anything).Return(nil).Once()

	item, err := s.im.Create(ctx, payload)
	s.Require().NoError(err)
	s.Require().NotEmpty(item.Id)
	s.Require().Equal(collectible.AuctionStatusScheduled, item.Auction.Status)
}

func (s *testSuite) TestCreateAuctionStartingSoonIsLive() {
	ctx := bCtx.Background()

	payload := collectible.CreatePayload{
		Owner:    "seller",
		Title:    "hand thrown vase",
		Price:    100,
		SaleType: collectible.SaleTypeAuction,
		Auction: &collectible.AuctionPayload{
			StartTime:           testNow.Add(2 * time.Minute),
			EndTime:             testNow.Add(48 * time.Hour),
			MinimumBidIncrement: 10,
		},
	}

	s.repo.On("Create", mock.Anything, mock.MatchedBy(func(item *collectible.Collectible) bool {
		return item.Auction.Status == collectible.AuctionStatusLive &&
			item.Status == collectible.ItemStatusActive
	})).Return(nil).Once()
	s.collectorRepo.On("AddListedItem", mock.Anything, domain.CollectorId("seller"), mock.Anything).Return(nil).Once()

	_, err := s.im.Create(ctx, payload)
	s.Require().NoError(err)
}

func (s *testSuite) TestCreateAuctionBadSchedule() {
	ctx := bCtx.Background()

	payload := collectible.CreatePayload{
		Owner:    "seller",
		Title:    "hand thrown vase",
		Price:    100,
		SaleType: collectible.SaleTypeAuction,
		Auction: &collectible.AuctionPayload{
			StartTime:           testNow.Add(48 * time.Hour),
			EndTime:             testNow.Add(24 * time.Hour),
			MinimumBidIncrement: 10,
		},
	}

	_, err := s.im.Create(ctx, payload)
	s.Require().ErrorIs(err, domain.ErrInvalidSchedule)
}

func (s *testSuite) TestPlaceBidAdmitted() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	updated := s.liveAuction(func(i *collectible.Collectible) {
		i.Version = 2
		i.Auction.CurrentBid = 110
		i.Auction.BidHistory = []collectible.BidEntry{{Bidder: "alice", Amount: 110, Timestamp: testNow}}
		i.Auction.TotalBids = 1
		i.Auction.UniqueBidders = 1
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.MatchedBy(func(cmd collectible.UpdateCommand) bool {
		admit, ok := cmd.(collectible.AdmitBid)
		return ok && admit.Entry.Amount == 110 && admit.Entry.Bidder == "alice" && admit.UniqueBidders == 1
	})).Return(updated, nil).Once()
	s.collectorRepo.On("UpsertActiveBid", mock.Anything, domain.CollectorId("alice"), mock.Anything).Return(nil).Once()
	s.broadcaster.On("Publish", mock.Anything, mock.MatchedBy(func(e *collectible.Event) bool {
		return e.Type == collectible.EventNewBid && e.CurrentBid == 110
	})).Return(nil).Once()

	res, err := s.im.PlaceBid(ctx, item.Id, collectible.PlaceBidPayload{Bidder: "alice", Amount: 110})
	s.Require().NoError(err)
	s.Require().Equal(float64(110), res.Auction.CurrentBid)
}

func (s *testSuite) TestPlaceBidTooLow() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	_, err := s.im.PlaceBid(ctx, item.Id, collectible.PlaceBidPayload{Bidder: "alice", Amount: 105})
	tooLow := &collectible.BidTooLowError{}
	s.Require().ErrorAs(err, &tooLow)
	s.Require().Equal(float64(110), tooLow.Minimum)
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *testSuite) TestPlaceBidConflictRetriesExhausted() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	// reconcile read plus one re-read per retry
	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Times(3)
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.Anything).
		Return(nil, domain.ErrVersionConflict).Times(3)

	_, err := s.im.PlaceBid(ctx, item.Id, collectible.PlaceBidPayload{Bidder: "alice", Amount: 110})
	s.Require().ErrorIs(err, domain.ErrTooManyConflicts)
}

func (s *testSuite) TestGetFastPath() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	res, err := s.im.Get(ctx, item.Id)
	s.Require().NoError(err)
	s.Require().Equal(item, res)
}

func (s *testSuite) TestGetSettlesExpiredAuction() {
	ctx := bCtx.Background()
	item := s.liveAuction(func(i *collectible.Collectible) {
		i.Auction.EndTime = testNow.Add(-time.Minute)
		i.Auction.BidHistory = []collectible.BidEntry{{Bidder: "bob", Amount: 150, Timestamp: testNow.Add(-time.Hour)}}
		i.Auction.CurrentBid = 150
		i.Auction.TotalBids = 1
		i.Auction.UniqueBidders = 1
	})
	winner := domain.CollectorId("bob")

	settled := s.liveAuction(func(i *collectible.Collectible) {
		i.Version = 2
		i.Status = collectible.ItemStatusSold
		i.Auction.Status = collectible.AuctionStatusSold
		i.Auction.Winner = &winner
		i.Auction.WinningBid = 150
	})

	// fast-path check plus the locked re-read
	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Times(2)
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.MatchedBy(func(cmd collectible.UpdateCommand) bool {
		settle, ok := cmd.(collectible.Settle)
		return ok && settle.AuctionStatus == collectible.AuctionStatusSold &&
			settle.Winner != nil && *settle.Winner == winner && settle.WinningBid == 150
	})).Return(settled, nil).Once()
	s.collectorRepo.On("AppendWonAuction", mock.Anything, winner, mock.Anything).Return(nil).Once()
	s.broadcaster.On("Publish", mock.Anything, mock.MatchedBy(func(e *collectible.Event) bool {
		return e.Type == collectible.EventAuctionEnded && e.EndReason == collectible.EndReasonExpired
	})).Return(nil).Once()

	res, err := s.im.Get(ctx, item.Id)
	s.Require().NoError(err)
	s.Require().Equal(collectible.AuctionStatusSold, res.Auction.Status)
}

func (s *testSuite) TestFinalizeReserveNotMet() {
	ctx := bCtx.Background()
	item := s.liveAuction(func(i *collectible.Collectible) {
		i.Auction.EndTime = testNow.Add(-time.Minute)
		i.Auction.ReservePrice = ptr.Float64(200)
		i.Auction.BidHistory = []collectible.BidEntry{{Bidder: "bob", Amount: 150}}
		i.Auction.CurrentBid = 150
	})

	ended := s.liveAuction(func(i *collectible.Collectible) {
		i.Version = 2
		i.Auction.Status = collectible.AuctionStatusEnded
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.MatchedBy(func(cmd collectible.UpdateCommand) bool {
		settle, ok := cmd.(collectible.Settle)
		return ok && settle.AuctionStatus == collectible.AuctionStatusEnded && settle.Winner == nil
	})).Return(ended, nil).Once()
	s.broadcaster.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	res, err := s.im.Finalize(ctx, item.Id)
	s.Require().NoError(err)
	s.Require().Equal(collectible.AuctionStatusEnded, res.Auction.Status)
	s.collectorRepo.AssertNotCalled(s.T(), "AppendWonAuction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *testSuite) TestFinalizeIsIdempotent() {
	ctx := bCtx.Background()
	item := s.liveAuction(func(i *collectible.Collectible) {
		i.Auction.Status = collectible.AuctionStatusSold
		i.Status = collectible.ItemStatusSold
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	res, err := s.im.Finalize(ctx, item.Id)
	s.Require().NoError(err)
	s.Require().Equal(item, res)
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *testSuite) TestBuyNowAuction() {
	ctx := bCtx.Background()
	item := s.liveAuction(func(i *collectible.Collectible) {
		i.Auction.BuyNowPrice = ptr.Float64(500)
	})
	buyer := domain.CollectorId("carol")

	sold := s.liveAuction(func(i *collectible.Collectible) {
		i.Version = 2
		i.Status = collectible.ItemStatusSold
		i.Auction.Status = collectible.AuctionStatusSold
		i.Auction.Winner = &buyer
		i.Auction.WinningBid = 500
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.MatchedBy(func(cmd collectible.UpdateCommand) bool {
		settle, ok := cmd.(collectible.Settle)
		return ok && settle.TerminalEntry != nil && settle.TerminalEntry.Amount == 500 &&
			settle.AuctionStatus == collectible.AuctionStatusSold
	})).Return(sold, nil).Once()
	s.collectorRepo.On("AppendWonAuction", mock.Anything, buyer, mock.Anything).Return(nil).Once()
	s.broadcaster.On("Publish", mock.Anything, mock.MatchedBy(func(e *collectible.Event) bool {
		return e.Type == collectible.EventAuctionEnded && e.EndReason == collectible.EndReasonBuyNow
	})).Return(nil).Once()

	res, err := s.im.BuyNow(ctx, item.Id, collectible.BuyNowPayload{Buyer: buyer})
	s.Require().NoError(err)
	s.Require().Equal(float64(500), res.Auction.WinningBid)
}

func (s *testSuite) TestBuyNowUnavailable() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	_, err := s.im.BuyNow(ctx, item.Id, collectible.BuyNowPayload{Buyer: "carol"})
	s.Require().ErrorIs(err, collectible.ErrBuyNowUnavailable)
}

func (s *testSuite) TestBuyNowByOwner() {
	ctx := bCtx.Background()
	item := s.liveAuction(func(i *collectible.Collectible) {
		i.Auction.BuyNowPrice = ptr.Float64(500)
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	_, err := s.im.BuyNow(ctx, item.Id, collectible.BuyNowPayload{Buyer: "seller"})
	s.Require().ErrorIs(err, collectible.ErrSelfBid)
}

func (s *testSuite) TestCancelScheduled() {
	ctx := bCtx.Background()
	item := s.liveAuction(func(i *collectible.Collectible) {
		i.Auction.Status = collectible.AuctionStatusScheduled
		i.Auction.StartTime = testNow.Add(time.Hour)
		i.Auction.EndTime = testNow.Add(2 * time.Hour)
	})

	cancelled := s.liveAuction(func(i *collectible.Collectible) {
		i.Version = 2
		i.Status = collectible.ItemStatusInactive
		i.Auction.Status = collectible.AuctionStatusCancelled
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.MatchedBy(func(cmd collectible.UpdateCommand) bool {
		tr, ok := cmd.(collectible.Transition)
		return ok && tr.AuctionStatus == collectible.AuctionStatusCancelled
	})).Return(cancelled, nil).Once()
	s.broadcaster.On("Publish", mock.Anything, mock.MatchedBy(func(e *collectible.Event) bool {
		return e.Type == collectible.EventAuctionCancelled
	})).Return(nil).Once()

	res, err := s.im.Cancel(ctx, item.Id, "seller", false)
	s.Require().NoError(err)
	s.Require().Equal(collectible.AuctionStatusCancelled, res.Auction.Status)
}

func (s *testSuite) TestCancelLiveWithBids() {
	ctx := bCtx.Background()
	item := s.liveAuction(func(i *collectible.Collectible) {
		i.Auction.BidHistory = []collectible.BidEntry{{Bidder: "alice", Amount: 110}}
		i.Auction.CurrentBid = 110
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	_, err := s.im.Cancel(ctx, item.Id, "seller", false)
	s.Require().ErrorIs(err, collectible.ErrCancelWithBids)
}

func (s *testSuite) TestCancelUnauthorized() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	_, err := s.im.Cancel(ctx, item.Id, "mallory", false)
	s.Require().ErrorIs(err, domain.ErrUnauthorized)

	// an admin may cancel someone else's scheduled auction
	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.Anything).
		Return(s.liveAuction(func(i *collectible.Collectible) {
			i.Auction.Status = collectible.AuctionStatusCancelled
		}), nil).Once()
	s.broadcaster.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	_, err = s.im.Cancel(ctx, item.Id, "mallory", true)
	s.Require().NoError(err)
}

func (s *testSuite) TestAdjustReserveByOwner() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	adjusted := s.liveAuction(func(i *collectible.Collectible) {
		i.Version = 2
		i.Auction.ReservePrice = ptr.Float64(300)
	})

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()
	s.repo.On("Update", mock.Anything, item.Id, int64(1), mock.Anything).Return(adjusted, nil).Once()

	res, err := s.im.Adjust(ctx, item.Id, "seller", collectible.AdjustReserve{ReservePrice: ptr.Float64(300)})
	s.Require().NoError(err)
	s.Require().Equal(float64(300), *res.Auction.ReservePrice)
}

func (s *testSuite) TestAdjustByStranger() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	s.repo.On("FindOne", mock.Anything, item.Id).Return(item, nil).Once()

	_, err := s.im.Adjust(ctx, item.Id, "mallory", collectible.AdjustReserve{})
	s.Require().ErrorIs(err, domain.ErrUnauthorized)
}

func (s *testSuite) TestAdjustRejectsForeignCommands() {
	ctx := bCtx.Background()

	_, err := s.im.Adjust(ctx, "d4b4ce19-6ba5-47d5-a1a8-9f6da34697d5", "seller", collectible.Transition{})
	s.Require().ErrorIs(err, domain.ErrBadParamInput)
}

func (s *testSuite) TestSettleExpired() {
	ctx := bCtx.Background()

	// both already terminal by the time the sweep re-reads them, counted as
	// settled without another update
	a := s.liveAuction(func(i *collectible.Collectible) {
		i.Id = "0c9adbf7-41c6-44b3-b6b0-0ab79c9f3a0a"
		i.Auction.Status = collectible.AuctionStatusSold
	})
	b := s.liveAuction(func(i *collectible.Collectible) {
		i.Id = "9aa17d0f-6e29-4a55-9f49-6d36747865ba"
		i.Auction.Status = collectible.AuctionStatusEnded
	})

	s.repo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*collectible.Collectible{a, b}, nil).Once()
	s.repo.On("FindOne", mock.Anything, a.Id).Return(a, nil).Once()
	s.repo.On("FindOne", mock.Anything, b.Id).Return(b, nil).Once()

	settled, err := s.im.SettleExpired(ctx)
	s.Require().NoError(err)
	s.Require().Equal(2, settled)
}

func (s *testSuite) TestListLive() {
	ctx := bCtx.Background()
	item := s.liveAuction(nil)

	s.repo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).
		Return([]*collectible.Collectible{item}, nil).Once()
	s.repo.On("Count", mock.Anything, mock.Anything, mock.Anything).Return(1, nil).Once()

	res, err := s.im.ListLive(ctx)
	s.Require().NoError(err)
	s.Require().Len(res.Items, 1)
	s.Require().Equal(1, res.Count)
}

func (s *testSuite) TestListLiveCountSharesFilters() {
	ctx := bCtx.Background()
	live := s.liveAuction(nil)
	expired := s.liveAuction(func(i *collectible.Collectible) {
		i.Id = "b6f7c6c2-9d27-4f7f-8a0e-3a3f1d0c2e47"
		i.Auction.EndTime = testNow.Add(-time.Minute)
	})
	terminal := s.liveAuction(func(i *collectible.Collectible) {
		i.Id = expired.Id
		i.Auction.Status = collectible.AuctionStatusEnded
	})

	// the straggler is settled inline and excluded from the page, the count
	// query carries the caller's category filter alongside the defaults
	s.repo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*collectible.Collectible{live, expired}, nil).Once()
	s.repo.On("FindOne", mock.Anything, expired.Id).Return(terminal, nil).Once()
	s.repo.On("Count", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(1, nil).Once()

	res, err := s.im.ListLive(ctx, collectible.WithCategory("ceramics"))
	s.Require().NoError(err)
	s.Require().Len(res.Items, 1)
	s.Require().Equal(1, res.Count)
}
