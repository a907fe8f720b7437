package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collector"
	"github.com/craftbid/goapi/service/query"
	mQuery "github.com/craftbid/goapi/service/query/mocks"
)

func TestAppendWonAuction(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	q := &mQuery.Mongo{}
	defer q.AssertExpectations(t)

	won := collector.WonAuction{CollectibleId: "item-1", WinningBid: 500, WonAt: time.Now()}

	q.On("CustomPatch", mock.Anything, domain.TableCollectors, mock.Anything, mock.Anything, false).Return(nil).Once()

	im := New(q, nil)
	req.NoError(im.AppendWonAuction(ctx, "alice", won))
}

func TestAppendWonAuctionCreatesMissingCollector(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	q := &mQuery.Mongo{}
	defer q.AssertExpectations(t)

	won := collector.WonAuction{CollectibleId: "item-1", WinningBid: 500, WonAt: time.Now()}

	// a buy-now winner who never bid has no document yet, the ledger entry
	// must not be lost
	q.On("CustomPatch", mock.Anything, domain.TableCollectors, mock.Anything, mock.Anything, false).
		Return(query.ErrNotFound).Once()
	q.On("FindOne", mock.Anything, domain.TableCollectors, mock.Anything, mock.Anything).
		Return(query.ErrNotFound).Once()
	q.On("Upsert", mock.Anything, domain.TableCollectors, mock.Anything, mock.MatchedBy(func(c *collector.Collector) bool {
		return c.Id == "carol" && len(c.WonAuctions) == 1 &&
			c.WonAuctions[0].CollectibleId == won.CollectibleId &&
			len(c.ActiveBids) == 0 && len(c.ListedItems) == 0
	})).Return(nil).Once()

	im := New(q, nil)
	req.NoError(im.AppendWonAuction(ctx, "carol", won))
}

func TestAppendWonAuctionIsAppendOnce(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	q := &mQuery.Mongo{}
	defer q.AssertExpectations(t)

	won := collector.WonAuction{CollectibleId: "item-1", WinningBid: 500, WonAt: time.Now()}

	// the selector misses because the ledger already holds the auction, the
	// existing document must be left alone
	q.On("CustomPatch", mock.Anything, domain.TableCollectors, mock.Anything, mock.Anything, false).
		Return(query.ErrNotFound).Once()
	q.On("FindOne", mock.Anything, domain.TableCollectors, mock.Anything, mock.Anything).Return(nil).Once()

	im := New(q, nil)
	req.NoError(im.AppendWonAuction(ctx, "bob", won))
	q.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
