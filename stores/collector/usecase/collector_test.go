package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/domain/collector"
	mCollector "github.com/craftbid/goapi/domain/collector/mocks"
)

func TestRegisterNewCollector(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	repo := &mCollector.Repo{}
	defer repo.AssertExpectations(t)

	repo.On("FindOne", mock.Anything, domain.CollectorId("alice")).Return(nil, domain.ErrNotFound).Once()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *collector.Collector) bool {
		return c.Id == "alice" && c.Name == "Alice" && c.Email == "alice@example.com" &&
			c.ActiveBids != nil && c.WonAuctions != nil && c.ListedItems != nil
	})).Return(nil).Once()

	im := New(&CollectorUseCaseCfg{CollectorRepo: repo})
	res, err := im.Register(ctx, collector.RegisterPayload{Id: "alice", Name: "Alice", Email: "alice@example.com"})
	req.NoError(err)
	req.Equal(domain.CollectorId("alice"), res.Id)
}

func TestRegisterKeepsLedgers(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	repo := &mCollector.Repo{}
	defer repo.AssertExpectations(t)

	existing := &collector.Collector{
		Id:    "alice",
		Name:  "Old Name",
		Email: "old@example.com",
		ActiveBids: []collector.ActiveBid{
			{CollectibleId: "item-1", CurrentBid: 110, LastBidTime: time.Now()},
		},
		WonAuctions: []collector.WonAuction{
			{CollectibleId: "item-2", WinningBid: 300},
		},
		ListedItems: []collectible.Id{"item-3"},
	}

	repo.On("FindOne", mock.Anything, domain.CollectorId("alice")).Return(existing, nil).Once()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *collector.Collector) bool {
		return c.Name == "New Name" && len(c.ActiveBids) == 1 && len(c.WonAuctions) == 1 && len(c.ListedItems) == 1
	})).Return(nil).Once()

	im := New(&CollectorUseCaseCfg{CollectorRepo: repo})
	res, err := im.Register(ctx, collector.RegisterPayload{Id: "alice", Name: "New Name", Email: "new@example.com"})
	req.NoError(err)
	req.Equal("new@example.com", res.Email)
	req.Len(res.WonAuctions, 1)
}

func TestGetUnknownCollector(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()

	repo := &mCollector.Repo{}
	defer repo.AssertExpectations(t)

	repo.On("FindOne", mock.Anything, domain.CollectorId("ghost")).Return(nil, domain.ErrNotFound).Once()

	im := New(&CollectorUseCaseCfg{CollectorRepo: repo})
	_, err := im.Get(ctx, "ghost")
	req.ErrorIs(err, domain.ErrNotFound)
}
