package usecase

import (
	"time"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/domain/collector"
)

var timeNow = time.Now

type CollectorUseCaseCfg struct {
	CollectorRepo collector.Repo
}

type impl struct {
	collector collector.Repo
}

func New(cfg *CollectorUseCaseCfg) collector.UseCase {
	return &impl{
		collector: cfg.CollectorRepo,
	}
}

func (im *impl) Get(ctx ctx.Ctx, id domain.CollectorId) (*collector.Collector, error) {
	res, err := im.collector.FindOne(ctx, id)
	if err == domain.ErrNotFound {
		return nil, err
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("collector.FindOne")
		return nil, err
	}
	return res, nil
}

// Register merges the payload into the stored profile. The bid and won
// ledgers are owned by settlement and never touched here.
func (im *impl) Register(ctx ctx.Ctx, payload collector.RegisterPayload) (*collector.Collector, error) {
	now := timeNow()

	cur, err := im.collector.FindOne(ctx, payload.Id)
	if err == domain.ErrNotFound {
		cur = &collector.Collector{
			Id:          payload.Id,
			ActiveBids:  []collector.ActiveBid{},
			WonAuctions: []collector.WonAuction{},
			ListedItems: []collectible.Id{},
			CreatedAt:   now,
		}
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  payload.Id,
		}).Error("collector.FindOne")
		return nil, err
	}

	cur.Name = payload.Name
	cur.Email = payload.Email
	cur.UpdatedAt = now

	if err := im.collector.Upsert(ctx, cur); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  payload.Id,
		}).Error("collector.Upsert")
		return nil, err
	}

	return cur, nil
}
