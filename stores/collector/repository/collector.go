package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/domain/collector"
	"github.com/craftbid/goapi/service/cache"
	"github.com/craftbid/goapi/service/cache/provider"
	"github.com/craftbid/goapi/service/cache/provider/compound"
	"github.com/craftbid/goapi/service/cache/provider/primitive"
	redisCache "github.com/craftbid/goapi/service/cache/provider/redis"
	"github.com/craftbid/goapi/service/query"
	"github.com/craftbid/goapi/service/redis"
)

var timeNow = time.Now

type impl struct {
	q              query.Mongo
	collectorCache cache.Service
}

// New creates new collector repo
func New(q query.Mongo, redis redis.Service) collector.Repo {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("collector", 128),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &impl{
		q: q,
		collectorCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "collector",
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *impl) FindOne(ctx ctx.Ctx, id domain.CollectorId) (*collector.Collector, error) {
	res := &collector.Collector{}

	if err := im.collectorCache.GetByFunc(ctx, id.String(), res, func() (interface{}, error) {
		return im.findOne(ctx, id)
	}); err != nil {
		if err == domain.ErrNotFound {
			return nil, err
		}
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("collectorCache.GetByFunc failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) findOne(ctx ctx.Ctx, id domain.CollectorId) (*collector.Collector, error) {
	res := collector.Collector{}
	err := im.q.FindOne(ctx, domain.TableCollectors, bson.M{"id": id}, &res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.FindOne")
		return nil, err
	}

	return &res, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, c *collector.Collector) error {
	err := im.q.Upsert(ctx, domain.TableCollectors, bson.M{"id": c.Id}, c)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  c.Id,
		}).Error("failed to q.Upsert")
		return err
	}

	im.invalidate(ctx, c.Id)
	return nil
}

// UpsertActiveBid removes any previous entry for the bid's auction and
// appends the new one. At most one entry per auction survives.
func (im *impl) UpsertActiveBid(ctx ctx.Ctx, id domain.CollectorId, bid collector.ActiveBid) error {
	selector := bson.M{"id": id}

	pull := bson.M{
		"$pull": bson.M{"activeBids": bson.M{"collectibleId": bid.CollectibleId}},
		"$set":  bson.M{"updatedAt": timeNow()},
	}
	if err := im.q.CustomPatch(ctx, domain.TableCollectors, selector, pull, false); err != nil && err != query.ErrNotFound {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.CustomPatch pull activeBids")
		return err
	}

	push := bson.M{
		"$push": bson.M{"activeBids": bid},
		"$set":  bson.M{"updatedAt": timeNow()},
	}
	if err := im.q.CustomPatch(ctx, domain.TableCollectors, selector, push, true); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.CustomPatch push activeBids")
		return err
	}

	im.invalidate(ctx, id)
	return nil
}

// AppendWonAuction is append once. A retried settlement matches nothing on
// the second pass and returns cleanly.
func (im *impl) AppendWonAuction(ctx ctx.Ctx, id domain.CollectorId, won collector.WonAuction) error {
	selector := bson.M{
		"id":                        id,
		"wonAuctions.collectibleId": bson.M{"$ne": won.CollectibleId},
	}
	updater := bson.M{
		"$push": bson.M{"wonAuctions": won},
		"$set":  bson.M{"updatedAt": timeNow()},
	}

	err := im.q.CustomPatch(ctx, domain.TableCollectors, selector, updater, false)
	if err == query.ErrNotFound {
		// selector misses both when the ledger already holds this auction and
		// when the collector has no document yet, a buy-now winner may have
		// never bid before
		if _, ferr := im.findOne(ctx, id); ferr == nil {
			return nil
		} else if ferr != domain.ErrNotFound {
			return ferr
		}
		return im.createWithWonAuction(ctx, id, won)
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.CustomPatch wonAuctions")
		return err
	}

	im.invalidate(ctx, id)
	return nil
}

func (im *impl) createWithWonAuction(ctx ctx.Ctx, id domain.CollectorId, won collector.WonAuction) error {
	now := timeNow()
	fresh := &collector.Collector{
		Id:          id,
		ActiveBids:  []collector.ActiveBid{},
		WonAuctions: []collector.WonAuction{won},
		ListedItems: []collectible.Id{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := im.q.Upsert(ctx, domain.TableCollectors, bson.M{"id": id}, fresh); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.Upsert fresh collector")
		return err
	}

	im.invalidate(ctx, id)
	return nil
}

func (im *impl) AddListedItem(ctx ctx.Ctx, id domain.CollectorId, item collectible.Id) error {
	selector := bson.M{"id": id}
	updater := bson.M{
		"$addToSet": bson.M{"listedItems": item},
		"$set":      bson.M{"updatedAt": timeNow()},
	}

	err := im.q.CustomPatch(ctx, domain.TableCollectors, selector, updater, true)
	if err != nil && err != query.ErrNotFound {
		ctx.WithFields(log.Fields{
			"err":  err,
			"id":   id,
			"item": item,
		}).Error("failed to q.CustomPatch listedItems")
		return err
	}

	im.invalidate(ctx, id)
	return nil
}

func (im *impl) invalidate(ctx ctx.Ctx, id domain.CollectorId) {
	if err := im.collectorCache.Del(ctx, id.String()); err != nil && err != cache.ErrNotFound {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Warn("collectorCache.Del failed")
	}
}
