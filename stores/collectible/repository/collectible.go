package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/service/query"
)

var timeNow = time.Now

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) collectible.Repo {
	return &impl{q}
}

func (im *impl) makeQuery(opts ...collectible.FindAllOptionsFunc) (bson.M, collectible.FindAllOptions, error) {
	options, err := collectible.GetFindAllOptions(opts...)
	if err != nil {
		return nil, options, err
	}
	query := bson.M{}

	if options.SaleType != nil {
		query["saleType"] = *options.SaleType
	}

	if options.AuctionStatus != nil {
		query["auction.auctionStatus"] = *options.AuctionStatus
	}

	if options.ItemStatus != nil {
		query["status"] = *options.ItemStatus
	}

	if options.EndTimeLTE != nil {
		query["auction.endTime"] = bson.M{"$lte": *options.EndTimeLTE}
	}

	if options.Category != nil {
		query["category"] = *options.Category
	}

	if options.Owner != nil {
		query["owner"] = *options.Owner
	}

	return query, options, nil
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...collectible.FindAllOptionsFunc) ([]*collectible.Collectible, error) {
	qry, options, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}
	sort := "_id"
	if options.Sort != nil {
		sort = *options.Sort
	}

	res := []*collectible.Collectible{}
	err = im.q.Search(ctx, domain.TableCollectibles, offset, limit, sort, qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *impl) Count(ctx ctx.Ctx, opts ...collectible.FindAllOptionsFunc) (int, error) {
	qry, _, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableCollectibles, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *impl) FindOne(ctx ctx.Ctx, id collectible.Id) (*collectible.Collectible, error) {
	res := collectible.Collectible{}
	err := im.q.FindOne(ctx, domain.TableCollectibles, bson.M{"id": id}, &res)
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

func (im *impl) Create(ctx ctx.Ctx, item *collectible.Collectible) error {
	err := im.q.Insert(ctx, domain.TableCollectibles, item)
	if err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  item.Id,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

// Update applies cmd as one atomic storage operation guarded by the record
// version and returns the post-mutation document. A selector miss on an
// existing record means another writer bumped the version first.
func (im *impl) Update(ctx ctx.Ctx, id collectible.Id, fromVersion int64, cmd collectible.UpdateCommand) (*collectible.Collectible, error) {
	updater, err := im.makeUpdater(cmd)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("im.makeUpdater")
		return nil, err
	}

	selector := bson.M{"id": id, "version": fromVersion}

	res := collectible.Collectible{}
	err = im.q.CustomPatchAndGet(ctx, domain.TableCollectibles, selector, updater, &res)
	if err == query.ErrNotFound {
		if _, ferr := im.FindOne(ctx, id); ferr == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		} else if ferr != nil {
			return nil, ferr
		}
		return nil, domain.ErrVersionConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.CustomPatchAndGet")
		return nil, err
	}

	return &res, nil
}

func (im *impl) makeUpdater(cmd collectible.UpdateCommand) (bson.M, error) {
	now := timeNow()
	set := bson.M{"updatedAt": now}
	inc := bson.M{"version": 1}
	updater := bson.M{"$set": set, "$inc": inc}

	switch c := cmd.(type) {
	case collectible.AdmitBid:
		updater["$push"] = bson.M{"auction.bidHistory": c.Entry}
		set["auction.currentBid"] = c.Entry.Amount
		set["auction.uniqueBidders"] = c.UniqueBidders
		inc["auction.totalBids"] = 1

	case collectible.Transition:
		set["auction.auctionStatus"] = c.AuctionStatus
		set["status"] = c.ItemStatus

	case collectible.Settle:
		set["auction.auctionStatus"] = c.AuctionStatus
		set["status"] = c.ItemStatus
		if c.Winner != nil {
			set["auction.winner"] = *c.Winner
			set["auction.winningBid"] = c.WinningBid
		}
		if c.TerminalEntry != nil {
			updater["$push"] = bson.M{"auction.bidHistory": *c.TerminalEntry}
			set["auction.currentBid"] = c.TerminalEntry.Amount
			set["auction.uniqueBidders"] = c.UniqueBidders
			inc["auction.totalBids"] = 1
		}

	case collectible.SellDirect:
		set["owner"] = c.Buyer
		set["status"] = collectible.ItemStatusSold

	case collectible.AdjustReserve:
		if c.ReservePrice != nil {
			set["auction.reservePrice"] = *c.ReservePrice
		} else {
			updater["$unset"] = bson.M{"auction.reservePrice": ""}
		}

	case collectible.SetBuyNow:
		if c.BuyNowPrice != nil {
			set["auction.buyNowPrice"] = *c.BuyNowPrice
		} else {
			updater["$unset"] = bson.M{"auction.buyNowPrice": ""}
		}

	default:
		return nil, domain.ErrBadParamInput
	}

	return updater, nil
}
