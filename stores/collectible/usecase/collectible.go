package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	"github.com/craftbid/goapi/base/backoff"
	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/keyed"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/base/metrics"
	"github.com/craftbid/goapi/base/pricelabel"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/domain/collector"
	"github.com/craftbid/goapi/service/courier"
	"github.com/craftbid/goapi/service/query"
)

const (
	// bounded retries against optimistic-concurrency conflicts
	maxConflictRetries = 3

	conflictBackoffStart = 20 * time.Millisecond
	conflictBackoffLimit = 200 * time.Millisecond

	notifyTimeout = 3 * time.Second
)

var timeNow = time.Now

type CollectibleUseCaseCfg struct {
	CollectibleRepo collectible.Repo
	CollectorRepo   collector.Repo
	Query           query.Mongo
	Locks           *keyed.Mutex
	Broadcaster     collectible.Broadcaster
	Courier         courier.Client
	Metrics         metrics.Service
}

type impl struct {
	repo          collectible.Repo
	collectorRepo collector.Repo
	q             query.Mongo
	locks         *keyed.Mutex
	broadcaster   collectible.Broadcaster
	courier       courier.Client
	met           metrics.Service
	workerPool    *goroutines.Pool
}

func New(cfg *CollectibleUseCaseCfg) collectible.UseCase {
	return &impl{
		repo:          cfg.CollectibleRepo,
		collectorRepo: cfg.CollectorRepo,
		q:             cfg.Query,
		locks:         cfg.Locks,
		broadcaster:   cfg.Broadcaster,
		courier:       cfg.Courier,
		met:           cfg.Metrics,
		workerPool:    goroutines.NewPool(32, goroutines.WithTaskQueueLength(1024), goroutines.WithPreAllocWorkers(8)),
	}
}

func (im *impl) Create(ctx bCtx.Ctx, payload collectible.CreatePayload) (*collectible.Collectible, error) {
	now := timeNow()

	if !payload.SaleType.IsValid() {
		return nil, domain.ErrBadParamInput
	}

	item := &collectible.Collectible{
		Id:          collectible.Id(uuid.NewString()),
		Owner:       payload.Owner,
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       payload.Price,
		SaleType:    payload.SaleType,
		Status:      collectible.ItemStatusActive,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if payload.SaleType == collectible.SaleTypeAuction {
		if err := collectible.ValidateSchedule(payload.Auction, now); err != nil {
			return nil, err
		}

		status := collectible.InitialStatus(payload.Auction.StartTime, now)
		item.Status = collectible.ItemStatusPending
		if status == collectible.AuctionStatusLive {
			item.Status = collectible.ItemStatusActive
		}
		item.Auction = &collectible.Auction{
			StartTime:           payload.Auction.StartTime,
			EndTime:             payload.Auction.EndTime,
			ReservePrice:        payload.Auction.ReservePrice,
			BuyNowPrice:         payload.Auction.BuyNowPrice,
			MinimumBidIncrement: payload.Auction.MinimumBidIncrement,
			CurrentBid:          payload.Price,
			BidHistory:          []collectible.BidEntry{},
			Status:              status,
		}
	}

	if err := im.repo.Create(ctx, item); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  item.Id,
		}).Error("repo.Create failed")
		return nil, err
	}

	if err := im.collectorRepo.AddListedItem(ctx, item.Owner, item.Id); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"owner": item.Owner,
			"id":    item.Id,
		}).Error("collectorRepo.AddListedItem failed")
		return nil, err
	}

	im.met.BumpSum("collectible.created", 1, "saleType", string(item.SaleType))
	return item, nil
}

func (im *impl) Get(ctx bCtx.Ctx, id collectible.Id) (*collectible.Collectible, error) {
	item, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	// fast path, nothing to reconcile
	if _, changed := collectible.NextStatus(item, timeNow()); !changed {
		return item, nil
	}

	im.locks.Lock(id.String())
	defer im.locks.Unlock(id.String())
	return im.reconcileLocked(ctx, id)
}

func (im *impl) ListLive(ctx bCtx.Ctx, opts ...collectible.FindAllOptionsFunc) (*collectible.SearchResult, error) {
	opts = append([]collectible.FindAllOptionsFunc{
		collectible.WithSaleType(collectible.SaleTypeAuction),
		collectible.WithAuctionStatus(collectible.AuctionStatusLive),
	}, opts...)

	items, err := im.repo.FindAll(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// a live auction past its end time must never be shown, settle stragglers
	// inline before answering
	now := timeNow()
	res := make([]*collectible.Collectible, 0, len(items))
	for _, item := range items {
		next, changed := collectible.NextStatus(item, now)
		if !changed {
			res = append(res, item)
			continue
		}
		if next == collectible.AuctionStatusEnded {
			if _, err := im.settleOne(ctx, item.Id); err != nil {
				ctx.WithFields(log.Fields{
					"err": err,
					"id":  item.Id,
				}).Error("settleOne failed")
			}
			continue
		}
		res = append(res, item)
	}

	// counted after settling stragglers with the caller's own filters, so the
	// total agrees with what a pass over every page would return
	cnt, err := im.repo.Count(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &collectible.SearchResult{Items: res, Count: cnt}, nil
}

func (im *impl) PlaceBid(ctx bCtx.Ctx, id collectible.Id, payload collectible.PlaceBidPayload) (*collectible.Collectible, error) {
	defer im.met.BumpTime("time", "func", "placeBid").End()

	im.locks.Lock(id.String())
	defer im.locks.Unlock(id.String())

	item, err := im.reconcileLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsAuction() {
		im.met.BumpSum("bid.rejected", 1)
		return nil, collectible.ErrNotForAuction
	}

	entry := collectible.BidEntry{
		Bidder:      payload.Bidder,
		Amount:      payload.Amount,
		Timestamp:   timeNow(),
		BidderName:  payload.BidderName,
		BidderEmail: payload.BidderEmail,
	}
	outbid := item.Auction.HighestBid()

	updated, err := im.applyUpdate(ctx, id, item, func(current *collectible.Collectible) (collectible.UpdateCommand, error) {
		return collectible.AdmitBid{
			Entry:         entry,
			UniqueBidders: uniqueBiddersWith(current, payload.Bidder),
		}, nil
	}, func(txCtx bCtx.Ctx, updated *collectible.Collectible) error {
		return im.collectorRepo.UpsertActiveBid(txCtx, payload.Bidder, collector.ActiveBid{
			CollectibleId: id,
			CurrentBid:    payload.Amount,
			LastBidTime:   entry.Timestamp,
		})
	})
	if err != nil {
		if collectible.IsRejection(err) {
			im.met.BumpSum("bid.rejected", 1)
		}
		return nil, err
	}

	im.met.BumpSum("bid.admitted", 1)
	im.publish(ctx, &collectible.Event{
		Type:          collectible.EventNewBid,
		CollectibleId: id,
		AuctionStatus: updated.Auction.Status,
		CurrentBid:    updated.Auction.CurrentBid,
		Bidder:        &payload.Bidder,
		Timestamp:     timeNow(),
	})

	if outbid != nil && outbid.BidderEmail != "" && !outbid.Bidder.Equals(payload.Bidder) {
		subject := fmt.Sprintf("You have been outbid on %s", updated.Title)
		body := fmt.Sprintf("A new bid of %s was placed. Bid again to stay in the running.", pricelabel.Format(payload.Amount))
		im.notify(ctx, outbid.BidderEmail, subject, body)
	}

	return updated, nil
}

func (im *impl) BuyNow(ctx bCtx.Ctx, id collectible.Id, payload collectible.BuyNowPayload) (*collectible.Collectible, error) {
	defer im.met.BumpTime("time", "func", "buyNow").End()

	im.locks.Lock(id.String())
	defer im.locks.Unlock(id.String())

	item, err := im.reconcileLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.SaleType == collectible.SaleTypeDirect {
		return im.buyDirect(ctx, item, payload)
	}
	return im.buyNowAuction(ctx, item, payload)
}

func (im *impl) buyDirect(ctx bCtx.Ctx, item *collectible.Collectible, payload collectible.BuyNowPayload) (*collectible.Collectible, error) {
	updated, err := im.applyUpdate(ctx, item.Id, item, func(current *collectible.Collectible) (collectible.UpdateCommand, error) {
		return collectible.SellDirect{Buyer: payload.Buyer}, nil
	}, nil)
	if err != nil {
		return nil, err
	}

	im.met.BumpSum("buynow.direct", 1)
	if payload.BuyerEmail != "" {
		subject := fmt.Sprintf("Purchase confirmed: %s", updated.Title)
		body := fmt.Sprintf("You bought %s for %s.", updated.Title, pricelabel.Format(updated.Price))
		im.notify(ctx, payload.BuyerEmail, subject, body)
	}
	return updated, nil
}

func (im *impl) buyNowAuction(ctx bCtx.Ctx, item *collectible.Collectible, payload collectible.BuyNowPayload) (*collectible.Collectible, error) {
	auction := item.Auction
	if auction == nil || auction.BuyNowPrice == nil || auction.Status != collectible.AuctionStatusLive {
		return nil, collectible.ErrBuyNowUnavailable
	}
	if payload.Buyer.Equals(item.Owner) {
		return nil, collectible.ErrSelfBid
	}

	// buy-now is a fixed-price override, reserve and increment checks do not
	// apply, a synthetic terminal bid entry keeps the history auditable
	price := *auction.BuyNowPrice
	now := timeNow()
	entry := collectible.BidEntry{
		Bidder:      payload.Buyer,
		Amount:      price,
		Timestamp:   now,
		BidderName:  payload.BuyerName,
		BidderEmail: payload.BuyerEmail,
	}
	buyer := payload.Buyer

	updated, err := im.applyUpdate(ctx, item.Id, item, func(current *collectible.Collectible) (collectible.UpdateCommand, error) {
		if current.Auction == nil || current.Auction.BuyNowPrice == nil || current.Auction.Status != collectible.AuctionStatusLive {
			return nil, collectible.ErrBuyNowUnavailable
		}
		return collectible.Settle{
			Winner:        &buyer,
			WinningBid:    price,
			AuctionStatus: collectible.AuctionStatusSold,
			ItemStatus:    collectible.ItemStatusSold,
			TerminalEntry: &entry,
			UniqueBidders: uniqueBiddersWith(current, buyer),
		}, nil
	}, func(txCtx bCtx.Ctx, updated *collectible.Collectible) error {
		return im.collectorRepo.AppendWonAuction(txCtx, buyer, collector.WonAuction{
			CollectibleId: item.Id,
			WinningBid:    price,
			WonAt:         now,
		})
	})
	if err != nil {
		return nil, err
	}

	im.met.BumpSum("buynow.auction", 1)
	im.publish(ctx, &collectible.Event{
		Type:          collectible.EventAuctionEnded,
		CollectibleId: item.Id,
		AuctionStatus: collectible.AuctionStatusSold,
		Winner:        &buyer,
		WinningBid:    price,
		EndReason:     collectible.EndReasonBuyNow,
		Timestamp:     now,
	})

	if payload.BuyerEmail != "" {
		subject := fmt.Sprintf("You won %s", updated.Title)
		body := fmt.Sprintf("Your buy-now purchase of %s for %s is confirmed.", updated.Title, pricelabel.Format(price))
		im.notify(ctx, payload.BuyerEmail, subject, body)
	}
	im.notifyLosers(ctx, updated, &buyer)

	return updated, nil
}

func (im *impl) Cancel(ctx bCtx.Ctx, id collectible.Id, caller domain.CollectorId, isAdmin bool) (*collectible.Collectible, error) {
	im.locks.Lock(id.String())
	defer im.locks.Unlock(id.String())

	item, err := im.reconcileLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !caller.Equals(item.Owner) {
		return nil, domain.ErrUnauthorized
	}
	if !item.IsAuction() {
		return nil, collectible.ErrNotForAuction
	}

	auction := item.Auction
	if auction.Status != collectible.AuctionStatusScheduled && auction.Status != collectible.AuctionStatusLive {
		return nil, collectible.ErrCancelTerminal
	}
	if auction.Status == collectible.AuctionStatusLive && len(auction.BidHistory) > 0 {
		return nil, collectible.ErrCancelWithBids
	}

	updated, err := im.applyUpdate(ctx, id, item, func(current *collectible.Collectible) (collectible.UpdateCommand, error) {
		return collectible.Transition{
			AuctionStatus: collectible.AuctionStatusCancelled,
			ItemStatus:    collectible.ItemStatusInactive,
		}, nil
	}, nil)
	if err != nil {
		return nil, err
	}

	im.met.BumpSum("auction.cancelled", 1)
	im.publish(ctx, &collectible.Event{
		Type:          collectible.EventAuctionCancelled,
		CollectibleId: id,
		AuctionStatus: collectible.AuctionStatusCancelled,
		Timestamp:     timeNow(),
	})
	return updated, nil
}

func (im *impl) Finalize(ctx bCtx.Ctx, id collectible.Id) (*collectible.Collectible, error) {
	return im.settleOne(ctx, id)
}

func (im *impl) Adjust(ctx bCtx.Ctx, id collectible.Id, caller domain.CollectorId, cmd collectible.UpdateCommand) (*collectible.Collectible, error) {
	switch cmd.(type) {
	case collectible.AdjustReserve, collectible.SetBuyNow:
	default:
		return nil, domain.ErrBadParamInput
	}

	im.locks.Lock(id.String())
	defer im.locks.Unlock(id.String())

	item, err := im.reconcileLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(item.Owner) {
		return nil, domain.ErrUnauthorized
	}

	return im.applyUpdate(ctx, id, item, func(current *collectible.Collectible) (collectible.UpdateCommand, error) {
		return cmd, nil
	}, nil)
}

func (im *impl) SettleExpired(ctx bCtx.Ctx) (int, error) {
	now := timeNow()
	items, err := im.repo.FindAll(ctx,
		collectible.WithSaleType(collectible.SaleTypeAuction),
		collectible.WithAuctionStatus(collectible.AuctionStatusLive),
		collectible.WithEndTimeLTE(now),
	)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, item := range items {
		if _, err := im.settleOne(ctx, item.Id); err != nil {
			ctx.WithFields(log.Fields{
				"err": err,
				"id":  item.Id,
			}).Error("settleOne failed")
			continue
		}
		settled++
	}
	if settled > 0 {
		im.met.BumpSum("sweeper.settled", float64(settled))
	}
	return settled, nil
}

// reconcileLocked re-reads the record and applies any due clock-driven
// transition. Callers must hold the per-auction lock.
func (im *impl) reconcileLocked(ctx bCtx.Ctx, id collectible.Id) (*collectible.Collectible, error) {
	item, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	next, changed := collectible.NextStatus(item, timeNow())
	if !changed {
		return item, nil
	}

	switch next {
	case collectible.AuctionStatusLive:
		updated, err := im.applyUpdate(ctx, id, item, func(current *collectible.Collectible) (collectible.UpdateCommand, error) {
			return collectible.Transition{
				AuctionStatus: collectible.AuctionStatusLive,
				ItemStatus:    collectible.ItemStatusActive,
			}, nil
		}, nil)
		if err != nil {
			return nil, err
		}
		im.publish(ctx, &collectible.Event{
			Type:          collectible.EventStatusChange,
			CollectibleId: id,
			AuctionStatus: collectible.AuctionStatusLive,
			CurrentBid:    updated.Auction.CurrentBid,
			Timestamp:     timeNow(),
		})
		return updated, nil

	case collectible.AuctionStatusEnded:
		return im.settleLocked(ctx, item)
	}
	return item, nil
}

// settleOne locks, then settles a single auction.
func (im *impl) settleOne(ctx bCtx.Ctx, id collectible.Id) (*collectible.Collectible, error) {
	im.locks.Lock(id.String())
	defer im.locks.Unlock(id.String())

	item, err := im.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return im.settleLocked(ctx, item)
}

// settleLocked runs settlement for an auction whose bidding has closed.
// Idempotent, a terminal auction is returned unchanged. Callers must hold the
// per-auction lock.
func (im *impl) settleLocked(ctx bCtx.Ctx, item *collectible.Collectible) (*collectible.Collectible, error) {
	defer im.met.BumpTime("time", "func", "settle").End()

	if !item.IsAuction() {
		return nil, collectible.ErrNotForAuction
	}
	if item.Auction.Status.IsTerminal() {
		return item, nil
	}

	outcome := collectible.ResolveWinner(item.Auction.BidHistory, item.Auction.ReservePrice)

	cmd := collectible.Settle{
		AuctionStatus: collectible.AuctionStatusEnded,
		ItemStatus:    item.Status,
	}
	if outcome.HasWinner() {
		cmd.Winner = outcome.Winner
		cmd.WinningBid = outcome.WinningBid
		cmd.AuctionStatus = collectible.AuctionStatusSold
		cmd.ItemStatus = collectible.ItemStatusSold
	}

	now := timeNow()
	updated, err := im.applyUpdate(ctx, item.Id, item, func(current *collectible.Collectible) (collectible.UpdateCommand, error) {
		return cmd, nil
	}, func(txCtx bCtx.Ctx, updated *collectible.Collectible) error {
		if !outcome.HasWinner() {
			return nil
		}
		return im.collectorRepo.AppendWonAuction(txCtx, *outcome.Winner, collector.WonAuction{
			CollectibleId: item.Id,
			WinningBid:    outcome.WinningBid,
			WonAt:         now,
		})
	})
	if err != nil {
		return nil, err
	}

	im.met.BumpSum("auction.settled", 1, "outcome", string(updated.Auction.Status))
	im.publish(ctx, &collectible.Event{
		Type:          collectible.EventAuctionEnded,
		CollectibleId: item.Id,
		AuctionStatus: updated.Auction.Status,
		Winner:        updated.Auction.Winner,
		WinningBid:    updated.Auction.WinningBid,
		EndReason:     collectible.EndReasonExpired,
		Timestamp:     now,
	})
	im.notifySettlement(ctx, updated, outcome)

	return updated, nil
}

// applyUpdate validates makeCmd against freshly read state and applies it in
// one transaction together with txExtra, retrying version conflicts against
// re-read state a bounded number of times.
func (im *impl) applyUpdate(
	ctx bCtx.Ctx,
	id collectible.Id,
	item *collectible.Collectible,
	makeCmd func(*collectible.Collectible) (collectible.UpdateCommand, error),
	txExtra func(bCtx.Ctx, *collectible.Collectible) error,
) (*collectible.Collectible, error) {
	bo := backoff.NewExponential(conflictBackoffStart, conflictBackoffLimit)

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if attempt > 0 {
			if err := bo.Backoff(ctx); err != nil {
				return nil, err
			}
			var err error
			if item, err = im.repo.FindOne(ctx, id); err != nil {
				return nil, err
			}
		}

		cmd, err := makeCmd(item)
		if err != nil {
			return nil, err
		}
		if err := cmd.Validate(item, timeNow()); err != nil {
			return nil, err
		}

		var updated *collectible.Collectible
		err = im.q.RunWithTransaction(ctx, func(txCtx bCtx.Ctx) error {
			u, err := im.repo.Update(txCtx, id, item.Version, cmd)
			if err != nil {
				return err
			}
			updated = u
			if txExtra != nil {
				return txExtra(txCtx, u)
			}
			return nil
		})
		if err == domain.ErrVersionConflict {
			im.met.BumpSum("update.conflict", 1)
			continue
		} else if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, domain.ErrTooManyConflicts
}

// publish is fire and forget, a broadcast failure never rolls back the state
// mutation that produced it.
func (im *impl) publish(ctx bCtx.Ctx, event *collectible.Event) {
	if err := im.broadcaster.Publish(ctx, event); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"event": event.Type,
			"id":    event.CollectibleId,
		}).Warn("broadcaster.Publish failed")
	}
}

// notify dispatches one courier message on the worker pool, best effort.
func (im *impl) notify(ctx bCtx.Ctx, to, subject, body string) {
	c := bCtx.Background()
	c.Logger = ctx.Logger
	err := im.workerPool.ScheduleWithTimeout(notifyTimeout, func() {
		if err := im.courier.Send(c, to, subject, body); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"to":  to,
			}).Warn("courier.Send failed")
		}
	})
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"to":  to,
		}).Warn("workerPool.ScheduleWithTimeout failed")
	}
}

func (im *impl) notifySettlement(ctx bCtx.Ctx, item *collectible.Collectible, outcome collectible.Outcome) {
	auction := item.Auction

	if outcome.HasWinner() {
		if winner := auction.HighestBid(); winner != nil && winner.BidderEmail != "" {
			subject := fmt.Sprintf("You won %s", item.Title)
			body := fmt.Sprintf("Congratulations, your bid of %s won the auction.", pricelabel.Format(outcome.WinningBid))
			im.notify(ctx, winner.BidderEmail, subject, body)
		}
	}

	sellerSubject := fmt.Sprintf("Your auction for %s has ended", item.Title)
	var sellerBody string
	switch {
	case outcome.HasWinner():
		sellerBody = fmt.Sprintf("Sold for %s.", pricelabel.Format(outcome.WinningBid))
	case len(auction.BidHistory) > 0:
		sellerBody = fmt.Sprintf("The highest bid of %s did not meet your reserve price.", pricelabel.Format(outcome.WinningBid))
	default:
		sellerBody = "No bids were placed."
	}
	// the seller's email lives with the identity subsystem
	if seller, err := im.collectorRepo.FindOne(ctx, item.Owner); err == nil && seller.Email != "" {
		im.notify(ctx, seller.Email, sellerSubject, sellerBody)
	}

	im.notifyLosers(ctx, item, outcome.Winner)
}

// notifyLosers messages every distinct losing bidder once.
func (im *impl) notifyLosers(ctx bCtx.Ctx, item *collectible.Collectible, winner *domain.CollectorId) {
	seen := map[domain.CollectorId]struct{}{}
	for _, entry := range item.Auction.BidHistory {
		if winner != nil && entry.Bidder.Equals(*winner) {
			continue
		}
		if _, ok := seen[entry.Bidder]; ok || entry.BidderEmail == "" {
			continue
		}
		seen[entry.Bidder] = struct{}{}

		subject := fmt.Sprintf("Auction ended: %s", item.Title)
		im.notify(ctx, entry.BidderEmail, subject, "The auction has ended. Better luck next time.")
	}
}

func uniqueBiddersWith(item *collectible.Collectible, bidder domain.CollectorId) int {
	n := item.Auction.CountUniqueBidders()
	for _, e := range item.Auction.BidHistory {
		if e.Bidder.Equals(bidder) {
			return n
		}
	}
	return n + 1
}
