package worker

import (
	"time"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/base/metrics"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/domain/keys"
	"github.com/craftbid/goapi/service/redis"
)

// endingSoonWindow is the remaining time below which a one-shot endingSoon
// event is pushed to subscribers.
const endingSoonWindow = 5 * time.Minute

var timeNow = time.Now

type SweeperCfg struct {
	Collectible collectible.UseCase
	Interval    time.Duration
}

// Sweeper is the safety net behind lazy reconciliation. Expired live auctions
// are normally settled by the first accessor that touches them, the sweeper
// catches the ones nobody asks about.
type Sweeper struct {
	collectible collectible.UseCase
	interval    time.Duration
	met         metrics.Service
	stoppedCh   chan interface{}
}

func NewSweeper(cfg *SweeperCfg) *Sweeper {
	return &Sweeper{
		collectible: cfg.Collectible,
		interval:    cfg.Interval,
		met:         metrics.New("sweeper"),
		stoppedCh:   make(chan interface{}),
	}
}

func (s *Sweeper) Start(ctx bCtx.Ctx) {
	go s.loop(ctx)
}

func (s *Sweeper) Wait() {
	<-s.stoppedCh
}

func (s *Sweeper) loop(ctx bCtx.Ctx) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(s.stoppedCh)
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx bCtx.Ctx) {
	defer s.met.BumpTime("sweep.time").End()

	settled, err := s.collectible.SettleExpired(ctx)
	if err != nil {
		s.met.BumpSum("sweep.err", 1)
		ctx.WithField("err", err).Error("collectible.SettleExpired failed")
		return
	}

	s.met.BumpSum("sweep.settled", float64(settled))
	if settled > 0 {
		ctx.WithField("settled", settled).Info("swept expired auctions")
	}
}

type CountdownCfg struct {
	Collectible collectible.UseCase
	Broadcaster collectible.Broadcaster
	Redis       redis.Service
	Interval    time.Duration
}

// Countdown pushes periodic remaining-time events for every live auction and
// a one-shot endingSoon notice when an auction enters its final window.
type Countdown struct {
	collectible collectible.UseCase
	broadcaster collectible.Broadcaster
	redis       redis.Service
	interval    time.Duration
	met         metrics.Service
	stoppedCh   chan interface{}
}

func NewCountdown(cfg *CountdownCfg) *Countdown {
	return &Countdown{
		collectible: cfg.Collectible,
		broadcaster: cfg.Broadcaster,
		redis:       cfg.Redis,
		interval:    cfg.Interval,
		met:         metrics.New("countdown"),
		stoppedCh:   make(chan interface{}),
	}
}

func (u *Countdown) Start(ctx bCtx.Ctx) {
	go u.loop(ctx)
}

func (u *Countdown) Wait() {
	<-u.stoppedCh
}

func (u *Countdown) loop(ctx bCtx.Ctx) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(u.stoppedCh)
			return
		case <-ticker.C:
			u.tick(ctx)
		}
	}
}

func (u *Countdown) tick(ctx bCtx.Ctx) {
	defer u.met.BumpTime("tick.time").End()

	res, err := u.collectible.ListLive(ctx)
	if err != nil {
		u.met.BumpSum("tick.err", 1)
		ctx.WithField("err", err).Error("collectible.ListLive failed")
		return
	}

	now := timeNow()
	for _, item := range res.Items {
		if !item.IsAuction() {
			continue
		}
		remaining := item.Auction.EndTime.Sub(now)
		if remaining <= 0 {
			// the next sweep or accessor settles it
			continue
		}

		u.publish(ctx, &collectible.Event{
			Type:          collectible.EventCountdown,
			CollectibleId: item.Id,
			AuctionStatus: item.Auction.Status,
			CurrentBid:    item.Auction.CurrentBid,
			RemainingSec:  int64(remaining / time.Second),
			Timestamp:     now,
		})

		if remaining <= endingSoonWindow {
			u.notifyEndingSoon(ctx, item, remaining, now)
		}
	}
}

// notifyEndingSoon fires at most once per auction, guarded by a redis SetNX
// key that outlives the auction window.
func (u *Countdown) notifyEndingSoon(ctx bCtx.Ctx, item *collectible.Collectible, remaining time.Duration, now time.Time) {
	key := keys.RedisKey(keys.PfxEndingSoon, item.Id.String())

	err := u.redis.SetNX(ctx, key, []byte("1"), endingSoonWindow*2)
	if err == redis.ErrNotSet {
		return
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  item.Id,
		}).Warn("redis.SetNX failed")
		return
	}

	u.publish(ctx, &collectible.Event{
		Type:          collectible.EventEndingSoon,
		CollectibleId: item.Id,
		AuctionStatus: item.Auction.Status,
		CurrentBid:    item.Auction.CurrentBid,
		RemainingSec:  int64(remaining / time.Second),
		Timestamp:     now,
	})
}

func (u *Countdown) publish(ctx bCtx.Ctx, event *collectible.Event) {
	if err := u.broadcaster.Publish(ctx, event); err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"type": event.Type,
			"id":   event.CollectibleId,
		}).Warn("broadcaster.Publish failed")
	}
}
