package collectible

import (
	"time"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/keys"
)

type EventType string

const (
	EventNewBid           EventType = "newBid"
	EventStatusChange     EventType = "statusChange"
	EventAuctionEnded     EventType = "auctionEnded"
	EventAuctionCancelled EventType = "auctionCancelled"
	EventCountdown        EventType = "countdown"
	EventEndingSoon       EventType = "endingSoon"
)

type EndReason string

const (
	EndReasonExpired EndReason = "expired"
	EndReasonBuyNow  EndReason = "buy-now"
)

// Event is one realtime notification for subscribers of a single auction.
// Delivery is fire and forget, subscribers recover full state via Get.
type Event struct {
	Type          EventType           `json:"type"`
	CollectibleId Id                  `json:"collectibleId"`
	AuctionStatus AuctionStatus       `json:"auctionStatus,omitempty"`
	CurrentBid    float64             `json:"currentBid,omitempty"`
	Bidder        *domain.CollectorId `json:"bidder,omitempty"`
	Winner        *domain.CollectorId `json:"winner,omitempty"`
	WinningBid    float64             `json:"winningBid,omitempty"`
	EndReason     EndReason           `json:"endReason,omitempty"`
	RemainingSec  int64               `json:"remainingSec,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

// Topic scopes the realtime channel per auction id.
func Topic(id Id) string {
	return keys.RedisKey(keys.PfxAuctionEvents, id.String())
}

// Broadcaster pushes events to subscribers of one auction. Implementations
// are best effort, a failed publish is logged and swallowed, never propagated
// to the mutation that produced the event.
type Broadcaster interface {
	Publish(ctx ctx.Ctx, event *Event) error
}
