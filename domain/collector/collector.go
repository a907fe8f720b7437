package collector

import (
	"time"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
)

// ActiveBid tracks a collector's standing in one auction. At most one entry
// per auction, replaced on every new bid by that collector.
type ActiveBid struct {
	CollectibleId collectible.Id `json:"collectibleId" bson:"collectibleId"`
	CurrentBid    float64        `json:"currentBid" bson:"currentBid"`
	LastBidTime   time.Time      `json:"lastBidTime" bson:"lastBidTime"`
}

// WonAuction is one entry of the append-only won ledger.
type WonAuction struct {
	CollectibleId collectible.Id `json:"collectibleId" bson:"collectibleId"`
	WinningBid    float64        `json:"winningBid" bson:"winningBid"`
	WonAt         time.Time      `json:"wonAt" bson:"wonAt"`
}

type Collector struct {
	Id          domain.CollectorId `json:"id" bson:"id"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	ActiveBids  []ActiveBid        `json:"activeBids" bson:"activeBids"`
	WonAuctions []WonAuction       `json:"wonAuctions" bson:"wonAuctions"`
	ListedItems []collectible.Id   `json:"listedItems" bson:"listedItems"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id domain.CollectorId) (*Collector, error)
	Upsert(ctx ctx.Ctx, c *Collector) error
	// UpsertActiveBid replaces the collector's entry for the bid's auction,
	// or appends one when absent.
	UpsertActiveBid(ctx ctx.Ctx, id domain.CollectorId, bid ActiveBid) error
	// AppendWonAuction appends once per auction, a retried settlement never
	// produces a duplicate ledger entry.
	AppendWonAuction(ctx ctx.Ctx, id domain.CollectorId, won WonAuction) error
	AddListedItem(ctx ctx.Ctx, id domain.CollectorId, item collectible.Id) error
}

type RegisterPayload struct {
	Id    domain.CollectorId `json:"id" validate:"required"`
	Name  string             `json:"name" validate:"required"`
	Email string             `json:"email" validate:"omitempty,email"`
}

type UseCase interface {
	Get(ctx ctx.Ctx, id domain.CollectorId) (*Collector, error)
	// Register creates or refreshes a collector profile, ledgers are kept
	Register(ctx ctx.Ctx, payload RegisterPayload) (*Collector, error)
}
