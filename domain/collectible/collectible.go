package collectible

import (
	"time"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/domain"
)

// Id is the stable external identifier of a collectible, distinct from the
// storage key.
type Id string

func (i Id) String() string {
	return string(i)
}

type SaleType string

const (
	SaleTypeDirect  SaleType = "direct"
	SaleTypeAuction SaleType = "auction"
)

func (s SaleType) IsValid() bool {
	return s == SaleTypeDirect || s == SaleTypeAuction
}

type AuctionStatus string

const (
	AuctionStatusScheduled AuctionStatus = "scheduled"
	AuctionStatusLive      AuctionStatus = "live"
	AuctionStatusEnded     AuctionStatus = "ended"
	AuctionStatusCancelled AuctionStatus = "cancelled"
	AuctionStatusSold      AuctionStatus = "sold"
)

// IsTerminal reports whether no further transition may mutate the auction.
func (s AuctionStatus) IsTerminal() bool {
	return s == AuctionStatusEnded || s == AuctionStatusCancelled || s == AuctionStatusSold
}

type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusRejected ItemStatus = "rejected"
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
	ItemStatusSold     ItemStatus = "sold"
)

// BidEntry is one admitted bid. BidHistory is append only and ordered by
// admission, so amounts are strictly increasing by construction.
type BidEntry struct {
	Bidder      domain.CollectorId `json:"bidder" bson:"bidder"`
	Amount      float64            `json:"amount" bson:"amount"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	BidderName  string             `json:"bidderName" bson:"bidderName"`
	BidderEmail string             `json:"bidderEmail" bson:"bidderEmail"`
}

type Auction struct {
	StartTime           time.Time  `json:"startTime" bson:"startTime"`
	EndTime             time.Time  `json:"endTime" bson:"endTime"`
	ReservePrice        *float64   `json:"reservePrice,omitempty" bson:"reservePrice,omitempty"`
	BuyNowPrice         *float64   `json:"buyNowPrice,omitempty" bson:"buyNowPrice,omitempty"`
	MinimumBidIncrement float64    `json:"minimumBidIncrement" bson:"minimumBidIncrement"`
	CurrentBid          float64    `json:"currentBid" bson:"currentBid"`
	BidHistory          []BidEntry `json:"bidHistory" bson:"bidHistory"`
	TotalBids           int        `json:"totalBids" bson:"totalBids"`
	UniqueBidders       int        `json:"uniqueBidders" bson:"uniqueBidders"`

	Status     AuctionStatus       `json:"auctionStatus" bson:"auctionStatus"`
	Winner     *domain.CollectorId `json:"winner,omitempty" bson:"winner,omitempty"`
	WinningBid float64             `json:"winningBid" bson:"winningBid"`
}

// HighestBid returns the last history entry. Bids are admitted in strictly
// increasing order so the last entry is always the highest.
func (a *Auction) HighestBid() *BidEntry {
	if len(a.BidHistory) == 0 {
		return nil
	}
	return &a.BidHistory[len(a.BidHistory)-1]
}

// CountUniqueBidders counts distinct bidders across the full history,
// including bidders who were later outbid and never returned.
func (a *Auction) CountUniqueBidders() int {
	seen := map[domain.CollectorId]struct{}{}
	for _, e := range a.BidHistory {
		seen[e.Bidder] = struct{}{}
	}
	return len(seen)
}

type Collectible struct {
	Id          Id                 `json:"id" bson:"id"`
	Owner       domain.CollectorId `json:"owner" bson:"owner"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	SaleType    SaleType           `json:"saleType" bson:"saleType"`
	Status      ItemStatus         `json:"status" bson:"status"`
	Auction     *Auction           `json:"auction,omitempty" bson:"auction,omitempty"`

	// Version guards every read-modify-write, bumped on each update
	Version   int64     `json:"-" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (c *Collectible) IsAuction() bool {
	return c.SaleType == SaleTypeAuction && c.Auction != nil
}

type FindAllOptions struct {
	SaleType      *SaleType
	AuctionStatus *AuctionStatus
	ItemStatus    *ItemStatus
	EndTimeLTE    *time.Time
	Category      *string
	Owner         *domain.CollectorId
	Sort          *string
	Offset        *int32
	Limit         *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithSaleType(saleType SaleType) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SaleType = &saleType
		return nil
	}
}

func WithAuctionStatus(status AuctionStatus) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.AuctionStatus = &status
		return nil
	}
}

func WithItemStatus(status ItemStatus) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ItemStatus = &status
		return nil
	}
}

func WithEndTimeLTE(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLTE = &t
		return nil
	}
}

func WithCategory(category string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Category = &category
		return nil
	}
}

func WithOwner(owner domain.CollectorId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Owner = &owner
		return nil
	}
}

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Sort = &sort
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type SearchResult struct {
	Items []*Collectible `json:"items"`
	Count int            `json:"count"`
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Collectible, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id Id) (*Collectible, error)
	Create(ctx ctx.Ctx, item *Collectible) error
	// Update applies cmd atomically and returns the post-mutation record.
	// The match is guarded by fromVersion, ErrVersionConflict is returned
	// when another writer committed first.
	Update(ctx ctx.Ctx, id Id, fromVersion int64, cmd UpdateCommand) (*Collectible, error)
}

type CreatePayload struct {
	Owner       domain.CollectorId `json:"owner" validate:"required"`
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Price       float64            `json:"price" validate:"gt=0"`
	SaleType    SaleType           `json:"saleType" validate:"required"`
	Auction     *AuctionPayload    `json:"auction,omitempty"`
}

type AuctionPayload struct {
	StartTime           time.Time `json:"startTime" validate:"required"`
	EndTime             time.Time `json:"endTime" validate:"required"`
	ReservePrice        *float64  `json:"reservePrice,omitempty" validate:"omitempty,gt=0"`
	BuyNowPrice         *float64  `json:"buyNowPrice,omitempty" validate:"omitempty,gt=0"`
	MinimumBidIncrement float64   `json:"minimumBidIncrement" validate:"gt=0"`
}

type PlaceBidPayload struct {
	Bidder      domain.CollectorId `json:"bidder" validate:"required"`
	Amount      float64            `json:"amount" validate:"gt=0"`
	BidderName  string             `json:"bidderName"`
	BidderEmail string             `json:"bidderEmail" validate:"omitempty,email"`
}

type BuyNowPayload struct {
	Buyer      domain.CollectorId `json:"buyer" validate:"required"`
	BuyerName  string             `json:"buyerName"`
	BuyerEmail string             `json:"buyerEmail" validate:"omitempty,email"`
}

type UseCase interface {
	Create(ctx ctx.Ctx, payload CreatePayload) (*Collectible, error)
	// Get reconciles status lazily before returning, a live auction past its
	// end time is settled within this call and never shown as live.
	Get(ctx ctx.Ctx, id Id) (*Collectible, error)
	ListLive(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (*SearchResult, error)
	PlaceBid(ctx ctx.Ctx, id Id, payload PlaceBidPayload) (*Collectible, error)
	BuyNow(ctx ctx.Ctx, id Id, payload BuyNowPayload) (*Collectible, error)
	Cancel(ctx ctx.Ctx, id Id, caller domain.CollectorId, isAdmin bool) (*Collectible, error)
	Finalize(ctx ctx.Ctx, id Id) (*Collectible, error)
	Adjust(ctx ctx.Ctx, id Id, caller domain.CollectorId, cmd UpdateCommand) (*Collectible, error)
	// SettleExpired finalizes every live auction whose end time has passed,
	// returning the number settled. Individual failures are logged, not fatal.
	SettleExpired(ctx ctx.Ctx) (int, error)
}
