package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/delivery"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/middleware"
)

type handler struct {
	collectible collectible.UseCase
}

// New will initialize the collectibles/ resources endpoint
func New(e *echo.Echo, collectible collectible.UseCase) {
	h := &handler{collectible}

	gs := e.Group("/collectibles")

	gs.POST("", h.create)
	gs.GET("/live", h.listLive)

	g := e.Group("/collectibles/:id", middleware.IsValidId("id"))

	g.GET("", h.get)
	g.POST("/bids", h.placeBid)
	g.POST("/buy", h.buyNow)
	g.POST("/cancel", h.cancel)
	g.POST("/finalize", h.finalize)
	g.PATCH("/auction", h.adjust)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := collectible.CreatePayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.collectible.Create(ctx, p)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := collectible.Id(c.Param("id"))

	res, err := h.collectible.Get(ctx, id)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) listLive(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	opts := []collectible.FindAllOptionsFunc{}

	if category := c.QueryParam("category"); category != "" {
		opts = append(opts, collectible.WithCategory(category))
	}
	if sortBy := c.QueryParam("sortBy"); sortBy != "" {
		opts = append(opts, collectible.WithSort(sortBy))
	}

	page, limit := int32(1), int32(30)
	if v, err := strconv.ParseInt(c.QueryParam("page"), 10, 32); err == nil && v >= 1 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 32); err == nil && v > 0 && v <= 100 {
		limit = int32(v)
	}
	opts = append(opts, collectible.WithPagination((page-1)*limit, limit))

	res, err := h.collectible.ListLive(ctx, opts...)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := collectible.Id(c.Param("id"))

	p := collectible.PlaceBidPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.collectible.PlaceBid(ctx, id, p)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) buyNow(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := collectible.Id(c.Param("id"))

	p := collectible.BuyNowPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.collectible.BuyNow(ctx, id, p)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type cancelPayload struct {
	Caller  domain.CollectorId `json:"caller" validate:"required"`
	IsAdmin bool               `json:"isAdmin"`
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := collectible.Id(c.Param("id"))

	p := cancelPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.collectible.Cancel(ctx, id, p.Caller, p.IsAdmin)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) finalize(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := collectible.Id(c.Param("id"))

	res, err := h.collectible.Finalize(ctx, id)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type adjustPayload struct {
	Caller domain.CollectorId `json:"caller" validate:"required"`

	ReservePrice *float64 `json:"reservePrice,omitempty" validate:"omitempty,gt=0"`
	ClearReserve bool     `json:"clearReserve"`

	BuyNowPrice *float64 `json:"buyNowPrice,omitempty" validate:"omitempty,gt=0"`
	ClearBuyNow bool     `json:"clearBuyNow"`
}

func (p *adjustPayload) command() (collectible.UpdateCommand, error) {
	switch {
	case p.ReservePrice != nil:
		return collectible.AdjustReserve{ReservePrice: p.ReservePrice}, nil
	case p.ClearReserve:
		return collectible.AdjustReserve{}, nil
	case p.BuyNowPrice != nil:
		return collectible.SetBuyNow{BuyNowPrice: p.BuyNowPrice}, nil
	case p.ClearBuyNow:
		return collectible.SetBuyNow{}, nil
	}
	return nil, domain.ErrBadParamInput
}

func (h *handler) adjust(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := collectible.Id(c.Param("id"))

	p := adjustPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	cmd, err := p.command()
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.collectible.Adjust(ctx, id, p.Caller, cmd)
	if err != nil {
		return h.errResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// bidTooLowResp keeps the computed minimum in the response body so bidders
// know what to offer next.
type bidTooLowResp struct {
	Message string  `json:"message"`
	Minimum float64 `json:"minimum"`
}

func (h *handler) errResp(c echo.Context, err error) error {
	var tooLow *collectible.BidTooLowError
	if errors.As(err, &tooLow) {
		return delivery.MakeJsonResp(c, http.StatusConflict, bidTooLowResp{
			Message: tooLow.Error(),
			Minimum: tooLow.Minimum,
		})
	}

	switch {
	case collectible.IsRejection(err):
		return delivery.MakeJsonResp(c, http.StatusConflict, err)
	case errors.Is(err, domain.ErrInvalidSchedule), errors.Is(err, domain.ErrBadParamInput):
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrTooManyConflicts):
		return delivery.MakeJsonResp(c, http.StatusConflict, err)
	default:
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
}
