package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/delivery"
	"github.com/craftbid/goapi/domain"
	"github.com/craftbid/goapi/domain/collector"
	"github.com/craftbid/goapi/middleware"
)

type handler struct {
	collector collector.UseCase
}

// New will initialize the collector/ resources endpoint
func New(e *echo.Echo, collector collector.UseCase) {
	h := &handler{collector}

	g := e.Group("/collector")

	g.POST("", h.register)
	g.GET("/:id", h.get, middleware.IsValidId("id"))
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := domain.CollectorId(c.Param("id"))

	res, err := h.collector.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := collector.RegisterPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.collector.Register(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
