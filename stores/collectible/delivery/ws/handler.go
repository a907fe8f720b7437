package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/delivery"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type handler struct {
	hub *Hub
}

// New registers the live auction feed endpoint
func New(e *echo.Echo, hub *Hub) {
	h := &handler{hub}

	e.GET("/collectibles/:id/ws", h.subscribe, middleware.IsValidId("id"))
}

func (h *handler) subscribe(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := collectible.Id(c.Param("id"))

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("upgrader.Upgrade")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	client := &Client{
		id:   uuid.NewString(),
		item: id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client
	go client.readPump(h.hub.unregister)

	return nil
}
