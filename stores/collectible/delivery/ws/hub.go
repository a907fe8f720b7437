package ws

import (
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/domain/keys"
	"github.com/craftbid/goapi/service/redis"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	sendBufferSize = 256
)

// Client is one subscriber of a single auction topic.
type Client struct {
	id   string
	item collectible.Id
	conn *websocket.Conn
	send chan []byte
}

type broadcastMessage struct {
	item    collectible.Id
	payload []byte
}

// Hub routes events from the redis channel to every websocket subscriber of
// the same auction. Delivery is at most once, a slow client is dropped rather
// than allowed to block the rest.
type Hub struct {
	redis redis.Service

	subscribers map[collectible.Id]map[*Client]bool
	mu          sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage
}

func NewHub(redis redis.Service) *Hub {
	return &Hub{
		redis:       redis,
		subscribers: map[collectible.Id]map[*Client]bool{},
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *broadcastMessage, 256),
	}
}

// Run consumes the redis subscription and the register/unregister queues
// until the context is done.
func (h *Hub) Run(ctx bCtx.Ctx) {
	go h.subscribeLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(ctx, client)
		case client := <-h.unregister:
			h.removeClient(ctx, client)
		case msg := <-h.broadcast:
			h.broadcastToItem(ctx, msg.item, msg.payload)
		}
	}
}

func (h *Hub) subscribeLoop(ctx bCtx.Ctx) {
	pattern := keys.RedisKey(keys.PfxAuctionEvents, "*")
	prefix := keys.RedisKey(keys.PfxAuctionEvents, "")

	err := h.redis.PSubscribe(ctx, pattern, func(c bCtx.Ctx, msg redis.Message) {
		id := collectible.Id(strings.TrimPrefix(msg.Channel, prefix))
		select {
		case h.broadcast <- &broadcastMessage{item: id, payload: msg.Data}:
		default:
			c.WithField("id", id).Warn("broadcast queue full, event dropped")
		}
	})
	if err != nil && ctx.Err() == nil {
		ctx.WithField("err", err).Error("redis.PSubscribe stopped")
	}
}

func (h *Hub) addClient(ctx bCtx.Ctx, client *Client) {
	h.mu.Lock()
	clients, ok := h.subscribers[client.item]
	if !ok {
		clients = map[*Client]bool{}
		h.subscribers[client.item] = clients
	}
	clients[client] = true
	h.mu.Unlock()

	ctx.WithFields(log.Fields{
		"client": client.id,
		"id":     client.item,
	}).Info("client joined")

	go client.writePump()
}

func (h *Hub) removeClient(ctx bCtx.Ctx, client *Client) {
	h.mu.Lock()
	h.dropLocked(client)
	h.mu.Unlock()

	ctx.WithFields(log.Fields{
		"client": client.id,
		"id":     client.item,
	}).Info("client left")
}

// dropLocked detaches one client and closes its channel and connection. A
// client already dropped is a no-op, readPump may still report it afterwards.
// Callers must hold mu.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.subscribers[client.item]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.subscribers, client.item)
	}
	close(client.send)
	client.conn.Close()
}

func (h *Hub) broadcastToItem(ctx bCtx.Ctx, item collectible.Id, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.subscribers[item] {
		select {
		case client.send <- payload:
		default:
			// drop inline, the unregister queue is drained by this same
			// goroutine and must never be written from here
			h.dropLocked(client)
			ctx.WithFields(log.Fields{
				"client": client.id,
				"id":     client.item,
			}).Warn("slow subscriber dropped")
		}
	}
}

// SubscriberCount reports how many clients watch one auction.
func (h *Hub) SubscriberCount(item collectible.Id) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[item])
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump(unregister chan<- *Client) {
	defer func() {
		unregister <- c
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// subscribers only listen, inbound frames are drained for control
		// message processing
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
