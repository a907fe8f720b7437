package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/domain/collectible"
	mRedis "github.com/craftbid/goapi/service/redis/mocks"
)

// wsPair returns both ends of one real websocket connection, the hub writes
// to hubSide and the test reads from peer.
func wsPair(t *testing.T) (hubSide *websocket.Conn, peer *websocket.Conn, cleanup func()) {
	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- c
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	hubSide = <-connCh

	return hubSide, peer, func() {
		peer.Close()
		hubSide.Close()
		srv.Close()
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	req := require.New(t)

	m := &mRedis.Service{}
	m.On("PSubscribe", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := NewHub(m)
	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()
	go hub.Run(ctx)

	item := collectible.Id("7c0f5db1-2b63-4a8e-9c41-5f2b14f5a911")

	slowConn, _, slowCleanup := wsPair(t)
	defer slowCleanup()
	// no writePump, the send channel never drains
	slow := &Client{id: "slow", item: item, conn: slowConn, send: make(chan []byte)}

	healthyConn, healthyPeer, healthyCleanup := wsPair(t)
	defer healthyCleanup()
	healthy := &Client{id: "healthy", item: item, conn: healthyConn, send: make(chan []byte, sendBufferSize)}
	go healthy.writePump()

	hub.mu.Lock()
	hub.subscribers[item] = map[*Client]bool{slow: true, healthy: true}
	hub.mu.Unlock()

	// the first event wedges on the slow client, the second proves the hub
	// kept serving afterwards
	hub.broadcast <- &broadcastMessage{item: item, payload: []byte("first")}
	hub.broadcast <- &broadcastMessage{item: item, payload: []byte("second")}

	healthyPeer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := healthyPeer.ReadMessage()
	req.NoError(err)
	req.Equal("first", string(msg))
	_, msg, err = healthyPeer.ReadMessage()
	req.NoError(err)
	req.Equal("second", string(msg))

	req.Eventually(func() bool {
		return hub.SubscriberCount(item) == 1
	}, time.Second, 10*time.Millisecond, "slow client still subscribed")
}

func TestHubRegisterUnregister(t *testing.T) {
	req := require.New(t)

	m := &mRedis.Service{}
	m.On("PSubscribe", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	hub := NewHub(m)
	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()
	go hub.Run(ctx)

	item := collectible.Id("0a41f0aa-80d4-4c6e-8f4b-16a4f0f5b1de")

	conn, peer, cleanup := wsPair(t)
	defer cleanup()
	client := &Client{id: "c1", item: item, conn: conn, send: make(chan []byte, sendBufferSize)}

	hub.register <- client
	req.Eventually(func() bool {
		return hub.SubscriberCount(item) == 1
	}, time.Second, 10*time.Millisecond)

	hub.broadcast <- &broadcastMessage{item: item, payload: []byte("hello")}
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := peer.ReadMessage()
	req.NoError(err)
	req.Equal("hello", string(msg))

	hub.unregister <- client
	req.Eventually(func() bool {
		return hub.SubscriberCount(item) == 0
	}, time.Second, 10*time.Millisecond)
}
