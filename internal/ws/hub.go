// Package ws fans organizer events out to WebSocket clients. Producers call
// BroadcastJSON from any goroutine; a single Run loop owns the client set,
// delivers messages and pings idle connections so dead ones get dropped.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 3 * time.Second
	pingPeriod = 20 * time.Second
	pongWait   = 60 * time.Second
)

// Hub manages WebSocket client connections. Register, unregister and
// broadcast all go through channels, so it is safe for concurrent use.
type Hub struct {
	clients    map[*websocket.Conn]struct{}
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	upgrader   websocket.Upgrader

	connected atomic.Int64
	dropped   atomic.Int64
}

// NewHub allocates a hub with buffered channels.
// Call Run in a goroutine to start the event loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn, 16),
		unregister: make(chan *websocket.Conn, 16),
		broadcast:  make(chan []byte, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.connected.Store(int64(len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.drop(c)
				}
			}

		case <-ping.C:
			for c := range h.clients {
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *websocket.Conn) {
	delete(h.clients, c)
	h.connected.Store(int64(len(h.clients)))
	_ = c.Close()
}

// Handler upgrades incoming requests to WebSocket connections and registers
// them. Clients never send anything meaningful; reads only service pongs
// and detect disconnects.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.register <- conn

		go func() {
			defer func() { h.unregister <- conn }()
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				_ = conn.SetReadDeadline(time.Now().Add(pongWait))
				return nil
			})

			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

// BroadcastJSON marshals v and queues it for every client. When the queue
// is full the message is dropped and counted instead of blocking.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- b:
	default:
		h.dropped.Add(1)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

// Dropped returns how many broadcasts were discarded because the queue was
// full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
