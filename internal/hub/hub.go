// Package hub fans activity-feed events out to websocket subscribers.
// Subscribers are read-only; events originate from the services.
package hub

import (
	"context"
	"net/http"
	"sync"

	"DevFlow/internal/event"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan event.Event

	mu      sync.RWMutex
	clients map[string]*Client

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewHub(allowedOrigins []string, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	h := &Hub{
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan event.Event, 1024),
		clients:    make(map[string]*Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}

	go h.run()

	return h
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

// Publish enqueues an event for fan-out. Non-blocking: when the broadcast
// buffer is full the event is dropped rather than stalling the request
// path.
func (h *Hub) Publish(ev event.Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("feed broadcast buffer full, dropping event", zap.String("type", ev.Type))
	}
}

func (h *Hub) fanOut(ev event.Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.egress <- ev:
		default:
			// Slow consumer: drop it rather than buffering without bound.
			h.logger.Warn("feed subscriber egress full, disconnecting", zap.String("client_id", c.ID))
			select {
			case h.unregister <- c:
			default:
				c.Close()
			}
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.logger.Debug("feed subscriber registered", zap.String("client_id", c.ID))
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	_, exists := h.clients[c.ID]
	delete(h.clients, c.ID)
	h.mu.Unlock()

	if exists {
		c.Close()
		h.logger.Debug("feed subscriber removed", zap.String("client_id", c.ID))
	}
}

// SubscriberCount reports the number of connected feed subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the connection and registers it as a feed subscriber.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("feed upgrade failed", zap.Error(err))
		return
	}

	registerClient(conn, h)
}

// Stop disconnects all subscribers and stops the manager loop.
func (h *Hub) Stop() {
	h.cancel()
	<-h.done

	h.mu.Lock()
	for _, c := range h.clients {
		c.Close()
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
}
