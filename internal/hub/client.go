package hub

import (
	"net"
	"sync"
	"time"

	"DevFlow/internal/event"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	// tuning parameters
	writeWait    = 10 * time.Second    // time allowed to write an event to the peer
	pongWait     = 20 * time.Second    // time allowed to read the next pong
	pingInterval = (pongWait * 9) / 10 // ping period, under pongWait
	sendBufSize  = 64                  // per-connection outbound buffer
)

// Client is one feed subscriber connection. Subscribers never send
// application messages; the read loop only services control frames.
type Client struct {
	ID     string
	conn   *websocket.Conn
	hub    *Hub
	egress chan event.Event
	closed chan struct{}
	once   sync.Once
}

func registerClient(conn *websocket.Conn, h *Hub) *Client {
	client := &Client{
		ID:     uuid.New().String(),
		conn:   conn,
		hub:    h,
		egress: make(chan event.Event, sendBufSize),
		closed: make(chan struct{}),
	}

	select {
	case h.register <- client:
		go client.readLoop()
		go client.writeLoop()
		return client
	case <-time.After(5 * time.Second):
		h.logger.Warn("feed registration timeout", zap.String("client_id", client.ID))
		conn.Close()
		return nil
	}
}

// readLoop drains the connection so close and pong frames are processed;
// any payload from a subscriber is discarded.
func (c *Client) readLoop() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-time.After(5 * time.Second):
			c.Close()
		}
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				c.hub.logger.Debug("feed subscriber timed out", zap.String("client_id", c.ID))
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.closed:
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case ev := <-c.egress:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.closed)
	})
}
