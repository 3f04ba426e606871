package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Per-client send buffer; a full buffer marks the client as slow.
	sendBufferSize = 256
)

// Client is one WebSocket connection of one user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string

	// mu guards send against the unregister/close race: the readPump may
	// answer a rejected operation while a broadcaster drops this client.
	mu     sync.Mutex
	closed bool
	send   chan []byte

	// subscriptions is only touched while holding the hub lock.
	subscriptions map[string]bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		userID:        userID,
		send:          make(chan []byte, sendBufferSize),
		subscriptions: make(map[string]bool),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// trySend queues a payload for the write pump. It reports false when the
// buffer is full; payloads for an already closed client are dropped silently.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once. After it returns, no
// goroutine can write to the channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// frame is the inbound WebSocket message shape.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// readPump pumps inbound frames from the connection into the hub's router.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("user_id", c.userID).Warn("websocket read error")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.sendError("", "invalid", "malformed frame")
			continue
		}
		c.hub.route(c, f)
	}
}

// writePump pumps events from the send channel to the connection and keeps
// the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendError reports a rejected operation on this connection only. Rejections
// never close the connection.
func (c *Client) sendError(event, code, message string) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": "error",
		"data": map[string]string{
			"for":     event,
			"code":    code,
			"message": message,
		},
	})
	if err != nil {
		return
	}
	c.trySend(payload)
}
