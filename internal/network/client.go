package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/YashK55/ultrafiltration-simulation/internal/engine"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer. Control actions are tiny.
	maxMessageSize = 512
)

// Client represents one connected display, holding its websocket connection
// and outbound frame queue.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
	minActionGap   time.Duration
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, hub.cfg.ClientSendBuffer),
		minActionGap: time.Second / time.Duration(hub.cfg.MaxActionsPerSecond),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps control actions from the websocket connection to the
// engine. Displays that never send controls simply idle here.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read error: " + err.Error())
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var ctrl engine.Control
		if err := json.Unmarshal(message, &ctrl); err != nil {
			c.hub.logger.Error("Failed to parse control action from WebSocket: " + err.Error())
			continue
		}

		c.handleControl(ctrl)
	}
}

func (c *Client) handleControl(ctrl engine.Control) {
	// Slider drags arrive at display refresh rate; anything faster is a
	// misbehaving client.
	if time.Since(c.lastActionTime) < c.minActionGap {
		return
	}
	c.lastActionTime = time.Now()

	c.hub.engine.Apply(ctrl)
}

// WritePump pumps frame broadcasts from the hub to the websocket connection.
func (c *Client) WritePump() {
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
