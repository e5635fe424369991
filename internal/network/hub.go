// Package network bridges the simulation engine to its display and control
// collaborators: a websocket hub pushing frame snapshots out, and HTTP
// handlers accepting control actions in.
package network

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/YashK55/ultrafiltration-simulation/internal/engine"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/logger"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/metrics"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/optimization"
	"github.com/YashK55/ultrafiltration-simulation/internal/sim"
)

// FrameMessage is the envelope for per-frame state pushed to displays.
type FrameMessage struct {
	Type  string         `json:"type"`
	Frame sim.FrameState `json:"frame"`
}

// Hub maintains the set of active clients and broadcasts frame snapshots
// to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	engine     *engine.Engine
	cfg        *optimization.Config
}

// NewHub initializes a new WebSocket Hub bound to an engine.
func NewHub(eng *engine.Engine, log *logger.Logger, cfg *optimization.Config) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, cfg.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		engine:     eng,
		cfg:        cfg,
	}
}

// Run starts the Hub's main loop to handle client connections and
// broadcasts. Call in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New display client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Display client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// StartFramePump subscribes to the engine and pushes every received frame
// snapshot to all connected clients.
func (h *Hub) StartFramePump(ctx context.Context) {
	frames := h.engine.Subscribe(h.cfg.BroadcastChannelBuffer)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-frames:
				payload, err := json.Marshal(FrameMessage{Type: "frame", Frame: frame})
				if err != nil {
					h.logger.Error("Failed to serialize frame for broadcast: " + err.Error())
					continue
				}
				select {
				case h.broadcast <- payload:
				default:
					// Broadcast queue full; this frame is already stale.
				}
			}
		}
	}()
}
