// Package network - control_bridge.go
// REST mirror of the websocket control actions, for slider widgets and
// classroom tooling that prefer plain HTTP.
package network

import (
	"encoding/json"
	"net/http"

	"github.com/YashK55/ultrafiltration-simulation/internal/engine"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/logger"
)

// ControlBridge handles REST control interactions.
type ControlBridge struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewControlBridge creates a new REST control handler.
func NewControlBridge(eng *engine.Engine, log *logger.Logger) *ControlBridge {
	return &ControlBridge{
		engine: eng,
		logger: log,
	}
}

// HandleSetParam accepts POST {"param": "...", "value": n} and queues the
// parameter change for the next frame.
func (b *ControlBridge) HandleSetParam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Param string  `json:"param"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if req.Param == "" {
		http.Error(w, "Missing parameter name", http.StatusBadRequest)
		return
	}

	b.engine.Apply(engine.Control{Type: engine.ControlSetParam, Param: req.Param, Value: req.Value})
	writeOK(w)
}

// HandleRun accepts POST {"action": "pause"|"resume"}.
func (b *ControlBridge) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "pause":
		b.engine.Apply(engine.Control{Type: engine.ControlPause})
	case "resume":
		b.engine.Apply(engine.Control{Type: engine.ControlResume})
	default:
		http.Error(w, "Unknown run action", http.StatusBadRequest)
		return
	}
	writeOK(w)
}

// HandleReset triggers a full run reset: regenerated population, clock to
// zero, membrane back to full health.
func (b *ControlBridge) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	b.engine.Apply(engine.Control{Type: engine.ControlReset})
	writeOK(w)
}

// HandleBackwash triggers a membrane cleaning cycle.
func (b *ControlBridge) HandleBackwash(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	b.engine.Apply(engine.Control{Type: engine.ControlBackwash})
	writeOK(w)
}

// HandleState returns the most recent frame snapshot as JSON.
func (b *ControlBridge) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	json.NewEncoder(w).Encode(b.engine.State())
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
