// Package network - replay.go
// JSON export of the run event history, so a classroom session can be
// reviewed after the fact (when were parameters changed, how did flux
// respond, when was the membrane cleaned).
package network

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/YashK55/ultrafiltration-simulation/internal/events"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/logger"
)

// ReplayHandler provides the run history API.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewReplayHandler creates a new run history handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog: el,
		logger:   log,
	}
}

// HandleReplay serves GET /api/events?type=PARAM_CHANGED&limit=100.
// Without a type filter the full history is returned, oldest first.
func (h *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var history []events.RunEvent
	if typ := r.URL.Query().Get("type"); typ != "" {
		history = h.eventLog.GetByType(events.EventType(typ))
	} else {
		history = h.eventLog.Replay()
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		if limit < len(history) {
			// Keep the most recent entries.
			history = history[len(history)-limit:]
		}
	}

	if history == nil {
		history = []events.RunEvent{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	json.NewEncoder(w).Encode(history)
}
