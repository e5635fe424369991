// Package events provides the append-only run event log. Every control
// action applied to the simulation (parameter changes, regenerations,
// backwashes, resets, pause/resume) lands here, so a run can be replayed or
// audited after the fact.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a run event.
type EventType string

const (
	EventTypeRunStarted            EventType = "RUN_STARTED"
	EventTypeRunPaused             EventType = "RUN_PAUSED"
	EventTypeRunResumed            EventType = "RUN_RESUMED"
	EventTypeParamChanged          EventType = "PARAM_CHANGED"
	EventTypePopulationRegenerated EventType = "POPULATION_REGENERATED"
	EventTypeBackwash              EventType = "BACKWASH"
	EventTypeReset                 EventType = "RESET"
	EventTypeRunStats              EventType = "RUN_STATS"
)

// ParamChangedPayload records a single slider adjustment.
type ParamChangedPayload struct {
	Param string  `json:"param"`
	Value float64 `json:"value"`
}

// RunStatsPayload is the periodic derived-metric sample attached to
// RUN_STATS events.
type RunStatsPayload struct {
	ElapsedTime    float64 `json:"elapsed_time"`
	MembraneHealth float64 `json:"membrane_health"`
	Flux           float64 `json:"flux"`
	PermeateCount  int     `json:"permeate_count"`
}

// RunEvent is an immutable record of something that happened to a run.
type RunEvent struct {
	ID        string      `json:"id"`
	RunID     string      `json:"run_id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Elapsed   float64     `json:"elapsed"` // Simulation clock at emit time
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event RunEvent) error
}

// EventLog is the in-memory append-only log of run events, with an optional
// write-through persister.
type EventLog struct {
	mu        sync.RWMutex
	events    []RunEvent
	persister EventPersister
}

// NewEventLog creates a new event log. A nil persister keeps the log
// memory-only, which is what the tests use.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]RunEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event RunEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to persistent storage off the engine's frame loop.
		go func(e RunEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByType returns all events of a given type, oldest first.
func (el *EventLog) GetByType(t EventType) []RunEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []RunEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full event history, oldest first.
func (el *EventLog) Replay() []RunEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	out := make([]RunEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Len returns the number of appended events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
