// Package storage provides the persistence layer for run history.
// This package implements the repository pattern to keep the simulation
// core pure.
package storage

import (
	"context"
	"time"
)

// Run is one server session of the simulation.
type Run struct {
	RunID     string    `json:"run_id" db:"run_id"`
	StartedAt time.Time `json:"started_at" db:"started_at"`
	Seed      int64     `json:"seed" db:"seed"`
}

// RunEvent mirrors the domain event structure for persistence.
// The events package should NOT import this; it persists through an
// interface defined on its side.
type RunEvent struct {
	ID        string                 `json:"id" db:"id"`
	RunID     string                 `json:"run_id" db:"run_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Elapsed   float64                `json:"elapsed" db:"elapsed"`
}

// RunStats is the last known derived-metric sample for a run, refreshed
// periodically so a restarted server can report where the run left off.
type RunStats struct {
	RunID          string    `json:"run_id" db:"run_id"`
	ElapsedTime    float64   `json:"elapsed_time" db:"elapsed_time"`
	MembraneHealth float64   `json:"membrane_health" db:"membrane_health"`
	Flux           float64   `json:"flux" db:"flux"`
	PermeateCount  int       `json:"permeate_count" db:"permeate_count"`
	LastUpdated    time.Time `json:"last_updated" db:"last_updated"`
}

// RunRepository registers server sessions.
type RunRepository interface {
	Create(ctx context.Context, run Run) error
	GetAll(ctx context.Context) ([]Run, error)
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event RunEvent) error

	// GetByRunID retrieves all events for a run (for replay).
	GetByRunID(ctx context.Context, runID string) ([]RunEvent, error)

	// GetByEventType retrieves events of one type for a run.
	GetByEventType(ctx context.Context, runID string, eventType string) ([]RunEvent, error)
}

// StatsRepository persists the periodic run-stat snapshots.
type StatsRepository interface {
	Upsert(ctx context.Context, stats RunStats) error
	GetByRunID(ctx context.Context, runID string) (RunStats, error)
}
