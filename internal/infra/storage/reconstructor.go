// Package storage - reconstructor.go
// Rebuilds a run summary from the event ledger: state = f(events).
// Used when the server restarts and needs to report what a past run did
// without having its in-memory log.
package storage

import (
	"context"
	"fmt"
)

// Reconstructor rebuilds run summaries from the event ledger.
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new run summary reconstructor.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// RunSummary holds the reconstructed view of a run.
type RunSummary struct {
	RunID          string             `json:"run_id"`
	EventCount     int                `json:"event_count"`
	ParamChanges   int                `json:"param_changes"`
	Regenerations  int                `json:"regenerations"`
	Backwashes     int                `json:"backwashes"`
	Resets         int                `json:"resets"`
	FinalParams    map[string]float64 `json:"final_params"`
	LastElapsed    float64            `json:"last_elapsed"`
	LastHealth     float64            `json:"last_health"`
	LastFlux       float64            `json:"last_flux"`
	HasStatsSample bool               `json:"has_stats_sample"`
}

// Rebuild replays a run's event ledger into a summary.
func (rc *Reconstructor) Rebuild(ctx context.Context, runID string) (*RunSummary, error) {
	history, err := rc.eventRepo.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for run %s: %w", runID, err)
	}

	summary := &RunSummary{
		RunID:       runID,
		EventCount:  len(history),
		FinalParams: make(map[string]float64),
	}

	for _, e := range history {
		switch e.EventType {
		case "PARAM_CHANGED":
			summary.ParamChanges++
			if name, ok := e.Payload["param"].(string); ok {
				if value, ok := e.Payload["value"].(float64); ok {
					summary.FinalParams[name] = value
				}
			}
		case "POPULATION_REGENERATED":
			summary.Regenerations++
		case "BACKWASH":
			summary.Backwashes++
		case "RESET":
			summary.Resets++
		case "RUN_STATS":
			summary.HasStatsSample = true
			if v, ok := e.Payload["elapsed_time"].(float64); ok {
				summary.LastElapsed = v
			}
			if v, ok := e.Payload["membrane_health"].(float64); ok {
				summary.LastHealth = v
			}
			if v, ok := e.Payload["flux"].(float64); ok {
				summary.LastFlux = v
			}
		}
	}

	return summary, nil
}
