package storage

import (
	"context"
	"testing"
	"time"
)

type fakeEventRepo struct {
	events []RunEvent
}

func (f *fakeEventRepo) Append(ctx context.Context, event RunEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) GetByRunID(ctx context.Context, runID string) ([]RunEvent, error) {
	var out []RunEvent
	for _, e := range f.events {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByEventType(ctx context.Context, runID string, eventType string) ([]RunEvent, error) {
	var out []RunEvent
	for _, e := range f.events {
		if e.RunID == runID && e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestRebuildSummary(t *testing.T) {
	repo := &fakeEventRepo{}
	now := time.Now()

	seed := []RunEvent{
		{ID: "1", RunID: "RUN_A", Timestamp: now, EventType: "RUN_STARTED"},
		{ID: "2", RunID: "RUN_A", Timestamp: now, EventType: "PARAM_CHANGED",
			Payload: map[string]interface{}{"param": "pressure", "value": 60.0}},
		{ID: "3", RunID: "RUN_A", Timestamp: now, EventType: "PARAM_CHANGED",
			Payload: map[string]interface{}{"param": "pressure", "value": 80.0}},
		{ID: "4", RunID: "RUN_A", Timestamp: now, EventType: "POPULATION_REGENERATED"},
		{ID: "5", RunID: "RUN_A", Timestamp: now, EventType: "BACKWASH"},
		{ID: "6", RunID: "RUN_A", Timestamp: now, EventType: "RUN_STATS",
			Payload: map[string]interface{}{"elapsed_time": 15.0, "membrane_health": 97.5, "flux": 2.31}},
		{ID: "7", RunID: "RUN_B", Timestamp: now, EventType: "RESET"},
	}
	for _, e := range seed {
		repo.Append(context.Background(), e)
	}

	summary, err := NewReconstructor(repo).Rebuild(context.Background(), "RUN_A")
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if summary.EventCount != 6 {
		t.Errorf("Expected 6 events for RUN_A, got %d", summary.EventCount)
	}
	if summary.ParamChanges != 2 {
		t.Errorf("Expected 2 param changes, got %d", summary.ParamChanges)
	}
	if summary.FinalParams["pressure"] != 80.0 {
		t.Errorf("Expected final pressure 80, got %f", summary.FinalParams["pressure"])
	}
	if summary.Backwashes != 1 || summary.Regenerations != 1 || summary.Resets != 0 {
		t.Errorf("Unexpected action counts: %+v", summary)
	}
	if !summary.HasStatsSample || summary.LastHealth != 97.5 || summary.LastFlux != 2.31 {
		t.Errorf("Expected last stats sample carried into summary, got %+v", summary)
	}
}

func TestRebuildEmptyRun(t *testing.T) {
	summary, err := NewReconstructor(&fakeEventRepo{}).Rebuild(context.Background(), "RUN_NONE")
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if summary.EventCount != 0 || summary.HasStatsSample {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}
