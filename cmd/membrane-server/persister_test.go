package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/YashK55/ultrafiltration-simulation/internal/events"
	"github.com/YashK55/ultrafiltration-simulation/internal/infra/storage"
)

func newTestPersister(t *testing.T) (*SQLitePersisterAdapter, *storage.SQLiteEventRepository) {
	t.Helper()
	db, err := storage.InitSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := storage.NewSQLiteEventRepository(db)
	if err := storage.NewSQLiteRunRepository(db).Create(context.Background(), storage.Run{
		RunID: "RUN_TEST", StartedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	return &SQLitePersisterAdapter{repo: repo, runID: "RUN_TEST"}, repo
}

func TestPersisterKeepsScalarPayloads(t *testing.T) {
	adapter, repo := newTestPersister(t)

	// Backwash events carry the restored health as a bare float.
	err := adapter.Append(events.RunEvent{
		ID:        "e1",
		RunID:     "RUN_TEST",
		Timestamp: time.Now(),
		Type:      events.EventTypeBackwash,
		Payload:   75.0,
		Elapsed:   12.0,
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := repo.GetByRunID(context.Background(), "RUN_TEST")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 persisted event, got %d", len(got))
	}
	if got[0].Payload == nil {
		t.Fatal("Expected scalar payload preserved in the ledger, got nil")
	}
	if v, ok := got[0].Payload["value"].(float64); !ok || v != 75.0 {
		t.Errorf("Expected payload value 75.0, got %v", got[0].Payload["value"])
	}
}

func TestPersisterKeepsStructPayloads(t *testing.T) {
	adapter, repo := newTestPersister(t)

	err := adapter.Append(events.RunEvent{
		ID:        "e1",
		RunID:     "RUN_TEST",
		Timestamp: time.Now(),
		Type:      events.EventTypeParamChanged,
		Payload:   events.ParamChangedPayload{Param: "pressure", Value: 60},
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := repo.GetByRunID(context.Background(), "RUN_TEST")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 persisted event, got %d", len(got))
	}
	if got[0].Payload["param"] != "pressure" || got[0].Payload["value"] != 60.0 {
		t.Errorf("Expected struct payload round-trip, got %v", got[0].Payload)
	}
}
