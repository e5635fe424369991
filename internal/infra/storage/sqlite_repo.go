package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteRunRepository implements RunRepository for SQLite.
type SQLiteRunRepository struct {
	db *sql.DB
}

func NewSQLiteRunRepository(db *sql.DB) *SQLiteRunRepository {
	return &SQLiteRunRepository{db: db}
}

func (r *SQLiteRunRepository) Create(ctx context.Context, run Run) error {
	query := `INSERT INTO runs (run_id, started_at, seed) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, run.RunID, run.StartedAt, run.Seed)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepository) GetAll(ctx context.Context) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT run_id, started_at, seed FROM runs ORDER BY started_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.Seed); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event RunEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO run_events (id, run_id, timestamp, event_type, payload, elapsed)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.RunID, event.Timestamp, event.EventType,
		string(payloadBytes), event.Elapsed,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]RunEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunEvent
	for rows.Next() {
		var e RunEvent
		var payloadStr string
		err := rows.Scan(&e.ID, &e.RunID, &e.Timestamp, &e.EventType, &payloadStr, &e.Elapsed)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *SQLiteEventRepository) GetByRunID(ctx context.Context, runID string) ([]RunEvent, error) {
	query := `SELECT id, run_id, timestamp, event_type, payload, elapsed FROM run_events WHERE run_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, runID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, runID string, eventType string) ([]RunEvent, error) {
	query := `SELECT id, run_id, timestamp, event_type, payload, elapsed FROM run_events WHERE run_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, runID, eventType)
}

// ---------------------------------------------------------
// SQLiteStatsRepository
// ---------------------------------------------------------

// SQLiteStatsRepository implements StatsRepository for SQLite.
type SQLiteStatsRepository struct {
	db *sql.DB
}

func NewSQLiteStatsRepository(db *sql.DB) *SQLiteStatsRepository {
	return &SQLiteStatsRepository{db: db}
}

func (r *SQLiteStatsRepository) Upsert(ctx context.Context, stats RunStats) error {
	query := `
		INSERT INTO run_stats (run_id, elapsed_time, membrane_health, flux, permeate_count, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			elapsed_time=excluded.elapsed_time,
			membrane_health=excluded.membrane_health,
			flux=excluded.flux,
			permeate_count=excluded.permeate_count,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		stats.RunID, stats.ElapsedTime, stats.MembraneHealth,
		stats.Flux, stats.PermeateCount, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert run stats: %w", err)
	}
	return nil
}

func (r *SQLiteStatsRepository) GetByRunID(ctx context.Context, runID string) (RunStats, error) {
	query := `SELECT run_id, elapsed_time, membrane_health, flux, permeate_count, last_updated FROM run_stats WHERE run_id = ?`

	var stats RunStats
	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&stats.RunID, &stats.ElapsedTime, &stats.MembraneHealth,
		&stats.Flux, &stats.PermeateCount, &stats.LastUpdated,
	)
	if err != nil {
		return RunStats{}, err
	}
	return stats, nil
}
