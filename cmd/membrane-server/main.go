// Package main is the entry point for the ultrafiltration simulation server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/YashK55/ultrafiltration-simulation/internal/engine"
	"github.com/YashK55/ultrafiltration-simulation/internal/events"
	"github.com/YashK55/ultrafiltration-simulation/internal/infra/storage"
	"github.com/YashK55/ultrafiltration-simulation/internal/network"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/logger"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/metrics"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/optimization"
	"github.com/YashK55/ultrafiltration-simulation/internal/sim"
)

// SQLitePersisterAdapter translates run events to storage events and records
// write latency in the metrics collector.
type SQLitePersisterAdapter struct {
	repo  *storage.SQLiteEventRepository
	runID string
}

func (a *SQLitePersisterAdapter) Append(event events.RunEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		metrics.Get().RecordEventWrite(0, err)
		return err
	}
	var payloadMap map[string]interface{}
	if err := json.Unmarshal(payloadBytes, &payloadMap); err != nil {
		// Scalar payloads (health after a backwash, a regenerated
		// population count) persist under a single key so the ledger
		// keeps their value.
		payloadMap = map[string]interface{}{"value": event.Payload}
	}

	storageEvent := storage.RunEvent{
		ID:        event.ID,
		RunID:     a.runID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Payload:   payloadMap,
		Elapsed:   event.Elapsed,
	}

	start := time.Now()
	err = a.repo.Append(context.Background(), storageEvent)
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "membrane.db", "SQLite database path")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	log.Println("[MEMBRANE-SERVER] Initializing ultrafiltration simulation server...")

	appLogger := logger.NewLogger()
	cfg := optimization.DefaultConfig()

	appLogger.Info("Initializing SQLite database '" + *dbPath + "'...")
	db, err := storage.InitSQLite(*dbPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)

	runID := "RUN_" + uuid.NewString()
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runRepo := storage.NewSQLiteRunRepository(db)
	if err := runRepo.Create(ctx, storage.Run{RunID: runID, StartedAt: time.Now(), Seed: *seed}); err != nil {
		appLogger.Error("Failed to register run: " + err.Error())
		os.Exit(1)
	}

	eventRepo := storage.NewSQLiteEventRepository(db)
	statsRepo := storage.NewSQLiteStatsRepository(db)
	eventPersister := &SQLitePersisterAdapter{repo: eventRepo, runID: runID}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("Bootstrapping Simulation Engine...")
	simulation := sim.New(sim.DefaultParams(), rand.New(rand.NewSource(*seed)))
	eng := engine.NewEngine(runID, simulation, eventLog, appLogger, cfg)
	eng.Start(ctx)

	// Periodic run-stat backup so a restarted server can report where the
	// run left off.
	go func() {
		backupTicker := time.NewTicker(5 * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				snap := eng.State()
				_ = statsRepo.Upsert(ctx, storage.RunStats{
					RunID:          runID,
					ElapsedTime:    snap.ElapsedTime,
					MembraneHealth: snap.MembraneHealth,
					Flux:           snap.Flux,
					PermeateCount:  snap.PermeateCount,
				})
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(eng, appLogger, cfg)
	go hub.Run(ctx)
	hub.StartFramePump(ctx)

	bridge := network.NewControlBridge(eng, appLogger)
	replay := network.NewReplayHandler(eventLog, appLogger)
	reconstructor := storage.NewReconstructor(eventRepo)

	// Setup API Routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	http.HandleFunc("/api/params", bridge.HandleSetParam)
	http.HandleFunc("/api/run", bridge.HandleRun)
	http.HandleFunc("/api/reset", bridge.HandleReset)
	http.HandleFunc("/api/backwash", bridge.HandleBackwash)
	http.HandleFunc("/api/state", bridge.HandleState)
	http.HandleFunc("/api/events", replay.HandleReplay)

	http.HandleFunc("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		runs, err := runRepo.GetAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(runs)
	})

	http.HandleFunc("/api/runs/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.URL.Query().Get("run_id")
		if id == "" {
			id = runID
		}
		summary, err := reconstructor.Rebuild(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	})

	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	go func() {
		log.Println("[MEMBRANE-SERVER] HTTP API & WS Server listening on " + *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[MEMBRANE-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[MEMBRANE-SERVER] Shutting down...")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests from the front-end dev server
	},
}

// serveWs handles websocket requests from display clients.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
