package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YashK55/ultrafiltration-simulation/internal/events"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/logger"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/metrics"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/optimization"
	"github.com/YashK55/ultrafiltration-simulation/internal/sim"
)

// statsInterval is how much simulated time passes between RUN_STATS samples.
const statsInterval = 5.0

// Engine owns the simulation and is the only writer to it. Control actions
// from the network arrive on a buffered channel and are drained at the top
// of each frame; frame snapshots fan out to subscribers (the websocket hub).
type Engine struct {
	sim      *sim.Simulation
	eventLog *events.EventLog
	logger   *logger.Logger
	ticker   *FrameTicker
	runID    string

	controls chan Control

	mu          sync.Mutex
	subscribers []chan sim.FrameState

	lastFrame atomic.Value // sim.FrameState

	lastStatsAt float64
}

// NewEngine wires the simulation to the event log and the frame ticker.
func NewEngine(runID string, simulation *sim.Simulation, eventLog *events.EventLog, log *logger.Logger, cfg *optimization.Config) *Engine {
	e := &Engine{
		sim:      simulation,
		eventLog: eventLog,
		logger:   log,
		ticker:   NewFrameTicker(log),
		runID:    runID,
		controls: make(chan Control, cfg.ControlChannelBuffer),
	}
	e.lastFrame.Store(simulation.Snapshot())
	return e
}

// Start spawns the frame loop. Call once.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting simulation engine for run " + e.runID)
	e.emit(events.EventTypeRunStarted, e.sim.Params())
	go e.ticker.Start(ctx, e.frame)
}

// Stop halts the frame loop.
func (e *Engine) Stop() {
	e.ticker.Stop()
}

// Apply queues a control action for the next frame. It never blocks the
// caller; if the control buffer is full the action is dropped and logged.
func (e *Engine) Apply(ctrl Control) {
	select {
	case e.controls <- ctrl:
	default:
		e.logger.Warn("Control buffer full, dropping action " + string(ctrl.Type))
	}
}

// Subscribe registers a frame snapshot channel. Slow subscribers miss
// frames rather than stalling the loop.
func (e *Engine) Subscribe(buffer int) <-chan sim.FrameState {
	ch := make(chan sim.FrameState, buffer)
	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()
	return ch
}

// State returns the most recent frame snapshot. Safe from any goroutine.
func (e *Engine) State() sim.FrameState {
	return e.lastFrame.Load().(sim.FrameState)
}

// frame is one pass of the loop: drain controls, step, derive metrics,
// publish. Runs only on the ticker goroutine.
func (e *Engine) frame(dt float64) {
	start := time.Now()

	e.drainControls()

	if e.sim.Running() {
		e.sim.Step(dt)
	}

	snap := e.sim.Snapshot()
	e.lastFrame.Store(snap)
	e.maybeEmitStats(snap)
	e.publish(snap)

	metrics.Get().RecordFrame(time.Since(start))
}

func (e *Engine) drainControls() {
	for {
		select {
		case ctrl := <-e.controls:
			e.applyControl(ctrl)
		default:
			return
		}
	}
}

func (e *Engine) applyControl(ctrl Control) {
	switch ctrl.Type {
	case ControlSetParam:
		e.applyParam(ctrl.Param, ctrl.Value)

	case ControlPause:
		e.sim.SetRunning(false)
		e.emit(events.EventTypeRunPaused, nil)
		e.logger.Event("RUN_PAUSED", e.runID, "")

	case ControlResume:
		e.sim.SetRunning(true)
		e.emit(events.EventTypeRunResumed, nil)
		e.logger.Event("RUN_RESUMED", e.runID, "")

	case ControlReset:
		e.sim.Reset()
		e.lastStatsAt = 0
		e.emit(events.EventTypeReset, e.sim.Params())
		e.emit(events.EventTypePopulationRegenerated, len(e.sim.Particles()))
		e.logger.Event("RESET", e.runID, fmt.Sprintf("population=%d", len(e.sim.Particles())))

	case ControlBackwash:
		e.sim.Backwash()
		e.emit(events.EventTypeBackwash, e.sim.MembraneHealth())
		e.logger.Event("BACKWASH", e.runID, fmt.Sprintf("health=%.1f", e.sim.MembraneHealth()))

	default:
		e.logger.Warn("Unknown control type: " + string(ctrl.Type))
	}
}

func (e *Engine) applyParam(name string, value float64) {
	regenerated := false

	switch name {
	case ParamPressure:
		e.sim.SetPressure(value)
	case ParamStirRate:
		e.sim.SetStirRate(value)
	case ParamPoreSize:
		e.sim.SetPoreSize(value)
		regenerated = true
	case ParamMeanSoluteSize:
		e.sim.SetMeanSoluteSize(value)
		regenerated = true
	case ParamFeedConcentration:
		e.sim.SetFeedConcentration(value)
		regenerated = true
	default:
		e.logger.Warn("Unknown parameter: " + name)
		return
	}

	e.emit(events.EventTypeParamChanged, events.ParamChangedPayload{Param: name, Value: value})
	if regenerated {
		e.lastStatsAt = 0
		e.emit(events.EventTypePopulationRegenerated, len(e.sim.Particles()))
	}
}

// maybeEmitStats samples the derived metrics every statsInterval of
// simulated time, so run history carries a flux/health curve.
func (e *Engine) maybeEmitStats(snap sim.FrameState) {
	if snap.ElapsedTime < e.lastStatsAt {
		e.lastStatsAt = 0 // Clock rewound by a regeneration
	}
	if snap.ElapsedTime-e.lastStatsAt < statsInterval {
		return
	}
	e.lastStatsAt = snap.ElapsedTime

	e.emit(events.EventTypeRunStats, events.RunStatsPayload{
		ElapsedTime:    snap.ElapsedTime,
		MembraneHealth: snap.MembraneHealth,
		Flux:           snap.Flux,
		PermeateCount:  snap.PermeateCount,
	})
}

func (e *Engine) publish(snap sim.FrameState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- snap:
		default:
			// Subscriber is behind; it will pick up a newer frame.
		}
	}
}

func (e *Engine) emit(t events.EventType, payload interface{}) {
	e.eventLog.Append(events.RunEvent{
		ID:        events.GenerateEventID(),
		RunID:     e.runID,
		Timestamp: time.Now(),
		Type:      t,
		Payload:   payload,
		Elapsed:   e.sim.ElapsedTime(),
	})
}
