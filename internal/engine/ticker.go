// Package engine contains the frame loop and the control plane for the
// ultrafiltration simulation.
//
// ARCHITECTURAL RULE: control actions are applied between frames, never
// while a step is in progress. Everything that mutates the simulation runs
// on the frame goroutine.
package engine

import (
	"context"
	"time"

	"github.com/YashK55/ultrafiltration-simulation/internal/platform/logger"
)

// FrameRate is the nominal frame frequency. Actual dt is measured from the
// wall clock every frame; the rate only sets the scheduling cadence.
const FrameRate = 60

const frameInterval = time.Second / FrameRate

// FrameTicker drives the frame loop heartbeat. It does NOT know about the
// simulation - only scheduling and dt measurement.
type FrameTicker struct {
	logger   *logger.Logger
	stopChan chan struct{}
}

// NewFrameTicker creates a new frame ticker.
func NewFrameTicker(log *logger.Logger) *FrameTicker {
	return &FrameTicker{
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the frame loop, invoking onFrame with the measured wall-clock
// dt in seconds. Call in a goroutine.
func (t *FrameTicker) Start(ctx context.Context, onFrame func(dt float64)) {
	t.logger.Info("Frame ticker started.")

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Frame ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Frame ticker stopped manually.")
			return
		case now := <-ticker.C:
			onFrame(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Stop gracefully stops the ticker.
func (t *FrameTicker) Stop() {
	close(t.stopChan)
}
