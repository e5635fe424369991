package engine

import (
	"math/rand"
	"testing"

	"github.com/YashK55/ultrafiltration-simulation/internal/events"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/logger"
	"github.com/YashK55/ultrafiltration-simulation/internal/platform/optimization"
	"github.com/YashK55/ultrafiltration-simulation/internal/sim"
)

func newTestEngine(t *testing.T) (*Engine, *events.EventLog) {
	t.Helper()
	el := events.NewEventLog(nil)
	s := sim.New(sim.DefaultParams(), rand.New(rand.NewSource(1)))
	e := NewEngine("RUN_TEST", s, el, logger.NewLogger(), optimization.LowResourceConfig())
	return e, el
}

const testDt = 1.0 / 60.0

func TestControlAppliedBetweenFrames(t *testing.T) {
	e, el := newTestEngine(t)

	e.Apply(Control{Type: ControlSetParam, Param: ParamPressure, Value: 80})
	e.frame(testDt)

	if got := e.sim.Params().Pressure; got != 80 {
		t.Errorf("Expected pressure 80 after frame, got %f", got)
	}
	if len(el.GetByType(events.EventTypeParamChanged)) != 1 {
		t.Errorf("Expected 1 PARAM_CHANGED event, got %d", len(el.GetByType(events.EventTypeParamChanged)))
	}
}

func TestPauseAndResume(t *testing.T) {
	e, el := newTestEngine(t)

	e.Apply(Control{Type: ControlPause})
	e.frame(testDt)
	e.frame(testDt)

	if got := e.State().ElapsedTime; got != 0 {
		t.Errorf("Expected no simulated time while paused, got %f", got)
	}
	if e.State().Running {
		t.Error("Expected snapshot to report paused state")
	}

	e.Apply(Control{Type: ControlResume})
	e.frame(testDt)

	if got := e.State().ElapsedTime; got == 0 {
		t.Error("Expected simulated time to advance after resume")
	}
	if len(el.GetByType(events.EventTypeRunPaused)) != 1 || len(el.GetByType(events.EventTypeRunResumed)) != 1 {
		t.Error("Expected one RUN_PAUSED and one RUN_RESUMED event")
	}
}

func TestConcentrationChangeRegeneratesPopulation(t *testing.T) {
	e, el := newTestEngine(t)

	before := len(e.State().Particles)
	e.Apply(Control{Type: ControlSetParam, Param: ParamFeedConcentration, Value: 1500})
	e.frame(testDt)

	after := len(e.State().Particles)
	if after == before {
		t.Errorf("Expected population size to change, still %d", after)
	}
	if after != sim.PopulationSize(1500) {
		t.Errorf("Expected %d particles, got %d", sim.PopulationSize(1500), after)
	}
	if len(el.GetByType(events.EventTypePopulationRegenerated)) != 1 {
		t.Errorf("Expected 1 POPULATION_REGENERATED event, got %d", len(el.GetByType(events.EventTypePopulationRegenerated)))
	}
}

func TestPressureChangeDoesNotRegenerate(t *testing.T) {
	e, el := newTestEngine(t)

	e.Apply(Control{Type: ControlSetParam, Param: ParamPressure, Value: 10})
	e.frame(testDt)

	if n := len(el.GetByType(events.EventTypePopulationRegenerated)); n != 0 {
		t.Errorf("Expected no regeneration for a pressure change, got %d events", n)
	}
}

func TestBackwashControl(t *testing.T) {
	e, el := newTestEngine(t)

	// Age the membrane so the backwash has something to restore.
	for i := 0; i < 120; i++ {
		e.frame(testDt)
	}
	before := e.State().MembraneHealth
	if before >= 100 {
		t.Fatal("Expected fouling to reduce health before backwash")
	}

	e.Apply(Control{Type: ControlBackwash})
	e.frame(testDt)

	if got := e.State().MembraneHealth; got <= before {
		t.Errorf("Expected health restored by backwash, got %f -> %f", before, got)
	}
	if len(el.GetByType(events.EventTypeBackwash)) != 1 {
		t.Errorf("Expected 1 BACKWASH event, got %d", len(el.GetByType(events.EventTypeBackwash)))
	}
}

func TestResetControl(t *testing.T) {
	e, el := newTestEngine(t)

	for i := 0; i < 120; i++ {
		e.frame(testDt)
	}
	e.Apply(Control{Type: ControlReset})
	e.frame(testDt)

	snap := e.State()
	if snap.MembraneHealth < 100-0.01 {
		t.Errorf("Expected near-full health after reset, got %f", snap.MembraneHealth)
	}
	if snap.ElapsedTime > 2*testDt {
		t.Errorf("Expected run clock rewound by reset, got %f", snap.ElapsedTime)
	}
	if len(el.GetByType(events.EventTypeReset)) != 1 {
		t.Errorf("Expected 1 RESET event, got %d", len(el.GetByType(events.EventTypeReset)))
	}
}

func TestUnknownControlsIgnored(t *testing.T) {
	e, el := newTestEngine(t)

	e.Apply(Control{Type: ControlSetParam, Param: "viscosity", Value: 3})
	e.Apply(Control{Type: ControlType("EXPLODE")})
	e.frame(testDt)

	if n := len(el.GetByType(events.EventTypeParamChanged)); n != 0 {
		t.Errorf("Expected unknown parameter to be ignored, got %d PARAM_CHANGED events", n)
	}
}

func TestRunStatsSampledOverTime(t *testing.T) {
	e, el := newTestEngine(t)

	// 12 simulated seconds should yield two RUN_STATS samples.
	for i := 0; i < 720; i++ {
		e.frame(testDt)
	}

	if n := len(el.GetByType(events.EventTypeRunStats)); n != 2 {
		t.Errorf("Expected 2 RUN_STATS events over 12s, got %d", n)
	}
}

func TestSubscriberReceivesFrames(t *testing.T) {
	e, _ := newTestEngine(t)

	frames := e.Subscribe(4)
	e.frame(testDt)

	select {
	case snap := <-frames:
		if len(snap.Particles) == 0 {
			t.Error("Expected a populated frame snapshot")
		}
	default:
		t.Fatal("Expected a frame on the subscription channel")
	}
}
