package sim

import (
	"math/rand"
)

// Motion tuning. Horizontal drift in the feed and permeate regions is
// velocity-accumulating (pressure keeps pushing); jitter terms are positional
// and scale with dt so irregular frame times do not change the motion.
const (
	feedDriftBase     = 0.5
	feedDriftPressure = 1.0 / 70.0
	feedJitterScale   = 30.0

	stirJitterScale = 0.9

	permeateKickScale    = 0.03
	permeateAccelBase    = 0.6
	permeateAccelPress   = 1.0 / 55.0
	permeateSinkAccel    = 0.08
	permeateExitX        = VesselWidth - 10.0
	permeateRespawnShift = 6.0

	retentateWalkScale = 26.0
	retentateLeftBias  = 0.1
	retentateJitter    = 18.0
	retentateReboundX  = 12.0
	retentateBounce    = 0.4

	// Fouling decay coefficients: both driving pressure and feed
	// concentration deposit solute on the membrane.
	foulingPressureDiv      = 2200.0
	foulingConcentrationDiv = 9000.0

	backwashHealthGain = 25.0
	backwashShift      = 90.0
)

// Simulation is the authoritative state of one ultrafiltration run: the
// particle population, the control parameters, membrane health and the run
// clock. All mutation happens through Step and the explicit control methods;
// the engine guarantees those never interleave with a step in progress.
type Simulation struct {
	params    Params
	particles []Particle
	elapsed   float64
	health    float64
	running   bool
	rng       *rand.Rand
}

// New creates a simulation with a freshly generated population. The random
// source is injected so tests can run deterministically.
func New(params Params, rng *rand.Rand) *Simulation {
	s := &Simulation{
		params:  params.Clamped(),
		health:  100,
		running: true,
		rng:     rng,
	}
	s.particles = NewPopulation(s.rng, s.params.FeedConcentration, s.params.MeanSoluteSize)
	return s
}

// Params returns the current control inputs.
func (s *Simulation) Params() Params { return s.params }

// Particles exposes the live population. Callers that cross a goroutine
// boundary must use Snapshot instead.
func (s *Simulation) Particles() []Particle { return s.particles }

// ElapsedTime returns seconds simulated since the last regeneration.
func (s *Simulation) ElapsedTime() float64 { return s.elapsed }

// MembraneHealth returns the fouling state in [0, 100].
func (s *Simulation) MembraneHealth() float64 { return s.health }

// Running reports whether the engine should step this simulation.
func (s *Simulation) Running() bool { return s.running }

// SetRunning toggles the run/pause flag. Pausing simply stops the engine
// from invoking Step; no in-flight work is interrupted.
func (s *Simulation) SetRunning(running bool) { s.running = running }

// SetPressure updates the transmembrane pressure. No regeneration.
func (s *Simulation) SetPressure(v float64) {
	s.params.Pressure = clamp(v, MinPressure, MaxPressure)
}

// SetStirRate updates the agitation strength. No regeneration.
func (s *Simulation) SetStirRate(v float64) {
	s.params.StirRate = clamp(v, MinStirRate, MaxStirRate)
}

// SetPoreSize updates the membrane pore size and regenerates the population.
func (s *Simulation) SetPoreSize(v float64) {
	s.params.PoreSize = clamp(v, MinPoreSize, MaxPoreSize)
	s.regenerate()
}

// SetMeanSoluteSize updates the mean particle size and regenerates.
func (s *Simulation) SetMeanSoluteSize(v float64) {
	s.params.MeanSoluteSize = clamp(v, MinSoluteSize, MaxSoluteSize)
	s.regenerate()
}

// SetFeedConcentration updates the feed concentration and regenerates.
func (s *Simulation) SetFeedConcentration(v float64) {
	s.params.FeedConcentration = clamp(v, MinConcentration, MaxConcentration)
	s.regenerate()
}

// regenerate replaces the population and rewinds the run clock. Membrane
// health is deliberately untouched: fouling is irreversible except through
// Reset and Backwash.
func (s *Simulation) regenerate() {
	s.particles = NewPopulation(s.rng, s.params.FeedConcentration, s.params.MeanSoluteSize)
	s.elapsed = 0
}

// Reset regenerates the population with the current parameters and restores
// the membrane to full health.
func (s *Simulation) Reset() {
	s.regenerate()
	s.health = 100
}

// Backwash restores a fixed increment of membrane health and flushes the
// retentate layer back into the bulk feed, shifted away from the membrane.
// Permeate particles and the run clock are unaffected.
func (s *Simulation) Backwash() {
	s.health = clamp(s.health+backwashHealthGain, 0, 100)
	for i := range s.particles {
		p := &s.particles[i]
		if p.Region != RegionRetentate {
			continue
		}
		p.Region = RegionFeed
		// Lower bound is the vessel inset, not the spawn margin: a flush
		// must never move a particle back toward the membrane.
		p.X = clamp(p.X-backwashShift, boundsInset, MembraneX-2*WallMargin)
		p.VX = 0
	}
}

// Step advances the simulation by dt seconds: per-particle motion and region
// transitions, then the fouling decay. A non-positive dt is a no-op, so the
// step function is total.
func (s *Simulation) Step(dt float64) {
	if dt <= 0 {
		return
	}

	for i := range s.particles {
		s.stepParticle(&s.particles[i], dt)
	}

	decay := (s.params.Pressure/foulingPressureDiv + s.params.FeedConcentration/foulingConcentrationDiv) * dt
	s.health = clamp(s.health-decay, 0, 100)
	s.elapsed += dt
}

func (s *Simulation) stepParticle(p *Particle, dt float64) {
	// Stirring agitates every region vertically before region logic runs.
	p.Y += (s.rng.Float64() - 0.5) * s.params.StirRate * stirJitterScale * dt

	switch p.Region {
	case RegionFeed:
		p.VX += (feedDriftBase + s.params.Pressure*feedDriftPressure) * dt
		p.X += p.VX
		p.X += (s.rng.Float64() - 0.5) * feedJitterScale * dt

		if p.X >= MembraneX-MembraneProximity {
			s.crossMembrane(p)
		}

	case RegionRetentate:
		// Rejected solute skims the membrane surface: a gentle
		// leftward-biased walk confined between the left wall and the
		// membrane, never rejoining the bulk feed flow.
		p.X += ((s.rng.Float64() - 0.5) - retentateLeftBias) * retentateWalkScale * dt
		p.Y += (s.rng.Float64() - 0.5) * retentateJitter * dt
		p.X = clamp(p.X, boundsInset, MembraneX-retentateReboundX)

	case RegionPermeate:
		p.VX += (permeateAccelBase + s.params.Pressure*permeateAccelPress) * dt
		p.VY += permeateSinkAccel * dt
		p.X += p.VX
		p.Y += p.VY

		if p.X > permeateExitX {
			// Closed recirculating loop: drained permeate re-enters the
			// feed vessel instead of leaving the system.
			s.recycle(p)
		}
	}

	p.X = clamp(p.X, boundsInset, VesselWidth-boundsInset)
	p.Y = clamp(p.Y, boundsInset, VesselHeight-boundsInset)
}

// crossMembrane applies the permeation decision rule at the membrane face:
// particles smaller than the pore pass through, the rest are rejected into
// the retentate layer with a partial bounce.
func (s *Simulation) crossMembrane(p *Particle) {
	if p.Size < s.params.PoreSize {
		p.Region = RegionPermeate
		p.X = MembraneX + permeateRespawnShift
		p.VX = s.params.Pressure * permeateKickScale
		return
	}
	p.Region = RegionRetentate
	p.X = MembraneX - retentateReboundX
	p.VX = -p.VX * retentateBounce
}

func (s *Simulation) recycle(p *Particle) {
	p.X, p.Y = feedSpawn(s.rng)
	p.VX = 0
	p.VY = 0
	p.Region = RegionFeed
}
