package sim

import "math"

// Flux tuning. Base flux decays over elapsed time (startup transient) and
// fouling scales it down towards, but never below, 40% of the unfouled value.
const (
	fluxPressureDiv = 50.0
	fluxHealthFloor = 0.4
)

// PermeateCount returns how many particles are currently past the membrane.
func (s *Simulation) PermeateCount() int {
	count := 0
	for i := range s.particles {
		if s.particles[i].Region == RegionPermeate {
			count++
		}
	}
	return count
}

// Flux derives the instantaneous throughput metric from the permeate count,
// the driving pressure, the run clock and the membrane health. Pure; rounded
// to two decimals for display.
func (s *Simulation) Flux() float64 {
	base := float64(s.PermeateCount()) * (s.params.Pressure / fluxPressureDiv) / (1 + s.elapsed)
	flux := base * (fluxHealthFloor + s.health/100)
	return math.Round(flux*100) / 100
}
