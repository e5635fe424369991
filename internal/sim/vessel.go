// Package sim implements the ultrafiltration simulation core: the particle
// population, the per-frame step function, the membrane fouling model and the
// derived flux metric.
//
// ARCHITECTURAL RULE: this package is PURE. It must NOT import any
// infrastructure packages (network, events, platform). The engine drives it
// and ships its snapshots to collaborators.
package sim

// Vessel geometry, in simulation units. The feed side is everything left of
// the membrane face; permeate collects on the right and drains out at the
// right-side limit.
const (
	VesselWidth  = 600.0
	VesselHeight = 400.0

	// MembraneX is the horizontal position of the membrane face.
	MembraneX = 360.0

	// MembraneProximity is how close a feed particle must get to the
	// membrane face before the permeation decision fires.
	MembraneProximity = 8.0

	// WallMargin keeps freshly generated particles away from the vessel
	// walls. Spawn positions also stay 2x this margin clear of the membrane.
	WallMargin = 40.0

	// boundsInset stops clamped particles from rendering half outside the
	// vessel outline.
	boundsInset = 2.0
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalize maps v from [lo, hi] onto [0, 1], clamping out-of-range input.
func normalize(v, lo, hi float64) float64 {
	return (clamp(v, lo, hi) - lo) / (hi - lo)
}
