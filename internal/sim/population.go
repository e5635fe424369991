package sim

import (
	"math"
	"math/rand"
)

const (
	basePopulation = 20
	populationSpan = 130

	// sizeSpread is the uniform spread around the mean solute size: each
	// particle lands within mean +/- 30% of mean.
	sizeSpread = 0.3
)

// PopulationSize returns the particle count for a feed concentration.
// Count scales linearly from 20 at the minimum concentration to 150 at the
// maximum.
func PopulationSize(concentration float64) int {
	n := normalize(concentration, MinConcentration, MaxConcentration)
	return int(math.Round(basePopulation + n*populationSpan))
}

// NewPopulation generates a fresh particle population for the given feed
// concentration and mean solute size. Particles spawn in the feed sub-region
// away from the walls and the membrane, at rest, with sizes drawn uniformly
// around the mean and clamped to [MinParticleSize, MaxParticleSize].
func NewPopulation(rng *rand.Rand, concentration, meanSize float64) []Particle {
	count := PopulationSize(concentration)
	particles := make([]Particle, count)
	for i := range particles {
		size := meanSize * (1 + (rng.Float64()*2-1)*sizeSpread)
		x, y := feedSpawn(rng)
		particles[i] = Particle{
			ID:     i,
			X:      x,
			Y:      y,
			Size:   clamp(size, MinParticleSize, MaxParticleSize),
			Region: RegionFeed,
		}
	}
	return particles
}

// feedSpawn picks a random point in the feed sub-region: clear of the left
// wall by WallMargin and of the membrane face by twice that.
func feedSpawn(rng *rand.Rand) (x, y float64) {
	x = WallMargin + rng.Float64()*(MembraneX-3*WallMargin)
	y = WallMargin + rng.Float64()*(VesselHeight-2*WallMargin)
	return x, y
}
