package sim

import (
	"math/rand"
	"testing"
)

func TestPopulationSizeScalesWithConcentration(t *testing.T) {
	if got := PopulationSize(MinConcentration); got != 20 {
		t.Errorf("Expected 20 particles at minimum concentration, got %d", got)
	}
	if got := PopulationSize(MaxConcentration); got != 150 {
		t.Errorf("Expected 150 particles at maximum concentration, got %d", got)
	}

	// Linear interpolation at concentration 300: 20 + (200/1400)*130 = 38.57
	if got := PopulationSize(300); got != 39 {
		t.Errorf("Expected 39 particles at concentration 300, got %d", got)
	}

	// Out-of-range input clamps rather than extrapolating.
	if got := PopulationSize(5000); got != 150 {
		t.Errorf("Expected clamped count 150 for concentration 5000, got %d", got)
	}
	if got := PopulationSize(0); got != 20 {
		t.Errorf("Expected clamped count 20 for concentration 0, got %d", got)
	}
}

func TestNewPopulationInitialState(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	particles := NewPopulation(rng, 800, 10)

	if len(particles) != PopulationSize(800) {
		t.Fatalf("Expected %d particles, got %d", PopulationSize(800), len(particles))
	}

	for _, p := range particles {
		if p.Region != RegionFeed {
			t.Errorf("Particle %d: expected region feed, got %s", p.ID, p.Region)
		}
		if p.VX != 0 || p.VY != 0 {
			t.Errorf("Particle %d: expected zero initial velocity, got (%f, %f)", p.ID, p.VX, p.VY)
		}
		if p.Size < 10*(1-sizeSpread) || p.Size > 10*(1+sizeSpread) {
			t.Errorf("Particle %d: size %f outside mean +/- 30%%", p.ID, p.Size)
		}
		if p.X < WallMargin || p.X > MembraneX-2*WallMargin {
			t.Errorf("Particle %d: spawn x=%f outside feed sub-region", p.ID, p.X)
		}
		if p.Y < WallMargin || p.Y > VesselHeight-WallMargin {
			t.Errorf("Particle %d: spawn y=%f outside feed sub-region", p.ID, p.Y)
		}
	}
}

func TestNewPopulationClampsExtremeSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// Mean of 18 can spread up to 23.4; everything must clamp to 20.
	for _, p := range NewPopulation(rng, MaxConcentration, MaxSoluteSize) {
		if p.Size < MinParticleSize || p.Size > MaxParticleSize {
			t.Errorf("Particle %d: size %f outside [%f, %f]", p.ID, p.Size, MinParticleSize, MaxParticleSize)
		}
	}

	// Mean of 6 can spread down to 4.2; still inside the floor, but verify.
	for _, p := range NewPopulation(rng, MinConcentration, MinSoluteSize) {
		if p.Size < MinParticleSize {
			t.Errorf("Particle %d: size %f below floor %f", p.ID, p.Size, MinParticleSize)
		}
	}
}

func TestNewPopulationDeterministicWithSeed(t *testing.T) {
	a := NewPopulation(rand.New(rand.NewSource(99)), 500, 12)
	b := NewPopulation(rand.New(rand.NewSource(99)), 500, 12)

	if len(a) != len(b) {
		t.Fatalf("Expected identical lengths, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Particle %d differs between identically seeded generations: %+v vs %+v", i, a[i], b[i])
		}
	}
}
