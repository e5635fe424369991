package sim

// Control input ranges. The controlling interface (sliders) is expected to
// stay inside these, but every setter clamps anyway.
const (
	MinPressure = 0.0
	MaxPressure = 100.0

	MinPoreSize = 6.0
	MaxPoreSize = 18.0

	MinSoluteSize = 6.0
	MaxSoluteSize = 18.0

	MinConcentration = 100.0
	MaxConcentration = 1500.0

	MinStirRate = 0.0
	MaxStirRate = 100.0

	// Individual particle radii are drawn around MeanSoluteSize but never
	// leave this range.
	MinParticleSize = 4.0
	MaxParticleSize = 20.0
)

// Params holds the five user-adjustable control inputs.
type Params struct {
	Pressure          float64 `json:"pressure"`           // Transmembrane pressure (TMP)
	PoreSize          float64 `json:"pore_size"`          // Membrane pore radius
	MeanSoluteSize    float64 `json:"mean_solute_size"`   // Mean particle radius at generation
	FeedConcentration float64 `json:"feed_concentration"` // Drives population size
	StirRate          float64 `json:"stir_rate"`          // Vertical agitation strength
}

// DefaultParams returns mid-range starting values for a fresh run.
func DefaultParams() Params {
	return Params{
		Pressure:          50,
		PoreSize:          12,
		MeanSoluteSize:    10,
		FeedConcentration: 500,
		StirRate:          40,
	}
}

// Clamped returns a copy of p with every field forced into its valid range.
func (p Params) Clamped() Params {
	p.Pressure = clamp(p.Pressure, MinPressure, MaxPressure)
	p.PoreSize = clamp(p.PoreSize, MinPoreSize, MaxPoreSize)
	p.MeanSoluteSize = clamp(p.MeanSoluteSize, MinSoluteSize, MaxSoluteSize)
	p.FeedConcentration = clamp(p.FeedConcentration, MinConcentration, MaxConcentration)
	p.StirRate = clamp(p.StirRate, MinStirRate, MaxStirRate)
	return p
}
