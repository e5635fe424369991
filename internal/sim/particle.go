package sim

// Region identifies where a particle sits relative to the membrane.
type Region string

const (
	RegionFeed      Region = "feed"      // Bulk unfiltered solution
	RegionRetentate Region = "retentate" // Rejected solute skimming the membrane
	RegionPermeate  Region = "permeate"  // Solute that passed through a pore
)

// Particle is a single solute particle. Size is fixed at creation and decides
// the permeation outcome against the configured pore size; Region transitions
// follow the membrane state machine in Step.
type Particle struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Size   float64 `json:"size"`
	Region Region  `json:"region"`
}
