package sim

// FrameState is the per-frame view of the simulation handed to collaborators
// (the websocket hub, the REST bridge). It is a value copy: the network layer
// may serialize it on another goroutine while the engine keeps stepping.
type FrameState struct {
	Particles      []Particle `json:"particles"`
	Params         Params     `json:"params"`
	ElapsedTime    float64    `json:"elapsed_time"`
	MembraneHealth float64    `json:"membrane_health"`
	Flux           float64    `json:"flux"`
	PermeateCount  int        `json:"permeate_count"`
	Running        bool       `json:"running"`
}

// Snapshot copies the current state into a FrameState.
func (s *Simulation) Snapshot() FrameState {
	particles := make([]Particle, len(s.particles))
	copy(particles, s.particles)

	return FrameState{
		Particles:      particles,
		Params:         s.params,
		ElapsedTime:    s.elapsed,
		MembraneHealth: s.health,
		Flux:           s.Flux(),
		PermeateCount:  s.PermeateCount(),
		Running:        s.running,
	}
}
