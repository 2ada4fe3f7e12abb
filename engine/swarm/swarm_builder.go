package swarm

import "github.com/Carmen-Shannon/anima/engine/particle"

// SimulatorBuilderOption is a functional option for configuring a Simulator.
type SimulatorBuilderOption func(*simulatorImpl)

// WithWorkers sets the number of pool workers used for the per-particle pass.
// Values below 2 keep the pass on the calling goroutine.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - SimulatorBuilderOption: functional option to set the worker count
func WithWorkers(n int) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		s.workers = max(n, 1)
	}
}

// WithConfig overrides the field's tunables for the simulation. Zero fields take their defaults.
//
// Parameters:
//   - cfg: repel, return and drift tunables
//
// Returns:
//   - SimulatorBuilderOption: functional option to set the configuration
func WithConfig(cfg particle.Config) SimulatorBuilderOption {
	return func(s *simulatorImpl) {
		s.config = cfg
	}
}
