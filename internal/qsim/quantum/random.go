package quantum

import "math/rand"

// Source supplies the uniform random draws that drive measurement
// collapse. *rand.Rand satisfies it, so callers can inject a seeded
// generator for reproducible runs.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// processSource delegates to the package-level math/rand generator,
// which is seeded once per process and safe for concurrent use.
type processSource struct{}

func (processSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns the shared process-wide random source. Qubits
// and registers fall back to it when no source has been injected.
func DefaultSource() Source { return processSource{} }

// NewSeededSource returns a deterministic random source for tests and
// reproducible simulations. It is not safe for concurrent use.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
