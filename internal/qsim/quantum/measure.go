package quantum

import "math"

// Measure collapses qubit q to a definite value. It sums the squared
// magnitudes over every basis index with bit q clear to obtain the
// probability of reading 0, draws one uniform sample against it, zeroes
// the losing branch, and rescales the surviving amplitudes back to unit
// norm. It returns the observed bit and the probability that outcome
// carried before the collapse. The surviving branch must carry nonzero
// probability for the renormalization to be meaningful. Invalid input
// returns the sentinel (-1, 0).
func (r *Register) Measure(q int) (int, float64) {
	if !r.validTarget(q) {
		return -1, 0
	}
	mask := 1 << q

	p0 := 0.0
	for i, a := range r.amps {
		if i&mask == 0 {
			p0 += sqAbs(a)
		}
	}

	outcome := 1
	p := 1 - p0
	if r.source().Float64() < p0 {
		outcome = 0
		p = p0
	}

	// Zero the branch that lost the draw, rescale the one that won.
	keep := mask
	if outcome == 0 {
		keep = 0
	}
	scale := complex(1/math.Sqrt(p), 0)
	for i := range r.amps {
		if i&mask == keep {
			r.amps[i] *= scale
		} else {
			r.amps[i] = 0
		}
	}
	return outcome, p
}

// MeasureAll measures every qubit in index order, collapsing the
// register to a single basis state, and returns the observed bits.
func (r *Register) MeasureAll() []int {
	if r == nil || r.amps == nil {
		return nil
	}
	outcomes := make([]int, r.qubits)
	for q := range outcomes {
		outcomes[q], _ = r.Measure(q)
	}
	return outcomes
}
