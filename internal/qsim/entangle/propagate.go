package entangle

import (
	"math"

	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

// Strength thresholds separating the propagation tiers.
const (
	// TierCNOT is the strength above which propagation applies a CNOT.
	TierCNOT = 0.8
	// TierCZ is the strength above which propagation applies a CZ.
	TierCZ = 0.5
	// TierPhase is the strength above which propagation applies a
	// partial phase rotation of strength·π radians.
	TierPhase = 0.2
)

// Propagate pushes the effect of a change to one qubit onto its
// declared partners. For every link touching changed, the far endpoint
// receives a corrective gate picked by the link strength s:
//
//	s > 0.8        controlled-NOT from changed to the partner
//	0.5 < s ≤ 0.8  controlled-Z
//	0.2 < s ≤ 0.5  controlled phase rotation of s·π radians
//	s ≤ 0.2        nothing
//
// The rule is a deterministic correlation-maintenance heuristic, not a
// physical law. The applied gates all condition on the changed qubit
// and touch distinct partners, so they commute and link order does not
// matter. Nil arguments are silent no-ops.
func Propagate(g *Graph, r *quantum.Register, changed int) {
	if g == nil || r == nil {
		return
	}
	for _, l := range g.links {
		if l.A != changed && l.B != changed {
			continue
		}
		other := l.A
		if other == changed {
			other = l.B
		}
		switch s := l.Strength; {
		case s > TierCNOT:
			r.ApplyCNOT(changed, other)
		case s > TierCZ:
			r.ApplyCZ(changed, other)
		case s > TierPhase:
			r.ApplyControlledPhase(changed, other, s*math.Pi)
		}
	}
}

// TierLabel names the propagation tier a strength falls into, for
// display and event reporting.
func TierLabel(s float64) string {
	switch {
	case s > TierCNOT:
		return "cnot"
	case s > TierCZ:
		return "cz"
	case s > TierPhase:
		return "phase"
	default:
		return "none"
	}
}
