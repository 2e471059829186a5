package quantum

import (
	"math"
	"math/cmplx"
)

// eigenFloor is the eigenvalue below which a contribution to the
// entropy sum is treated as zero rather than fed to log2.
const eigenFloor = 1e-10

// Entanglement quantifies how entangled qubit a is with the rest of the
// register, scanned pairwise with qubit b. Over all basis-index pairs
// that agree on every bit other than a and b it accumulates amplitude
// cross-products binned by the two qubits' joint value, folds the
// result onto a 2×2 reduced matrix, and returns that matrix's von
// Neumann entropy normalized to [0, 1]: 0 for a product state, 1 for a
// maximally entangled pair. Invalid input returns 0.
func (r *Register) Entanglement(a, b int) float64 {
	if !r.validTarget(a) || !r.validTarget(b) || a == b {
		return 0
	}
	am, bm := 1<<a, 1<<b
	pair := am | bm

	// Basis-index offsets for the four joint values of (a, b), ordered
	// as bitA | bitB<<1.
	offs := [4]int{0, am, bm, am | bm}

	var joint [4][4]complex128
	for base := 0; base < len(r.amps); base++ {
		if base&pair != 0 {
			continue
		}
		for v := 0; v < 4; v++ {
			av := r.amps[base|offs[v]]
			if av == 0 {
				continue
			}
			for w := 0; w < 4; w++ {
				joint[v][w] += av * cmplx.Conj(r.amps[base|offs[w]])
			}
		}
	}

	// Fold the joint matrix onto qubit a's two states.
	var rho [2][2]complex128
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			rho[x][y] = joint[x][y] + joint[x|2][y|2]
		}
	}

	// Closed-form eigenvalues via the 2×2 characteristic polynomial.
	tr := real(rho[0][0]) + real(rho[1][1])
	det := real(rho[0][0]*rho[1][1] - rho[0][1]*rho[1][0])
	disc := tr*tr - 4*det
	l1, l2 := tr/2, tr/2
	if disc > 0 {
		root := math.Sqrt(disc)
		l1, l2 = (tr+root)/2, (tr-root)/2
	}

	entropy := 0.0
	for _, l := range [2]float64{l1, l2} {
		if l > eigenFloor {
			entropy -= l * math.Log2(l)
		}
	}
	// A two-state spectrum carries at most one bit of entropy.
	if entropy < 0 {
		return 0
	}
	if entropy > 1 {
		return 1
	}
	return entropy
}
