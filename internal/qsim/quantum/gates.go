package quantum

import "math/cmplx"

// ApplyHadamard applies the Hadamard gate to qubit q, mixing each
// paired amplitude set (a0, a1) into ((a0+a1)/√2, (a0−a1)/√2).
// Invalid input is a silent no-op.
func (r *Register) ApplyHadamard(q int) {
	if !r.validTarget(q) {
		return
	}
	mask := 1 << q
	for base := 0; base < len(r.amps); base += 2 * mask {
		for off := 0; off < mask; off++ {
			i0 := base + off
			i1 := i0 + mask
			a0, a1 := r.amps[i0], r.amps[i1]
			r.amps[i0] = (a0 + a1) * invSqrt2
			r.amps[i1] = (a0 - a1) * invSqrt2
		}
	}
}

// ApplyPauliX applies the NOT gate to qubit q, swapping every pair of
// amplitudes that differ only in bit q.
func (r *Register) ApplyPauliX(q int) {
	if !r.validTarget(q) {
		return
	}
	mask := 1 << q
	for base := 0; base < len(r.amps); base += 2 * mask {
		for off := 0; off < mask; off++ {
			i0 := base + off
			i1 := i0 + mask
			r.amps[i0], r.amps[i1] = r.amps[i1], r.amps[i0]
		}
	}
}

// ApplyCNOT flips the target qubit in every basis state where the
// control qubit is set. Applying it twice restores the original state.
func (r *Register) ApplyCNOT(control, target int) {
	if !r.validTarget(control) || !r.validTarget(target) {
		return
	}
	cm, tm := 1<<control, 1<<target
	for i := range r.amps {
		// Visit each swapped pair once, from its target-clear side.
		if i&cm != 0 && i&tm == 0 {
			j := i | tm
			r.amps[i], r.amps[j] = r.amps[j], r.amps[i]
		}
	}
}

// ApplyCZ negates the amplitude of every basis state where both the
// control and target qubits are set.
func (r *Register) ApplyCZ(control, target int) {
	if !r.validTarget(control) || !r.validTarget(target) {
		return
	}
	both := 1<<control | 1<<target
	for i := range r.amps {
		if i&both == both {
			r.amps[i] = -r.amps[i]
		}
	}
}

// ApplyToffoli flips the target qubit in every basis state where both
// control qubits are set.
func (r *Register) ApplyToffoli(control1, control2, target int) {
	if !r.validTarget(control1) || !r.validTarget(control2) || !r.validTarget(target) {
		return
	}
	controls := 1<<control1 | 1<<control2
	tm := 1 << target
	for i := range r.amps {
		if i&controls == controls && i&tm == 0 {
			j := i | tm
			r.amps[i], r.amps[j] = r.amps[j], r.amps[i]
		}
	}
}

// ApplySwap exchanges qubits a and b by swapping the amplitudes of
// every pair of basis states where the two bits differ.
func (r *Register) ApplySwap(a, b int) {
	if !r.validTarget(a) || !r.validTarget(b) {
		return
	}
	am, bm := 1<<a, 1<<b
	pair := am | bm
	for i := range r.amps {
		if bitA, bitB := i&am != 0, i&bm != 0; bitA != bitB {
			// Each unordered pair shows up twice; act on the lower index.
			if j := i ^ pair; i < j {
				r.amps[i], r.amps[j] = r.amps[j], r.amps[i]
			}
		}
	}
}

// ApplyControlledPhase rotates the phase of every basis state where
// both the control and target qubits are set by phi radians.
func (r *Register) ApplyControlledPhase(control, target int, phi float64) {
	if !r.validTarget(control) || !r.validTarget(target) {
		return
	}
	both := 1<<control | 1<<target
	phase := cmplx.Exp(complex(0, phi))
	for i := range r.amps {
		if i&both == both {
			r.amps[i] *= phase
		}
	}
}
