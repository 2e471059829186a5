package quantum

import (
	"math"
	"math/cmplx"
)

// Qubit is a standalone two-level quantum state |ψ⟩ = α|0⟩ + β|1⟩,
// independent of any register. Gate methods are pure: they return the
// transformed state and leave the receiver untouched. Measurement is
// the one exception and collapses the qubit in place.
type Qubit struct {
	// Alpha is the amplitude of the |0⟩ basis state.
	Alpha complex128
	// Beta is the amplitude of the |1⟩ basis state.
	Beta complex128
}

// NewQubit returns a qubit in the ground state |0⟩.
func NewQubit() Qubit {
	return Qubit{Alpha: 1}
}

// NewQubitState returns a qubit with the given amplitudes normalized so
// that |α|² + |β|² = 1. A zero state vector falls back to |0⟩.
func NewQubitState(alpha, beta complex128) Qubit {
	norm := sqAbs(alpha) + sqAbs(beta)
	if norm < normEpsilon {
		return NewQubit()
	}
	scale := complex(1/math.Sqrt(norm), 0)
	return Qubit{Alpha: alpha * scale, Beta: beta * scale}
}

// Hadamard maps |0⟩ to (|0⟩+|1⟩)/√2 and |1⟩ to (|0⟩−|1⟩)/√2.
func (q Qubit) Hadamard() Qubit {
	return Qubit{
		Alpha: (q.Alpha + q.Beta) * invSqrt2,
		Beta:  (q.Alpha - q.Beta) * invSqrt2,
	}
}

// PauliX is the quantum NOT gate: it exchanges the basis amplitudes.
func (q Qubit) PauliX() Qubit {
	return Qubit{Alpha: q.Beta, Beta: q.Alpha}
}

// PauliY applies a bit flip combined with a phase flip.
func (q Qubit) PauliY() Qubit {
	return Qubit{
		Alpha: complex(0, -1) * q.Beta,
		Beta:  complex(0, 1) * q.Alpha,
	}
}

// PauliZ negates the phase of the |1⟩ component.
func (q Qubit) PauliZ() Qubit {
	return Qubit{Alpha: q.Alpha, Beta: -q.Beta}
}

// RotateX rotates the state by theta radians around the X axis of the
// Bloch sphere.
func (q Qubit) RotateX(theta float64) Qubit {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Qubit{
		Alpha: c*q.Alpha + s*q.Beta,
		Beta:  s*q.Alpha + c*q.Beta,
	}
}

// RotateY rotates the state by theta radians around the Y axis.
func (q Qubit) RotateY(theta float64) Qubit {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Qubit{
		Alpha: c*q.Alpha - s*q.Beta,
		Beta:  s*q.Alpha + c*q.Beta,
	}
}

// RotateZ rotates the state by theta radians around the Z axis.
func (q Qubit) RotateZ(theta float64) Qubit {
	return Qubit{
		Alpha: q.Alpha * cmplx.Exp(complex(0, -theta/2)),
		Beta:  q.Beta * cmplx.Exp(complex(0, theta/2)),
	}
}

// Phase shifts the phase of the |1⟩ component by phi radians.
func (q Qubit) Phase(phi float64) Qubit {
	return Qubit{Alpha: q.Alpha, Beta: q.Beta * cmplx.Exp(complex(0, phi))}
}

// T applies the fixed π/4 phase gate.
func (q Qubit) T() Qubit {
	return q.Phase(math.Pi / 4)
}

// ProbabilityZero returns the probability of observing |0⟩.
func (q Qubit) ProbabilityZero() float64 {
	return sqAbs(q.Alpha)
}

// Measure collapses the qubit in place using the process-wide random
// source. It returns the observed bit and the probability that outcome
// carried before the collapse.
func (q *Qubit) Measure() (int, float64) {
	return q.MeasureWith(DefaultSource())
}

// MeasureWith collapses the qubit in place using the supplied random
// source. A nil source falls back to the process-wide one.
func (q *Qubit) MeasureWith(src Source) (int, float64) {
	if src == nil {
		src = DefaultSource()
	}
	p0 := sqAbs(q.Alpha)
	if src.Float64() < p0 {
		q.Alpha, q.Beta = 1, 0
		return 0, p0
	}
	q.Alpha, q.Beta = 0, 1
	return 1, 1 - p0
}
