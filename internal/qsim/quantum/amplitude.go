package quantum

import "math"

const (
	// normEpsilon is the squared-magnitude threshold below which a state
	// vector is treated as zero.
	normEpsilon = 1e-12

	// invSqrt2 is the Hadamard coefficient 1/√2.
	invSqrt2 = complex(1/math.Sqrt2, 0)
)

// sqAbs returns the squared magnitude |c|² of a complex amplitude.
func sqAbs(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
