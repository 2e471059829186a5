package quantum

// MaxRegisterQubits caps register construction. A 24-qubit register
// already needs 256 MB of amplitude storage; NewRegister rejects
// larger counts.
const MaxRegisterQubits = 24

// Register holds the joint state of n qubits as a vector of 2^n complex
// amplitudes. Bit k of a basis index is the classical value of qubit k.
// A register is not safe for concurrent use; callers sharing one across
// goroutines must synchronize externally.
type Register struct {
	qubits int
	amps   []complex128
	src    Source
}

// NewRegister creates a register of the given qubit count initialized
// to the all-zero basis state |0…0⟩. It returns nil when the count is
// less than 1 or exceeds MaxRegisterQubits.
func NewRegister(qubits int) *Register {
	if qubits < 1 || qubits > MaxRegisterQubits {
		return nil
	}
	amps := make([]complex128, 1<<qubits)
	amps[0] = 1
	return &Register{qubits: qubits, amps: amps}
}

// Qubits returns the number of qubits in the register.
func (r *Register) Qubits() int {
	if r == nil {
		return 0
	}
	return r.qubits
}

// Size returns the number of basis states, 2^n.
func (r *Register) Size() int {
	if r == nil {
		return 0
	}
	return len(r.amps)
}

// Amplitude returns the amplitude at one basis index, or 0 when the
// register or index is invalid.
func (r *Register) Amplitude(i int) complex128 {
	if r == nil || r.amps == nil || i < 0 || i >= len(r.amps) {
		return 0
	}
	return r.amps[i]
}

// Amplitudes returns a defensive copy of the amplitude vector.
// Mutating the copy does not affect the register.
func (r *Register) Amplitudes() []complex128 {
	if r == nil || r.amps == nil {
		return nil
	}
	out := make([]complex128, len(r.amps))
	copy(out, r.amps)
	return out
}

// Probabilities returns the squared magnitude of every amplitude.
func (r *Register) Probabilities() []float64 {
	if r == nil || r.amps == nil {
		return nil
	}
	out := make([]float64, len(r.amps))
	for i, a := range r.amps {
		out[i] = sqAbs(a)
	}
	return out
}

// Reset restores the all-zero basis state without reallocating.
func (r *Register) Reset() {
	if r == nil || r.amps == nil {
		return
	}
	clear(r.amps)
	r.amps[0] = 1
}

// Release drops the amplitude storage. Every subsequent operation on
// the register is a silent no-op.
func (r *Register) Release() {
	if r == nil {
		return
	}
	r.amps = nil
}

// SetRandomSource injects the random source used by measurements on
// this register. A nil source restores the process-wide default.
func (r *Register) SetRandomSource(src Source) {
	if r == nil {
		return
	}
	r.src = src
}

// source resolves the register's random source, falling back to the
// process-wide default at the point of use.
func (r *Register) source() Source {
	if r.src != nil {
		return r.src
	}
	return DefaultSource()
}

// validTarget reports whether the register is usable and q names one of
// its qubits.
func (r *Register) validTarget(q int) bool {
	return r != nil && r.amps != nil && q >= 0 && q < r.qubits
}
