package sim

// CircuitOp is one gate or measurement in a circuit file
type CircuitOp struct {
	Gate   string  `json:"gate" yaml:"gate"`
	Qubits []int   `json:"qubits" yaml:"qubits"`
	Angle  float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
}

// CircuitFile is the on-disk circuit description accepted by the batch
// runner and the CLI
type CircuitFile struct {
	Name   string      `json:"name,omitempty" yaml:"name,omitempty"`
	Qubits int         `json:"qubits" yaml:"qubits"`
	Seed   *int64      `json:"seed,omitempty" yaml:"seed,omitempty"`
	Ops    []CircuitOp `json:"ops" yaml:"ops"`
}

// CircuitRunRequest is the payload for running operations on a live session
type CircuitRunRequest struct {
	Ops []CircuitOp `json:"ops"`
}

// Validate validates a circuit file before compilation
func (f *CircuitFile) Validate() error {
	if f.Qubits < 1 || f.Qubits > MaxQubits {
		return ErrInvalidQubitCount
	}

	if len(f.Ops) == 0 {
		return ErrEmptyCircuit
	}

	for _, op := range f.Ops {
		// Measurement is a circuit-file construct, not a gate, so it is
		// checked here rather than through the gate table.
		if op.Gate == "measure" {
			if len(op.Qubits) != 1 {
				return ErrWrongOperandCount
			}

			if op.Qubits[0] < 0 || op.Qubits[0] >= f.Qubits {
				return ErrInvalidQubitIndex
			}

			continue
		}

		req := GateRequest{Gate: op.Gate, Qubits: op.Qubits, Angle: op.Angle}
		if err := req.Validate(); err != nil {
			return err
		}

		for _, q := range op.Qubits {
			if q >= f.Qubits {
				return ErrInvalidQubitIndex
			}
		}
	}

	return nil
}
