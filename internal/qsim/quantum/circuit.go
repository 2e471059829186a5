package quantum

import (
	"fmt"
	"strings"
)

// Gate names shared by circuits and the service API.
const (
	GateHadamard        = "h"
	GatePauliX          = "x"
	GateCNOT            = "cnot"
	GateCZ              = "cz"
	GateToffoli         = "ccx"
	GateSwap            = "swap"
	GateControlledPhase = "cphase"
	GateMeasure         = "measure"
)

// Operation is one gate application within a circuit.
type Operation struct {
	// Gate is one of the Gate* names above.
	Gate string `json:"gate"`
	// Qubits lists the operand qubit indices, controls before targets.
	Qubits []int `json:"qubits"`
	// Angle is the rotation angle in radians for parameterized gates.
	Angle float64 `json:"angle,omitempty"`
}

// Circuit is an ordered gate program bound to a fixed qubit count.
// Operations are appended through the typed builder methods, which
// silently drop any operation naming a qubit outside the register.
type Circuit struct {
	qubits int
	ops    []Operation
}

// NewCircuit creates an empty circuit over the given number of qubits.
// It returns nil when the count is less than 1 or exceeds
// MaxRegisterQubits.
func NewCircuit(qubits int) *Circuit {
	if qubits < 1 || qubits > MaxRegisterQubits {
		return nil
	}
	return &Circuit{qubits: qubits}
}

// Qubits returns the circuit's qubit count.
func (c *Circuit) Qubits() int {
	if c == nil {
		return 0
	}
	return c.qubits
}

// Operations returns a copy of the gate program in append order.
func (c *Circuit) Operations() []Operation {
	if c == nil {
		return nil
	}
	out := make([]Operation, len(c.ops))
	copy(out, c.ops)
	return out
}

// add appends an operation after checking its operands.
func (c *Circuit) add(gate string, angle float64, qubits ...int) *Circuit {
	if c == nil {
		return nil
	}
	for _, q := range qubits {
		if q < 0 || q >= c.qubits {
			return c
		}
	}
	c.ops = append(c.ops, Operation{Gate: gate, Qubits: qubits, Angle: angle})
	return c
}

// Hadamard appends a Hadamard gate on qubit q.
func (c *Circuit) Hadamard(q int) *Circuit {
	return c.add(GateHadamard, 0, q)
}

// PauliX appends a NOT gate on qubit q.
func (c *Circuit) PauliX(q int) *Circuit {
	return c.add(GatePauliX, 0, q)
}

// CNOT appends a controlled-NOT gate.
func (c *Circuit) CNOT(control, target int) *Circuit {
	return c.add(GateCNOT, 0, control, target)
}

// CZ appends a controlled-Z gate.
func (c *Circuit) CZ(control, target int) *Circuit {
	return c.add(GateCZ, 0, control, target)
}

// Toffoli appends a doubly controlled NOT gate.
func (c *Circuit) Toffoli(control1, control2, target int) *Circuit {
	return c.add(GateToffoli, 0, control1, control2, target)
}

// Swap appends a SWAP gate.
func (c *Circuit) Swap(a, b int) *Circuit {
	return c.add(GateSwap, 0, a, b)
}

// ControlledPhase appends a phase rotation of phi radians applied where
// both operands are set.
func (c *Circuit) ControlledPhase(control, target int, phi float64) *Circuit {
	return c.add(GateControlledPhase, phi, control, target)
}

// Measure appends a measurement of qubit q.
func (c *Circuit) Measure(q int) *Circuit {
	return c.add(GateMeasure, 0, q)
}

// RunOn applies the circuit to an existing register and returns the
// measurement outcomes in program order.
func (c *Circuit) RunOn(r *Register) []int {
	if c == nil || r == nil {
		return nil
	}
	var outcomes []int
	for _, op := range c.ops {
		switch op.Gate {
		case GateHadamard:
			r.ApplyHadamard(op.Qubits[0])
		case GatePauliX:
			r.ApplyPauliX(op.Qubits[0])
		case GateCNOT:
			r.ApplyCNOT(op.Qubits[0], op.Qubits[1])
		case GateCZ:
			r.ApplyCZ(op.Qubits[0], op.Qubits[1])
		case GateToffoli:
			r.ApplyToffoli(op.Qubits[0], op.Qubits[1], op.Qubits[2])
		case GateSwap:
			r.ApplySwap(op.Qubits[0], op.Qubits[1])
		case GateControlledPhase:
			r.ApplyControlledPhase(op.Qubits[0], op.Qubits[1], op.Angle)
		case GateMeasure:
			outcome, _ := r.Measure(op.Qubits[0])
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

// Run applies the circuit to a fresh register and returns the register
// together with the measurement outcomes in program order.
func (c *Circuit) Run() (*Register, []int) {
	if c == nil {
		return nil, nil
	}
	r := NewRegister(c.qubits)
	return r, c.RunOn(r)
}

// QASM renders the circuit as OpenQASM 2.0 source, the exchange format
// understood by common circuit tools.
func (c *Circuit) QASM() string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.qubits)
	fmt.Fprintf(&sb, "creg c[%d];\n", c.qubits)
	sb.WriteString("\n")
	for _, op := range c.ops {
		switch op.Gate {
		case GateHadamard:
			fmt.Fprintf(&sb, "h q[%d];\n", op.Qubits[0])
		case GatePauliX:
			fmt.Fprintf(&sb, "x q[%d];\n", op.Qubits[0])
		case GateCNOT:
			fmt.Fprintf(&sb, "cx q[%d],q[%d];\n", op.Qubits[0], op.Qubits[1])
		case GateCZ:
			fmt.Fprintf(&sb, "cz q[%d],q[%d];\n", op.Qubits[0], op.Qubits[1])
		case GateToffoli:
			fmt.Fprintf(&sb, "ccx q[%d],q[%d],q[%d];\n", op.Qubits[0], op.Qubits[1], op.Qubits[2])
		case GateSwap:
			fmt.Fprintf(&sb, "swap q[%d],q[%d];\n", op.Qubits[0], op.Qubits[1])
		case GateControlledPhase:
			fmt.Fprintf(&sb, "cu1(%g) q[%d],q[%d];\n", op.Angle, op.Qubits[0], op.Qubits[1])
		case GateMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", op.Qubits[0], op.Qubits[0])
		}
	}
	return sb.String()
}

// BellPairCircuit returns the two-qubit circuit preparing the Bell
// state |Φ+⟩ = (|00⟩ + |11⟩)/√2.
func BellPairCircuit() *Circuit {
	return NewCircuit(2).Hadamard(0).CNOT(0, 1)
}

// GHZCircuit returns a circuit preparing the n-qubit GHZ state
// (|0…0⟩ + |1…1⟩)/√2. It returns nil for counts below 2.
func GHZCircuit(qubits int) *Circuit {
	if qubits < 2 {
		return nil
	}
	c := NewCircuit(qubits)
	if c == nil {
		return nil
	}
	c.Hadamard(0)
	for q := 1; q < qubits; q++ {
		c.CNOT(0, q)
	}
	return c
}
