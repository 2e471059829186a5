package qsim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qusimlab/qusim/internal/models/sim"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
	"gopkg.in/yaml.v3"
)

// LoadCircuitFile reads a circuit description from disk. Files ending in
// .json are decoded as JSON; everything else is treated as YAML.
func LoadCircuitFile(path string) (*sim.CircuitFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read circuit file: %w", err)
	}

	var file sim.CircuitFile
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse circuit file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse circuit file: %w", err)
		}
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}

	return &file, nil
}

// CompileCircuit turns a validated circuit file into an executable circuit
func CompileCircuit(file *sim.CircuitFile) (*quantum.Circuit, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}

	circuit := quantum.NewCircuit(file.Qubits)
	for _, op := range file.Ops {
		q := op.Qubits

		switch op.Gate {
		case quantum.GateHadamard:
			circuit.Hadamard(q[0])
		case quantum.GatePauliX:
			circuit.PauliX(q[0])
		case quantum.GateCNOT:
			circuit.CNOT(q[0], q[1])
		case quantum.GateCZ:
			circuit.CZ(q[0], q[1])
		case quantum.GateToffoli:
			circuit.Toffoli(q[0], q[1], q[2])
		case quantum.GateSwap:
			circuit.Swap(q[0], q[1])
		case quantum.GateControlledPhase:
			circuit.ControlledPhase(q[0], q[1], op.Angle)
		case quantum.GateMeasure:
			circuit.Measure(q[0])
		}
	}

	return circuit, nil
}
