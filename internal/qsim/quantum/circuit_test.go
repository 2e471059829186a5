package quantum

import (
	"math"
	"strings"
	"testing"
)

func TestBellPairCircuitMatchesManualGates(t *testing.T) {
	r, _ := BellPairCircuit().Run()
	if r == nil {
		t.Fatal("Expected register from Bell circuit")
	}

	want := 1 / math.Sqrt2
	if math.Abs(real(r.Amplitude(0))-want) > 1e-9 || math.Abs(real(r.Amplitude(3))-want) > 1e-9 {
		t.Errorf("Bell circuit amplitudes wrong: %v", r.Amplitudes())
	}
	if r.Amplitude(1) != 0 || r.Amplitude(2) != 0 {
		t.Error("Expected zero amplitude at indices 1 and 2")
	}
}

func TestCircuitRejectsBadOperands(t *testing.T) {
	c := NewCircuit(2)
	c.Hadamard(5)
	c.CNOT(0, 9)
	c.Hadamard(0)

	if got := len(c.Operations()); got != 1 {
		t.Errorf("Expected 1 accepted operation, got %d", got)
	}
}

func TestNewCircuitRejectsBadCounts(t *testing.T) {
	if NewCircuit(0) != nil {
		t.Error("Expected nil circuit for zero qubits")
	}
	if NewCircuit(MaxRegisterQubits+1) != nil {
		t.Error("Expected nil circuit above the register cap")
	}
	if GHZCircuit(1) != nil {
		t.Error("Expected nil GHZ circuit below 2 qubits")
	}
}

func TestCircuitMeasurementOutcomes(t *testing.T) {
	c := NewCircuit(2).PauliX(0).Measure(0).Measure(1)

	r := NewRegister(2)
	r.SetRandomSource(NewSeededSource(1))
	outcomes := c.RunOn(r)

	if len(outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0] != 1 || outcomes[1] != 0 {
		t.Errorf("Expected outcomes [1 0], got %v", outcomes)
	}
}

func TestQASMRendering(t *testing.T) {
	c := NewCircuit(2).
		Hadamard(0).
		CNOT(0, 1).
		ControlledPhase(0, 1, 0.5).
		Measure(0).
		Measure(1)

	qasm := c.QASM()
	wantLines := []string{
		"OPENQASM 2.0;",
		"include \"qelib1.inc\";",
		"qreg q[2];",
		"creg c[2];",
		"h q[0];",
		"cx q[0],q[1];",
		"cu1(0.5) q[0],q[1];",
		"measure q[0] -> c[0];",
		"measure q[1] -> c[1];",
	}
	for _, line := range wantLines {
		if !strings.Contains(qasm, line) {
			t.Errorf("QASM output missing %q:\n%s", line, qasm)
		}
	}
}

func TestGHZCircuitProducesSharedSuperposition(t *testing.T) {
	r, _ := GHZCircuit(4).Run()

	want := 1 / math.Sqrt2
	if math.Abs(real(r.Amplitude(0))-want) > 1e-9 {
		t.Errorf("Expected %v at index 0, got %v", want, r.Amplitude(0))
	}
	last := r.Size() - 1
	if math.Abs(real(r.Amplitude(last))-want) > 1e-9 {
		t.Errorf("Expected %v at index %d, got %v", want, last, r.Amplitude(last))
	}
	if math.Abs(totalProbability(r)-1) > 1e-9 {
		t.Error("GHZ state not normalized")
	}
}

func TestNilCircuitIsSafe(t *testing.T) {
	var c *Circuit
	c = c.Hadamard(0).CNOT(0, 1)
	if c != nil {
		t.Error("Builder on nil circuit should stay nil")
	}
	if c.QASM() != "" {
		t.Error("Expected empty QASM from nil circuit")
	}
	if r, outcomes := c.Run(); r != nil || outcomes != nil {
		t.Error("Expected nil results from nil circuit run")
	}
	if c.Qubits() != 0 || c.Operations() != nil {
		t.Error("Expected zero values from nil circuit accessors")
	}
}
