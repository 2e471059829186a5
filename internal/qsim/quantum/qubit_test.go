package quantum

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewQubitDefaultsToGroundState(t *testing.T) {
	q := NewQubit()
	if q.Alpha != 1 || q.Beta != 0 {
		t.Errorf("Expected |0⟩, got alpha=%v beta=%v", q.Alpha, q.Beta)
	}
}

func TestNewQubitStateNormalizes(t *testing.T) {
	q := NewQubitState(complex(3, 0), complex(4, 0))

	norm := sqAbs(q.Alpha) + sqAbs(q.Beta)
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("Expected unit norm, got %v", norm)
	}
	if math.Abs(q.ProbabilityZero()-0.36) > 1e-9 {
		t.Errorf("Expected P(0)=0.36, got %v", q.ProbabilityZero())
	}
}

func TestNewQubitStateZeroFallsBackToGround(t *testing.T) {
	q := NewQubitState(0, 0)
	if q.Alpha != 1 || q.Beta != 0 {
		t.Errorf("Expected fallback to |0⟩, got alpha=%v beta=%v", q.Alpha, q.Beta)
	}
}

func TestGatesArePure(t *testing.T) {
	q := NewQubit()
	q.Hadamard()
	q.PauliX()
	q.RotateY(math.Pi / 3)

	if q.Alpha != 1 || q.Beta != 0 {
		t.Error("Gate application should not mutate the receiver")
	}
}

func TestHadamardInvolution(t *testing.T) {
	q := NewQubitState(complex(0.6, 0), complex(0.8, 0))
	back := q.Hadamard().Hadamard()

	if cmplx.Abs(back.Alpha-q.Alpha) > 1e-9 || cmplx.Abs(back.Beta-q.Beta) > 1e-9 {
		t.Errorf("Expected H·H to restore the state, got alpha=%v beta=%v", back.Alpha, back.Beta)
	}
}

func TestHadamardCreatesEqualSuperposition(t *testing.T) {
	q := NewQubit().Hadamard()

	if math.Abs(q.ProbabilityZero()-0.5) > 1e-9 {
		t.Errorf("Expected P(0)=0.5 after Hadamard, got %v", q.ProbabilityZero())
	}
}

func TestPauliGates(t *testing.T) {
	// X exchanges the basis amplitudes.
	x := NewQubit().PauliX()
	if x.Alpha != 0 || x.Beta != 1 {
		t.Errorf("Expected X|0⟩ = |1⟩, got alpha=%v beta=%v", x.Alpha, x.Beta)
	}

	// Z negates the |1⟩ phase.
	z := x.PauliZ()
	if z.Beta != -1 {
		t.Errorf("Expected Z|1⟩ = -|1⟩, got beta=%v", z.Beta)
	}

	// Y maps |0⟩ to i|1⟩.
	y := NewQubit().PauliY()
	if y.Alpha != 0 || y.Beta != complex(0, 1) {
		t.Errorf("Expected Y|0⟩ = i|1⟩, got alpha=%v beta=%v", y.Alpha, y.Beta)
	}
}

func TestRotationsPreserveNorm(t *testing.T) {
	angles := []float64{0, math.Pi / 7, math.Pi / 2, math.Pi, 2.5}

	for _, theta := range angles {
		q := NewQubitState(complex(0.6, 0.1), complex(0.6, -0.5))
		for _, rotated := range []Qubit{q.RotateX(theta), q.RotateY(theta), q.RotateZ(theta)} {
			norm := sqAbs(rotated.Alpha) + sqAbs(rotated.Beta)
			if math.Abs(norm-1) > 1e-9 {
				t.Errorf("Rotation by %v broke normalization: %v", theta, norm)
			}
		}
	}
}

func TestRotateYHalfTurnFlipsBit(t *testing.T) {
	q := NewQubit().RotateY(math.Pi)

	if cmplx.Abs(q.Alpha) > 1e-9 || cmplx.Abs(q.Beta-1) > 1e-9 {
		t.Errorf("Expected RY(π)|0⟩ = |1⟩, got alpha=%v beta=%v", q.Alpha, q.Beta)
	}
}

func TestRotateXFullTurnIsGlobalPhase(t *testing.T) {
	// A full 2π rotation returns the state up to a global phase of -1.
	q := NewQubit().RotateX(2 * math.Pi)

	if cmplx.Abs(q.Alpha+1) > 1e-9 || cmplx.Abs(q.Beta) > 1e-9 {
		t.Errorf("Expected alpha=-1 after 2π rotation, got alpha=%v beta=%v", q.Alpha, q.Beta)
	}
}

func TestTGateIsQuarterPhase(t *testing.T) {
	q := NewQubitState(1, 1)

	tq := q.T()
	pq := q.Phase(math.Pi / 4)

	if cmplx.Abs(tq.Beta-pq.Beta) > 1e-12 || cmplx.Abs(tq.Alpha-pq.Alpha) > 1e-12 {
		t.Errorf("Expected T to equal a π/4 phase gate, got beta=%v vs %v", tq.Beta, pq.Beta)
	}

	want := q.Beta * cmplx.Exp(complex(0, math.Pi/4))
	if cmplx.Abs(tq.Beta-want) > 1e-12 {
		t.Errorf("Expected beta=%v, got %v", want, tq.Beta)
	}
}

func TestMeasureCollapsesInPlace(t *testing.T) {
	src := NewSeededSource(7)

	for i := 0; i < 50; i++ {
		q := NewQubit().Hadamard()
		outcome, p := q.MeasureWith(src)

		if math.Abs(p-0.5) > 1e-9 {
			t.Fatalf("Expected reported probability 0.5, got %v", p)
		}
		switch outcome {
		case 0:
			if q.Alpha != 1 || q.Beta != 0 {
				t.Fatal("Outcome 0 should collapse to exact |0⟩")
			}
		case 1:
			if q.Alpha != 0 || q.Beta != 1 {
				t.Fatal("Outcome 1 should collapse to exact |1⟩")
			}
		default:
			t.Fatalf("Unexpected outcome %d", outcome)
		}
	}
}

func TestMeasureWithNilSourceFallsBack(t *testing.T) {
	q := NewQubit()
	outcome, p := q.MeasureWith(nil)

	if outcome != 0 || p != 1 {
		t.Errorf("Expected certain outcome 0 from |0⟩, got (%d, %v)", outcome, p)
	}
}

// TestMeasurementStatistics verifies the outcome frequency converges to
// |alpha|² over many trials.
func TestMeasurementStatistics(t *testing.T) {
	src := NewSeededSource(42)
	const trials = 20000

	zeros := 0
	for i := 0; i < trials; i++ {
		q := NewQubitState(complex(0.6, 0), complex(0.8, 0))
		if outcome, _ := q.MeasureWith(src); outcome == 0 {
			zeros++
		}
	}

	freq := float64(zeros) / trials
	if math.Abs(freq-0.36) > 0.02 {
		t.Errorf("Expected outcome-0 frequency near 0.36, got %.4f", freq)
	}
	t.Logf("Outcome-0 frequency over %d trials: %.4f", trials, freq)
}
