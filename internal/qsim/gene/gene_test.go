package gene

import (
	"math"
	"testing"

	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

func TestNewGene(t *testing.T) {
	g := NewGene("pigment", 1, 2)

	if g.Name != "pigment" || g.X != 1 || g.Y != 2 {
		t.Errorf("gene = %+v", g)
	}
	if g.Metadata == nil {
		t.Error("metadata map was not initialized")
	}
	if len(g.TraitNames()) != 0 {
		t.Error("new gene already has traits")
	}
}

func TestTraitRegistrationKeepsOrder(t *testing.T) {
	g := NewGene("g", 0, 0)
	g.AddTrait("resilience")
	g.AddTrait("speed")
	g.AddTrait("camouflage")

	names := g.TraitNames()
	want := []string{"resilience", "speed", "camouflage"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("trait order = %v, want %v", names, want)
		}
	}

	// Re-adding resets the state without duplicating the entry.
	g.SetTrait("speed", quantum.NewQubit().PauliX())
	if len(g.TraitNames()) != 3 {
		t.Errorf("trait count = %d, want 3", len(g.TraitNames()))
	}

	state, ok := g.Trait("speed")
	if !ok {
		t.Fatal("speed trait missing")
	}
	if state.ProbabilityZero() > 1e-9 {
		t.Errorf("speed trait P(0) = %v, want 0 after X", state.ProbabilityZero())
	}
}

func TestTraitLookupMiss(t *testing.T) {
	g := NewGene("g", 0, 0)

	if _, ok := g.Trait("absent"); ok {
		t.Error("lookup of unknown trait succeeded")
	}
	if outcome, probability := g.Express("absent", nil); outcome != -1 || probability != 0 {
		t.Errorf("Express(absent) = (%d, %v), want (-1, 0)", outcome, probability)
	}
}

func TestExpressCollapsesTrait(t *testing.T) {
	g := NewGene("g", 0, 0)
	g.SetTrait("resilience", quantum.NewQubit().Hadamard())

	src := quantum.NewSeededSource(3)

	outcome, probability := g.Express("resilience", src)
	if outcome != 0 && outcome != 1 {
		t.Fatalf("outcome = %d", outcome)
	}
	if math.Abs(probability-0.5) > 1e-9 {
		t.Errorf("probability = %v, want 0.5", probability)
	}

	// The trait collapsed, so expressing again repeats the outcome.
	again, probability := g.Express("resilience", src)
	if again != outcome {
		t.Errorf("second expression = %d, want %d", again, outcome)
	}
	if math.Abs(probability-1) > 1e-9 {
		t.Errorf("second probability = %v, want 1", probability)
	}
}

func TestExpressAll(t *testing.T) {
	g := NewGene("g", 0, 0)
	g.AddTrait("a")
	g.SetTrait("b", quantum.NewQubit().PauliX())

	outcomes := g.ExpressAll(quantum.NewSeededSource(1))
	if outcomes["a"] != 0 {
		t.Errorf("trait a = %d, want 0", outcomes["a"])
	}
	if outcomes["b"] != 1 {
		t.Errorf("trait b = %d, want 1", outcomes["b"])
	}
}

func TestFieldInfluenceGeometry(t *testing.T) {
	f := Field{X: 0, Y: 0, Radius: 10, Strength: 0.8}

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"center", 0, 0, 0.8},
		{"half radius", 5, 0, 0.4},
		{"on the rim", 10, 0, 0},
		{"outside", 20, 20, 0},
		{"diagonal", 3, 4, 0.8 * 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Influence(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Influence(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFieldZeroRadius(t *testing.T) {
	f := Field{Strength: 1}

	if got := f.Influence(0, 0); got != 0 {
		t.Errorf("Influence = %v, want 0 for zero radius", got)
	}
}

func TestFieldApplyAtCenterFlipsTraits(t *testing.T) {
	g := NewGene("g", 0, 0)
	g.AddTrait("resilience")

	f := Field{X: 0, Y: 0, Radius: 5, Strength: 1}

	if influence := f.Apply(g); math.Abs(influence-1) > 1e-9 {
		t.Fatalf("influence = %v, want 1", influence)
	}

	// Full influence rotates |0⟩ by RotateY(π), which is |1⟩.
	state, _ := g.Trait("resilience")
	if state.ProbabilityZero() > 1e-9 {
		t.Errorf("P(0) = %v, want 0 after full rotation", state.ProbabilityZero())
	}

	outcome, _ := g.Express("resilience", quantum.NewSeededSource(9))
	if outcome != 1 {
		t.Errorf("expressed outcome = %d, want 1", outcome)
	}
}

func TestFieldApplyOutsideLeavesTraits(t *testing.T) {
	g := NewGene("g", 100, 100)
	g.AddTrait("speed")

	f := Field{X: 0, Y: 0, Radius: 5, Strength: 1}

	if influence := f.Apply(g); influence != 0 {
		t.Fatalf("influence = %v, want 0", influence)
	}

	state, _ := g.Trait("speed")
	if math.Abs(state.ProbabilityZero()-1) > 1e-9 {
		t.Errorf("P(0) = %v, want 1 untouched", state.ProbabilityZero())
	}
}

func TestNilGeneIsSafe(t *testing.T) {
	var g *Gene

	g.AddTrait("x")
	if names := g.TraitNames(); names != nil {
		t.Errorf("TraitNames on nil = %v", names)
	}
	if outcome, _ := g.Express("x", nil); outcome != -1 {
		t.Errorf("Express on nil = %d, want -1", outcome)
	}
	if influence := (Field{Radius: 1, Strength: 1}).Apply(g); influence != 0 {
		t.Errorf("Apply on nil = %v, want 0", influence)
	}
}
