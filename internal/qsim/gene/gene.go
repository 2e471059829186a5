package gene

import (
	"github.com/google/uuid"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

// Trait is one named single-qubit property of a gene
type Trait struct {
	Name  string
	State quantum.Qubit
}

// Gene ties string metadata and a planar position to a set of quantum
// traits. Trait order is the order of registration.
type Gene struct {
	ID       uuid.UUID
	Name     string
	X, Y     float64
	Metadata map[string]string

	traits []Trait
}

// NewGene creates a gene at a position with no traits
func NewGene(name string, x, y float64) *Gene {
	return &Gene{
		ID:       uuid.New(),
		Name:     name,
		X:        x,
		Y:        y,
		Metadata: make(map[string]string),
	}
}

// AddTrait registers a named trait in state |0⟩. Adding an existing name
// resets that trait instead of duplicating it.
func (g *Gene) AddTrait(name string) {
	g.SetTrait(name, quantum.NewQubit())
}

// SetTrait registers a named trait with an explicit state
func (g *Gene) SetTrait(name string, state quantum.Qubit) {
	if g == nil {
		return
	}

	for i := range g.traits {
		if g.traits[i].Name == name {
			g.traits[i].State = state
			return
		}
	}

	g.traits = append(g.traits, Trait{Name: name, State: state})
}

// Trait returns a copy of the named trait state
func (g *Gene) Trait(name string) (quantum.Qubit, bool) {
	if g == nil {
		return quantum.Qubit{}, false
	}

	for i := range g.traits {
		if g.traits[i].Name == name {
			return g.traits[i].State, true
		}
	}

	return quantum.Qubit{}, false
}

// TraitNames lists the registered traits in order
func (g *Gene) TraitNames() []string {
	if g == nil {
		return nil
	}

	names := make([]string, len(g.traits))
	for i := range g.traits {
		names[i] = g.traits[i].Name
	}

	return names
}

// Express measures the named trait in place, collapsing it. Unknown
// names return the (-1, 0) sentinel.
func (g *Gene) Express(name string, src quantum.Source) (int, float64) {
	if g == nil {
		return -1, 0
	}

	for i := range g.traits {
		if g.traits[i].Name == name {
			return g.traits[i].State.MeasureWith(src)
		}
	}

	return -1, 0
}

// ExpressAll measures every trait in order and returns the outcomes by
// trait name
func (g *Gene) ExpressAll(src quantum.Source) map[string]int {
	if g == nil {
		return nil
	}

	outcomes := make(map[string]int, len(g.traits))
	for i := range g.traits {
		outcome, _ := g.traits[i].State.MeasureWith(src)
		outcomes[g.traits[i].Name] = outcome
	}

	return outcomes
}
