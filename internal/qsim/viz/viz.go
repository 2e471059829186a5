package viz

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/qusimlab/qusim/internal/qsim/entangle"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

const (
	barWidth = 24
	// displayFloor hides basis states that collapsed to zero
	displayFloor = 1e-9
)

// RenderState returns a text table of the register's basis states with
// amplitude, probability, and a probability bar. Labels read with qubit
// 0 rightmost.
func RenderState(r *quantum.Register) string {
	var b strings.Builder

	if r == nil || r.Size() == 0 {
		b.WriteString("register: released\n")
		return b.String()
	}

	fmt.Fprintf(&b, "register: %d qubits, %d basis states\n", r.Qubits(), r.Size())

	for i, amp := range r.Amplitudes() {
		probability := real(amp)*real(amp) + imag(amp)*imag(amp)
		if probability < displayFloor {
			continue
		}

		fmt.Fprintf(&b, "|%0*b>  %+.4f%+.4fi  p=%.4f  %s\n",
			r.Qubits(), i, real(amp), imag(amp), probability, bar(probability))
	}

	return b.String()
}

// WriteState writes the state rendering to w
func WriteState(w io.Writer, r *quantum.Register) error {
	_, err := io.WriteString(w, RenderState(r))
	return err
}

// SaveState writes the state rendering to a file
func SaveState(path string, r *quantum.Register) error {
	return os.WriteFile(path, []byte(RenderState(r)), 0o644)
}

// RenderGraph returns the graph's links sorted by endpoints, each with
// its strength and propagation tier
func RenderGraph(g *entangle.Graph) string {
	var b strings.Builder

	if g == nil || g.Count() == 0 {
		b.WriteString("graph: no links\n")
		return b.String()
	}

	links := g.Links()
	sort.Slice(links, func(i, j int) bool {
		if links[i].A != links[j].A {
			return links[i].A < links[j].A
		}
		return links[i].B < links[j].B
	})

	fmt.Fprintf(&b, "graph: %d links\n", len(links))
	for _, link := range links {
		fmt.Fprintf(&b, "q%d -- q%d  strength=%.3f  tier=%s\n",
			link.A, link.B, link.Strength, entangle.TierLabel(link.Strength))
	}

	return b.String()
}

// WriteGraph writes the graph rendering to w
func WriteGraph(w io.Writer, g *entangle.Graph) error {
	_, err := io.WriteString(w, RenderGraph(g))
	return err
}

// SaveGraph writes the graph rendering to a file
func SaveGraph(path string, g *entangle.Graph) error {
	return os.WriteFile(path, []byte(RenderGraph(g)), 0o644)
}

func bar(probability float64) string {
	n := int(probability*barWidth + 0.5)
	if n > barWidth {
		n = barWidth
	}

	return strings.Repeat("#", n)
}
