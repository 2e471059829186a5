package gene

import "math"

// Field is a circular influence region. Traits of genes inside it are
// rotated toward |1⟩ in proportion to their distance from the center.
type Field struct {
	X, Y     float64
	Radius   float64
	Strength float64
}

// Influence returns the field strength felt at a point: full Strength at
// the center, fading linearly to zero at the radius
func (f Field) Influence(x, y float64) float64 {
	if f.Radius <= 0 {
		return 0
	}

	d := math.Hypot(x-f.X, y-f.Y)
	if d >= f.Radius {
		return 0
	}

	return f.Strength * (1 - d/f.Radius)
}

// Apply rotates every trait of the gene by RotateY(influence * π) and
// returns the influence that was felt
func (f Field) Apply(g *Gene) float64 {
	if g == nil {
		return 0
	}

	influence := f.Influence(g.X, g.Y)
	if influence == 0 {
		return 0
	}

	theta := influence * math.Pi
	for i := range g.traits {
		g.traits[i].State = g.traits[i].State.RotateY(theta)
	}

	return influence
}
