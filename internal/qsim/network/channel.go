package network

import (
	"math"

	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

// Channel defines the transmission medium carrying entanglement between
// two fabric qubits
type Channel interface {
	// Name returns the channel kind
	Name() string

	// Quality returns the fraction of entanglement the channel preserves
	Quality() float64

	// Degrade maps an ideal entanglement strength to the strength that
	// survives transmission
	Degrade(strength float64) float64
}

// PerfectChannel passes entanglement through unchanged
type PerfectChannel struct{}

// Name returns the channel kind
func (PerfectChannel) Name() string {
	return "perfect"
}

// Quality returns 1 for the lossless medium
func (PerfectChannel) Quality() float64 {
	return 1
}

// Degrade returns the strength unchanged
func (PerfectChannel) Degrade(strength float64) float64 {
	return clamp01(strength)
}

// FiberChannel attenuates entanglement exponentially with fiber length
type FiberChannel struct {
	LengthKm float64
	// AttenuationPerKm falls back to 0.02 when not set
	AttenuationPerKm float64
}

// NewFiberChannel creates a fiber channel of the given length
func NewFiberChannel(lengthKm float64) FiberChannel {
	return FiberChannel{
		LengthKm:         lengthKm,
		AttenuationPerKm: 0.02,
	}
}

// Name returns the channel kind
func (FiberChannel) Name() string {
	return "fiber"
}

// Quality returns e^(-attenuation * length)
func (c FiberChannel) Quality() float64 {
	if c.LengthKm <= 0 {
		return 1
	}

	attenuation := c.AttenuationPerKm
	if attenuation <= 0 {
		attenuation = 0.02
	}

	return math.Exp(-attenuation * c.LengthKm)
}

// Degrade scales the strength by the fiber quality
func (c FiberChannel) Degrade(strength float64) float64 {
	return clamp01(strength * c.Quality())
}

// NoisyChannel scales by a base quality and perturbs the result with
// uniform jitter drawn from its Source
type NoisyChannel struct {
	Base   float64
	Jitter float64
	Src    quantum.Source
}

// Name returns the channel kind
func (NoisyChannel) Name() string {
	return "noisy"
}

// Quality returns the base quality without jitter
func (c NoisyChannel) Quality() float64 {
	return clamp01(c.Base)
}

// Degrade scales the strength by the base quality and shifts it by a
// draw in [-Jitter, +Jitter]
func (c NoisyChannel) Degrade(strength float64) float64 {
	src := c.Src
	if src == nil {
		src = quantum.DefaultSource()
	}

	jitter := (src.Float64()*2 - 1) * c.Jitter

	return clamp01(strength*c.Quality() + jitter)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
