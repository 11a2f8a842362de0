// Package waveform synthesizes the scalar signal of the simulated instrument: a sine with
// additive uniform noise, scaled by the current gain.
package waveform

import (
	"math"

	"github.com/ftl/scansim/core"
	"github.com/ftl/scansim/core/noise"
)

// Signal parameters.
const (
	PhaseStep      = 0.05
	Harmonic       = 5.0
	NoiseAmplitude = 0.15
)

// Gain provides the current gain factor.
type Gain interface {
	Value() float64
}

// New returns a new synthesizer. If wrap is true, the phase is reduced modulo 2π.
func New(gain Gain, source noise.Source, wrap bool) *Synthesizer {
	return &Synthesizer{
		gain:   gain,
		source: source,
		wrap:   wrap,
	}
}

// Synthesizer produces one sample per tick. It is not safe for concurrent use; it is owned by
// the main loop.
type Synthesizer struct {
	gain   Gain
	source noise.Source
	wrap   bool
	tick   uint64
}

// Reset the tick counter and the phase.
func (s *Synthesizer) Reset() {
	s.tick = 0
}

// Tick returns the index of the next sample.
func (s *Synthesizer) Tick() uint64 {
	return s.tick
}

// Phase of the next tick. The phase is derived from the tick counter, so it does not
// accumulate rounding errors.
func (s *Synthesizer) Phase() float64 {
	return PhaseAt(s.tick, s.wrap)
}

// Next produces the sample for the current tick and advances the phase. It returns the
// phase that was used, so that the image can be computed in lockstep.
func (s *Synthesizer) Next() (core.Sample, float64) {
	phase := s.Phase()
	value := Value(phase, noise.Uniform(s.source, NoiseAmplitude), s.gain.Value())
	sample := core.Sample{Index: s.tick, Value: value}
	s.tick++
	return sample, phase
}

// PhaseAt returns the phase at the given tick.
func PhaseAt(tick uint64, wrap bool) float64 {
	phase := float64(tick) * PhaseStep
	if wrap {
		phase = math.Mod(phase, 2*math.Pi)
	}
	return phase
}

// Value computes a sample from the phase, a noise value and the gain.
func Value(phase, noise, gain float64) float64 {
	return (math.Sin(phase*Harmonic) + noise) * gain
}
