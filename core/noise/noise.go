// Package noise provides the random sources used to add noise to the synthesized data.
package noise

import (
	"math/rand/v2"
	"time"
)

// Source of uniformly distributed values in [0,1).
type Source interface {
	Float64() float64
}

// New returns a seeded pseudo random source. A seed of 0 picks a seed from the current time.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Uniform returns a value in [-amplitude, amplitude) drawn from the given source.
func Uniform(source Source, amplitude float64) float64 {
	return (source.Float64() - 0.5) * 2 * amplitude
}

// Sequence replays the given values in a loop.
type Sequence struct {
	values []float64
	index  int
}

// NewSequence returns a source that replays the given values.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0.5
	}
	result := s.values[s.index]
	s.index = (s.index + 1) % len(s.values)
	return result
}

// Null always returns the center of the range, i.e. it produces no noise at all.
type Null struct{}

// Float64 returns 0.5.
func (Null) Float64() float64 {
	return 0.5
}
