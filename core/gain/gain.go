// Package gain holds the multiplicative factor applied to the synthesized waveform. The factor
// can be changed from any goroutine while the generator is running.
package gain

import (
	"math"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrInvalid is returned for gain factors that are negative, infinite or NaN.
var ErrInvalid = errors.New("invalid gain factor")

// Slider range of the gain control; SliderUnity corresponds to a factor of 1.0.
const (
	SliderMin   = 0
	SliderMax   = 100
	SliderUnity = 50
)

// Controller stores the current gain factor as atomic float64 bits, so readers always see
// either the old or the new value.
type Controller struct {
	bits atomic.Uint64
}

// New returns a controller with the given initial factor. Invalid initial values fall back to 1.0.
func New(initial float64) *Controller {
	result := &Controller{}
	if Validate(initial) != nil {
		initial = 1.0
	}
	result.bits.Store(math.Float64bits(initial))
	return result
}

// Validate checks if the given factor is a valid gain.
func Validate(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return errors.Wrapf(ErrInvalid, "%v", factor)
	}
	return nil
}

// Value returns the current factor.
func (c *Controller) Value() float64 {
	return math.Float64frombits(c.bits.Load())
}

// Set the factor. Invalid values are rejected and the previous factor is retained.
func (c *Controller) Set(factor float64) error {
	if err := Validate(factor); err != nil {
		return err
	}
	c.bits.Store(math.Float64bits(factor))
	return nil
}

// Update applies f to the current factor as one atomic read-modify-write. If f produces an
// invalid factor, the current factor is kept and the error is returned.
func (c *Controller) Update(f func(float64) float64) (float64, error) {
	for {
		oldBits := c.bits.Load()
		newValue := f(math.Float64frombits(oldBits))
		if err := Validate(newValue); err != nil {
			return math.Float64frombits(oldBits), err
		}
		if c.bits.CompareAndSwap(oldBits, math.Float64bits(newValue)) {
			return newValue, nil
		}
	}
}

// FromSlider converts a slider position into a gain factor (50 -> 1.0x).
func FromSlider(position int) float64 {
	if position < SliderMin {
		position = SliderMin
	}
	if position > SliderMax {
		position = SliderMax
	}
	return float64(position) / SliderUnity
}
