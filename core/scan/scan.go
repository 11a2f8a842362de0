// Package scan builds the simulated scan image, one row per tick.
package scan

import (
	"math"

	"github.com/ftl/scansim/core"
	"github.com/ftl/scansim/core/noise"
)

// NoiseAmplitude of the pixel noise.
const NoiseAmplitude = 0.05

// State of the scan.
type State int

// All scan states.
const (
	Filling State = iota
	WrapPending
)

func (s State) String() string {
	switch s {
	case Filling:
		return "filling"
	case WrapPending:
		return "wrap pending"
	default:
		return "unknown"
	}
}

// New returns a builder for an image of the given size with a cleared raster.
func New(width, height int, source noise.Source) *Builder {
	return &Builder{
		width:  width,
		height: height,
		pix:    make([]byte, width*height),
		source: source,
	}
}

// Builder owns the raster and the current row. It is not safe for concurrent use; it is owned
// by the main loop. Frames returned by Advance and Snapshot are copies.
type Builder struct {
	width      int
	height     int
	pix        []byte
	row        int
	generation uint64
	source     noise.Source
}

// Row that is filled by the next call to Advance.
func (b *Builder) Row() int {
	return b.row
}

// State of the scan.
func (b *Builder) State() State {
	if b.row >= b.height {
		return WrapPending
	}
	return Filling
}

// Generation of the last published frame.
func (b *Builder) Generation() uint64 {
	return b.generation
}

// Reset clears the raster and starts over at the first row. The generation counter keeps
// counting.
func (b *Builder) Reset() {
	b.clear()
	b.row = 0
}

func (b *Builder) clear() {
	for i := range b.pix {
		b.pix[i] = 0
	}
}

// Advance fills the current row using the given phase and returns a snapshot of the frame.
// When the last row was filled, the returned frame is the completed image, complete is true,
// and the raster is cleared for the next scan.
func (b *Builder) Advance(phase float64) (frame core.Frame, complete bool) {
	if b.State() == Filling {
		b.fillRow(phase)
		b.row++
	}

	frame = b.Snapshot()

	if b.State() == WrapPending {
		b.Reset()
		complete = true
	}
	return frame, complete
}

func (b *Builder) fillRow(phase float64) {
	ny := float64(b.row) / float64(b.height)
	line := b.pix[b.row*b.width : (b.row+1)*b.width]
	for x := range line {
		nx := float64(x) / float64(b.width)
		line[x] = Intensity(Pixel(nx, ny, phase, noise.Uniform(b.source, NoiseAmplitude)))
	}
}

// Snapshot returns a copy of the current raster as the next frame generation.
func (b *Builder) Snapshot() core.Frame {
	b.generation++
	pix := make([]byte, len(b.pix))
	copy(pix, b.pix)
	return core.Frame{
		Width:      b.width,
		Height:     b.height,
		Pix:        pix,
		Generation: b.generation,
	}
}

// Pixel computes the interference pattern at the normalized position (nx, ny).
func Pixel(nx, ny, phase, noise float64) float64 {
	return 0.5 + 0.25*math.Sin(20*nx+phase) + 0.25*math.Cos(15*ny-phase) + noise
}

// Intensity converts a value in [0,1] into an 8-bit intensity, clamping values out of range.
func Intensity(v float64) byte {
	scaled := math.Round(v * 255)
	switch {
	case math.IsNaN(scaled), scaled < 0:
		return 0
	case scaled > 255:
		return 255
	default:
		return byte(scaled)
	}
}
