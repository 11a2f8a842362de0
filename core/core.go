package core

import (
	"fmt"
	"image"
	"math"
	"time"
)

// Fixed parameters of the simulated instrument.
const (
	FrameWidth  = 256
	FrameHeight = 256

	DefaultTickPeriod = 30 * time.Millisecond
	DefaultGain       = 1.0
)

// Log messages emitted on lifecycle transitions.
const (
	LogScanStarted  = "Scan started."
	LogScanStopped  = "Scan stopped."
	LogScanComplete = "Scan complete. Restarting."
	LogConnected    = "Device connection simulated."
)

// Sample of the synthesized waveform.
type Sample struct {
	Index uint64
	Value float64
}

func (s Sample) String() string {
	return fmt.Sprintf("#%d: %.4f", s.Index, s.Value)
}

// Frame is an immutable snapshot of the scan image. Pix holds Width*Height 8-bit intensities
// in row-major order. A published Frame owns its Pix and is never modified afterwards.
type Frame struct {
	Width      int
	Height     int
	Pix        []byte
	Generation uint64
}

// NewFrame returns a cleared frame of the given size.
func NewFrame(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
}

func (f Frame) String() string {
	return fmt.Sprintf("frame %d (%dx%d)", f.Generation, f.Width, f.Height)
}

// At returns the intensity at the given position.
func (f Frame) At(x, y int) byte {
	return f.Pix[y*f.Width+x]
}

// Row returns a copy of the given row.
func (f Frame) Row(y int) []byte {
	result := make([]byte, f.Width)
	copy(result, f.Pix[y*f.Width:(y+1)*f.Width])
	return result
}

// Mean intensity of the whole frame.
func (f Frame) Mean() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	var sum int
	for _, p := range f.Pix {
		sum += int(p)
	}
	return float64(sum) / float64(len(f.Pix))
}

// Image returns a grayscale copy of the frame.
func (f Frame) Image() *image.Gray {
	result := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	copy(result.Pix, f.Pix)
	return result
}

// Configuration parameters of the application.
type Configuration struct {
	TickPeriod   time.Duration
	InitialGain  float64
	PhaseWrap    bool
	Seed         uint64
	SampleBuffer int
	FrameBuffer  int
	LogBuffer    int
	HistorySize  int
}

// DefaultConfiguration returns the built-in configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		TickPeriod:   DefaultTickPeriod,
		InitialGain:  DefaultGain,
		PhaseWrap:    true,
		SampleBuffer: 1024,
		FrameBuffer:  2,
		LogBuffer:    64,
		HistorySize:  400,
	}
}

// Normalized returns a copy of the configuration where all invalid values are replaced by
// their defaults.
func (c Configuration) Normalized() Configuration {
	defaults := DefaultConfiguration()
	if c.TickPeriod <= 0 {
		c.TickPeriod = defaults.TickPeriod
	}
	if c.InitialGain < 0 || math.IsNaN(c.InitialGain) || math.IsInf(c.InitialGain, 0) {
		c.InitialGain = defaults.InitialGain
	}
	if c.SampleBuffer < 1 {
		c.SampleBuffer = defaults.SampleBuffer
	}
	if c.FrameBuffer < 1 {
		c.FrameBuffer = defaults.FrameBuffer
	}
	if c.LogBuffer < 1 {
		c.LogBuffer = defaults.LogBuffer
	}
	if c.HistorySize < 1 {
		c.HistorySize = defaults.HistorySize
	}
	return c
}
