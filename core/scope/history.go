// Package scope keeps the recent waveform on the consumer side: a sliding history of samples
// on a time axis, running statistics, and the spectrum of the history.
package scope

import (
	"math"
	"time"

	"github.com/ftl/scansim/core"
)

// DefaultSize is the number of points that are kept in the history.
const DefaultSize = 400

// Point of the waveform on the time axis, in seconds since the start of the scan.
type Point struct {
	T     float64
	Value float64
}

// NewHistory returns a history of the given size for samples produced with the given tick
// period.
func NewHistory(size int, tickPeriod time.Duration) *History {
	if size < 1 {
		size = DefaultSize
	}
	return &History{
		size:     size,
		timeStep: tickPeriod.Seconds(),
		points:   make([]Point, size),
		sum:      newSlidingSum(size),
	}
}

// History of the most recent samples. It is not safe for concurrent use; it is meant to be
// owned by the consumer goroutine.
type History struct {
	size     int
	timeStep float64
	points   []Point
	next     int
	count    int
	sum      *slidingSum
	last     uint64
}

// Put the given sample into the history. If the sample index does not continue the history,
// i.e. a new scan was started, the history is cleared first.
func (h *History) Put(sample core.Sample) {
	if h.count > 0 && sample.Index <= h.last {
		h.Clear()
	}
	h.last = sample.Index

	h.points[h.next] = Point{T: float64(sample.Index) * h.timeStep, Value: sample.Value}
	h.next = (h.next + 1) % h.size
	if h.count < h.size {
		h.count++
	}
	h.sum.Put(sample.Value)
}

// Clear the history.
func (h *History) Clear() {
	h.next = 0
	h.count = 0
	h.last = 0
	h.sum = newSlidingSum(h.size)
}

// Len is the number of points in the history.
func (h *History) Len() int {
	return h.count
}

// Points in chronological order.
func (h *History) Points() []Point {
	result := make([]Point, h.count)
	start := (h.next - h.count + h.size) % h.size
	for i := range result {
		result[i] = h.points[(start+i)%h.size]
	}
	return result
}

// Values in chronological order.
func (h *History) Values() []float64 {
	points := h.Points()
	result := make([]float64, len(points))
	for i, p := range points {
		result[i] = p.Value
	}
	return result
}

// TimeRange of the visible time axis: four seconds before and one second after the latest
// point.
func (h *History) TimeRange() (from, to float64) {
	if h.count == 0 {
		return 0, 5
	}
	latest := h.points[(h.next-1+h.size)%h.size].T
	return latest - 4, latest + 1
}

// Mean value of the history.
func (h *History) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	return h.sum.current / float64(h.count)
}

// Peak is the largest absolute value in the history.
func (h *History) Peak() float64 {
	var result float64
	for _, p := range h.Points() {
		result = math.Max(result, math.Abs(p.Value))
	}
	return result
}

// TimeStep between two samples in seconds.
func (h *History) TimeStep() float64 {
	return h.timeStep
}

func newSlidingSum(length int) *slidingSum {
	return &slidingSum{
		length: length,
		buffer: make([]float64, length),
	}
}

type slidingSum struct {
	length  int
	buffer  []float64
	index   int
	current float64
}

func (w *slidingSum) Put(v float64) float64 {
	w.current += v - w.buffer[w.index]
	w.buffer[w.index] = v
	w.index = (w.index + 1) % w.length
	return w.current
}
