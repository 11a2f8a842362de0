package scope

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/scansim/core"
	"github.com/ftl/scansim/core/gain"
	"github.com/ftl/scansim/core/noise"
	"github.com/ftl/scansim/core/waveform"
)

func TestHistoryKeepsTheLatestPoints(t *testing.T) {
	h := NewHistory(3, 30*time.Millisecond)

	for i := 0; i < 5; i++ {
		h.Put(core.Sample{Index: uint64(i), Value: float64(i)})
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{2, 3, 4}, h.Values())
	points := h.Points()
	assert.InDelta(t, 0.06, points[0].T, 1e-9)
	assert.InDelta(t, 0.12, points[2].T, 1e-9)
	assert.InDelta(t, 3.0, h.Mean(), 1e-9)
	assert.Equal(t, 4.0, h.Peak())
}

func TestHistoryIsClearedOnRestart(t *testing.T) {
	h := NewHistory(10, 30*time.Millisecond)
	for i := 0; i < 5; i++ {
		h.Put(core.Sample{Index: uint64(i), Value: -10})
	}

	h.Put(core.Sample{Index: 0, Value: 1})

	assert.Equal(t, []float64{1}, h.Values())
	assert.Equal(t, 1.0, h.Mean())
	assert.Equal(t, 1.0, h.Peak())
}

func TestTimeRange(t *testing.T) {
	h := NewHistory(10, 30*time.Millisecond)

	from, to := h.TimeRange()
	assert.Equal(t, 0.0, from)
	assert.Equal(t, 5.0, to)

	h.Put(core.Sample{Index: 100})
	from, to = h.TimeRange()
	assert.InDelta(t, -1.0, from, 1e-9)
	assert.InDelta(t, 4.0, to, 1e-9)
}

func TestSpectrumPeakIsTheWaveformFrequency(t *testing.T) {
	period := 30 * time.Millisecond
	h := NewHistory(DefaultSize, period)
	s := waveform.New(gain.New(1), noise.Null{}, true)
	for i := 0; i < DefaultSize; i++ {
		sample, _ := s.Next()
		h.Put(sample)
	}

	spectrum := h.Spectrum()

	require.Len(t, spectrum.Bins, 257)
	expected := waveform.PhaseStep * waveform.Harmonic / (2 * math.Pi) / period.Seconds()
	assert.InDelta(t, expected, spectrum.PeakFrequency(), spectrum.Resolution)
}

func TestSpectrumWithoutData(t *testing.T) {
	h := NewHistory(10, 30*time.Millisecond)

	spectrum := h.Spectrum()

	assert.Empty(t, spectrum.Bins)
	assert.Equal(t, -1, spectrum.PeakBin())
	assert.Equal(t, 0.0, spectrum.PeakFrequency())
}

func TestSlidingSum(t *testing.T) {
	tt := []struct {
		name     string
		length   int
		values   []float64
		expected []float64
	}{
		{"empty", 1, []float64{}, []float64{}},
		{"window 1", 1, []float64{1, 2, 3}, []float64{1, 2, 3}},
		{"window 3", 3, []float64{1, 2, 3, 4, 5}, []float64{1, 3, 6, 9, 12}},
	}

	for _, tc := range tt {
		sum := newSlidingSum(tc.length)
		t.Run(tc.name, func(t *testing.T) {
			actual := make([]float64, len(tc.values))
			for i, v := range tc.values {
				actual[i] = sum.Put(v)
			}
			assert.Equal(t, tc.expected, actual)
		})
	}
}
