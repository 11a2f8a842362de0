package scope

import (
	"math"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum of the waveform history. Bins holds the magnitude in dB of the frequencies from 0
// up to half the sample rate.
type Spectrum struct {
	Bins       []float64
	Resolution float64 // Hz per bin
}

// Frequency of the given bin in Hz.
func (s Spectrum) Frequency(bin int) float64 {
	return float64(bin) * s.Resolution
}

// PeakBin returns the bin with the highest magnitude, ignoring the DC bin.
func (s Spectrum) PeakBin() int {
	result := -1
	for i := 1; i < len(s.Bins); i++ {
		if result == -1 || s.Bins[i] > s.Bins[result] {
			result = i
		}
	}
	return result
}

// PeakFrequency is the dominant frequency of the waveform in Hz, or 0 if there is not enough
// data.
func (s Spectrum) PeakFrequency() float64 {
	bin := s.PeakBin()
	if bin < 0 {
		return 0
	}
	return s.Frequency(bin)
}

// Spectrum of the current history. The values are windowed with a Blackman window and padded
// with zeros to the next power of two.
func (h *History) Spectrum() Spectrum {
	values := h.Values()
	if len(values) < 2 || h.timeStep <= 0 {
		return Spectrum{}
	}

	blockSize := dsputils.NextPowerOf2(len(values))
	block := make([]float64, blockSize)
	w := window.Blackman(len(values))
	mean := h.Mean()
	for i, v := range values {
		block[i] = (v - mean) * w[i]
	}

	cfft := fft.FFTReal(block)
	bins := make([]float64, blockSize/2+1)
	for i := range bins {
		bins[i] = fftValueToDB(cfft[i], len(values))
	}

	return Spectrum{
		Bins:       bins,
		Resolution: 1.0 / (h.timeStep * float64(blockSize)),
	}
}

func fftValueToDB(fftValue complex128, blockSize int) float64 {
	return 20.0 * math.Log10(2*math.Sqrt(math.Pow(real(fftValue), 2)+math.Pow(imag(fftValue), 2))/float64(blockSize)+1.0e-20)
}
