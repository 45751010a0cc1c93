package spectral

import (
	"fmt"

	"github.com/mjibson/go-dsp/spectral"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/latido/algorithms/windowing"
)

// PSD is a one-sided power spectral density estimate
type PSD struct {
	Frequencies []float64 `json:"frequencies"` // Bin centers in Hz
	Density     []float64 `json:"density"`     // Power per Hz
	Segments    int       `json:"segments"`    // Number of averaged segments
}

// Resolution returns the spacing between frequency bins in Hz
func (p *PSD) Resolution() float64 {
	if len(p.Frequencies) < 2 {
		return 0
	}
	return p.Frequencies[1] - p.Frequencies[0]
}

// Welch estimates power spectral density by averaging modified periodograms.
//
// Segments use a periodic Hann window with 50% overlap. Each segment has its
// mean removed before windowing and the estimate is density scaled
// (1 / (fs * sum(w^2))), so integrating it over frequency gives signal power.
type Welch struct {
	segmentLength int
	fft           *FFT
	power         *PowerSpectrum
}

// NewWelch creates a Welch estimator with the given nominal segment length.
// Signals shorter than segmentLength are analyzed as a single segment.
func NewWelch(segmentLength int) *Welch {
	return &Welch{
		segmentLength: segmentLength,
		fft:           NewFFT(),
		power:         NewPowerSpectrum(),
	}
}

// Compute returns the averaged one-sided PSD of x sampled at sampleRate
func (w *Welch) Compute(x []float64, sampleRate float64) (*PSD, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %v", sampleRate)
	}
	if w.segmentLength <= 0 {
		return nil, fmt.Errorf("segment length must be positive: %d", w.segmentLength)
	}

	nperseg := min(w.segmentLength, len(x))
	noverlap := nperseg / 2

	window := windowing.NewHann(nperseg, false)
	scale := 1.0 / (sampleRate * window.PowerSum())

	segments := spectral.Segment(x, nperseg, noverlap)
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments of length %d in %d samples", nperseg, len(x))
	}

	avg := make([]float64, nperseg/2+1)
	for _, seg := range segments {
		// Constant detrend
		mean := stat.Mean(seg, nil)
		for i := range seg {
			seg[i] -= mean
		}
		if err := window.ApplyInPlace(seg); err != nil {
			return nil, err
		}

		density := w.power.Density(w.fft.Compute(seg), scale)
		for k, v := range density {
			avg[k] += v
		}
	}

	n := float64(len(segments))
	for k := range avg {
		avg[k] /= n
	}

	return &PSD{
		Frequencies: w.power.Frequencies(nperseg, sampleRate),
		Density:     avg,
		Segments:    len(segments),
	}, nil
}
