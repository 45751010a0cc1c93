package spectral

import (
	"math/cmplx"
)

// PowerSpectrum turns full FFT output into a one-sided power spectral density
type PowerSpectrum struct{}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Density returns |X[k]|^2 * scale for k in [0, nfft/2], with every bin
// except DC (and Nyquist for even nfft) doubled to account for the folded
// negative frequencies.
func (ps *PowerSpectrum) Density(spectrum []complex128, scale float64) []float64 {
	nfft := len(spectrum)
	if nfft == 0 {
		return []float64{}
	}

	bins := nfft/2 + 1
	density := make([]float64, bins)
	for k := range bins {
		mag := cmplx.Abs(spectrum[k])
		density[k] = mag * mag * scale
	}

	last := bins
	if nfft%2 == 0 {
		last = bins - 1
	}
	for k := 1; k < last; k++ {
		density[k] *= 2
	}

	return density
}

// Frequencies returns the bin centers k*sampleRate/nfft for the one-sided range
func (ps *PowerSpectrum) Frequencies(nfft int, sampleRate float64) []float64 {
	freqs := make([]float64, nfft/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * sampleRate / float64(nfft)
	}
	return freqs
}
