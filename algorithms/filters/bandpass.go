package filters

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var (
	// ErrInvalidSampleRate is returned when the sample rate cannot support the
	// requested passband (it must exceed twice the upper cutoff)
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrSignalTooShort is returned when a signal is too short for the
	// zero-phase edge extension
	ErrSignalTooShort = errors.New("signal too short to filter")
)

// BandpassFilter implements a digital Butterworth bandpass filter as a cascade
// of second-order sections.
//
// The design follows the classic analog-prototype route: Butterworth lowpass
// poles, lowpass-to-bandpass transform, then the bilinear transform with
// pre-warped band edges. A filter of order N has 2N poles and N sections.
type BandpassFilter struct {
	sampleRate float64
	lowCutoff  float64 // Lower -3 dB edge in Hz
	highCutoff float64 // Upper -3 dB edge in Hz
	order      int

	sections []Section
}

// NewBandpassFilter creates a Butterworth bandpass filter.
//
// Parameters:
//   - sampleRate: Sample rate in Hz, must exceed 2*highCutoff
//   - lowCutoff, highCutoff: Passband edges in Hz
//   - order: Prototype order (4 gives an 8-pole bandpass)
func NewBandpassFilter(sampleRate, lowCutoff, highCutoff float64, order int) (*BandpassFilter, error) {
	sections, err := DesignButterworthBandpass(order, lowCutoff, highCutoff, sampleRate)
	if err != nil {
		return nil, err
	}

	return &BandpassFilter{
		sampleRate: sampleRate,
		lowCutoff:  lowCutoff,
		highCutoff: highCutoff,
		order:      order,
		sections:   sections,
	}, nil
}

// FiltFilt applies the filter forward and backward so the output has zero
// phase and identical length to the input.
func (bf *BandpassFilter) FiltFilt(input []float64) ([]float64, error) {
	return FiltFiltSections(bf.sections, input)
}

// MinimumLength returns the smallest signal length FiltFilt accepts
func (bf *BandpassFilter) MinimumLength() int {
	return padLength(bf.sections) + 1
}

// GetFrequencyResponse computes the magnitude and phase response at the
// given frequency in Hz. Returns magnitude (linear scale) and phase (radians).
func (bf *BandpassFilter) GetFrequencyResponse(frequency float64) (magnitude, phase float64) {
	w := 2.0 * math.Pi * frequency / bf.sampleRate
	h := sectionsResponse(bf.sections, w)
	return cmplx.Abs(h), cmplx.Phase(h)
}

// GetSections returns a copy of the second-order sections.
// Useful for debugging or implementing the filter elsewhere.
func (bf *BandpassFilter) GetSections() []Section {
	out := make([]Section, len(bf.sections))
	copy(out, bf.sections)
	return out
}

// String describes the filter
func (bf *BandpassFilter) String() string {
	return fmt.Sprintf("butterworth bandpass order=%d %.2f-%.2f Hz @ %.1f Hz",
		bf.order, bf.lowCutoff, bf.highCutoff, bf.sampleRate)
}
