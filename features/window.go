package features

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/latido/config"
)

// Window is the analysis span around one beat. Bounds are sample indices
// into the conditioned signal, which windows never copy or modify.
type Window struct {
	Center int `json:"center"` // R-peak index
	Left   int `json:"left"`   // First sample, inclusive
	Right  int `json:"right"`  // Last sample; the segment excludes it
}

// Len returns the segment length
func (w Window) Len() int {
	return w.Right - w.Left
}

// Segment returns signal[Left:Right], the samples used for spectral and
// shape features
func (w Window) Segment(signal []float64) []float64 {
	return signal[w.Left:w.Right]
}

// Windower places fixed-width windows around R peaks, clipped to the signal
type Windower struct {
	halfWidth float64 // seconds
	minLength float64 // seconds
}

// NewWindower creates a windower from window settings
func NewWindower(cfg config.WindowConfig) *Windower {
	return &Windower{
		halfWidth: cfg.HalfWidthSeconds,
		minLength: cfg.MinLengthSeconds,
	}
}

// Window returns the window around center in a signal of n samples:
// [max(0, r-W), min(n-1, r+W)] with W = round(halfWidth*fs). Windows
// shorter than minLength*fs after clipping return ErrWindowTooShort.
func (w *Windower) Window(center, n int, sampleRate float64) (Window, error) {
	if center < 0 || center >= n {
		return Window{}, fmt.Errorf("beat %d outside signal of %d samples", center, n)
	}

	half := int(math.Round(w.halfWidth * sampleRate))
	win := Window{
		Center: center,
		Left:   max(0, center-half),
		Right:  min(n-1, center+half),
	}

	if float64(win.Len()) < w.minLength*sampleRate {
		return win, fmt.Errorf("%w: beat %d has %d samples, need %.0f",
			ErrWindowTooShort, center, win.Len(), w.minLength*sampleRate)
	}
	return win, nil
}
