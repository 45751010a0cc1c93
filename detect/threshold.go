package detect

import (
	"fmt"

	"github.com/RyanBlaney/latido/algorithms/common"
	"github.com/RyanBlaney/latido/config"
)

// Threshold is a simple fallback detector: local maxima of the conditioned
// signal above a fixed fraction of its 99th percentile, separated by at
// least the refractory period.
type Threshold struct {
	fraction   float64
	refractory float64 // seconds
}

// NewThreshold creates a detector from detection settings
func NewThreshold(cfg config.DetectionConfig) *Threshold {
	return &Threshold{
		fraction:   cfg.ThresholdFraction,
		refractory: cfg.RefractorySeconds,
	}
}

// Name returns the strategy name
func (t *Threshold) Name() string {
	return "threshold"
}

// Detect returns the peak indices of signal in increasing order
func (t *Threshold) Detect(signal []float64, sampleRate float64) ([]int, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %v", sampleRate)
	}
	if common.IsFlat(signal) {
		return nil, fmt.Errorf("flat signal")
	}

	level := t.fraction * common.Percentile(signal, 0.99)
	if level <= 0 {
		return nil, fmt.Errorf("non-positive amplitude threshold %g", level)
	}

	peaks := common.FindPeaks(signal, level, samples(t.refractory, sampleRate))
	if len(peaks) == 0 {
		return nil, fmt.Errorf("no peaks above %g", level)
	}
	return peaks, nil
}
