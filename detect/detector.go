// Package detect locates R peaks in a conditioned ECG signal.
package detect

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/RyanBlaney/latido/config"
)

// ErrDetectionFailure is returned when no detection strategy produced a
// usable beat sequence. The recording is skipped.
var ErrDetectionFailure = errors.New("beat detection failed")

// Detector finds R-peak sample indices in a conditioned signal
type Detector interface {
	Name() string
	Detect(signal []float64, sampleRate float64) ([]int, error)
}

// Factory builds a detector from detection settings
type Factory func(cfg config.DetectionConfig) Detector

var registry = map[string]Factory{
	"pan-tompkins": func(cfg config.DetectionConfig) Detector { return NewPanTompkins(cfg) },
	"threshold":    func(cfg config.DetectionConfig) Detector { return NewThreshold(cfg) },
}

// Strategies returns the registered strategy names, sorted
func Strategies() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the named detector
func New(name string, cfg config.DetectionConfig) (Detector, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown detection strategy %q (available: %s)",
			name, strings.Join(Strategies(), ", "))
	}
	return factory(cfg), nil
}

// samples converts a duration in seconds to a sample count, at least 1
func samples(seconds, sampleRate float64) int {
	return max(1, int(math.Round(seconds*sampleRate)))
}
