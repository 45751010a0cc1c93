package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a feature-extraction run
type Config struct {
	Input     InputConfig     `json:"input" yaml:"input"`
	Filter    FilterConfig    `json:"filter" yaml:"filter"`
	Detection DetectionConfig `json:"detection" yaml:"detection"`
	Window    WindowConfig    `json:"window" yaml:"window"`
	Rhythm    RhythmConfig    `json:"rhythm" yaml:"rhythm"`
	Spectral  SpectralConfig  `json:"spectral" yaml:"spectral"`

	Workers  int    `json:"workers" yaml:"workers"`     // 0 = one per CPU
	LogLevel string `json:"log_level" yaml:"log_level"` // debug|info|warn|error
}

// InputConfig selects files and the channel inside each recording
type InputConfig struct {
	AnnotationExtension string `json:"annotation_extension" yaml:"annotation_extension"`
	Channel             int    `json:"channel" yaml:"channel"`
	PreferredLead       string `json:"preferred_lead" yaml:"preferred_lead"` // e.g. "MLII"; empty = use Channel
}

// FilterConfig configures the Butterworth bandpass conditioner
type FilterConfig struct {
	LowCutoff  float64 `json:"low_cutoff" yaml:"low_cutoff"`   // Hz
	HighCutoff float64 `json:"high_cutoff" yaml:"high_cutoff"` // Hz
	Order      int     `json:"order" yaml:"order"`
}

// DetectionConfig configures the R-peak detectors
type DetectionConfig struct {
	Strategies        []string `json:"strategies" yaml:"strategies"` // tried in order
	RefractorySeconds float64  `json:"refractory_seconds" yaml:"refractory_seconds"`
	IntegrationWindow float64  `json:"integration_window" yaml:"integration_window"` // seconds
	SearchRadius      float64  `json:"search_radius" yaml:"search_radius"`           // seconds, R refinement
	LearningSeconds   float64  `json:"learning_seconds" yaml:"learning_seconds"`
	ThresholdFraction float64  `json:"threshold_fraction" yaml:"threshold_fraction"` // fallback detector
}

// WindowConfig configures the per-beat analysis window
type WindowConfig struct {
	HalfWidthSeconds float64 `json:"half_width_seconds" yaml:"half_width_seconds"`
	MinLengthSeconds float64 `json:"min_length_seconds" yaml:"min_length_seconds"`
}

// RhythmConfig configures RR-interval statistics
type RhythmConfig struct {
	MinIntervals        int     `json:"min_intervals" yaml:"min_intervals"`
	LookBehind          int     `json:"look_behind" yaml:"look_behind"`
	LookAhead           int     `json:"look_ahead" yaml:"look_ahead"`
	PNNThresholdSeconds float64 `json:"pnn_threshold_seconds" yaml:"pnn_threshold_seconds"`
}

// Band is a closed frequency range in Hz
type Band [2]float64

// SpectralConfig configures the Welch estimate and band edges
type SpectralConfig struct {
	MaxSegment int  `json:"max_segment" yaml:"max_segment"`
	Total      Band `json:"total" yaml:"total"`
	Low        Band `json:"low" yaml:"low"`
	Mid        Band `json:"mid" yaml:"mid"`
	High       Band `json:"high" yaml:"high"`
}

// Default returns the configuration used by the MIT-BIH feature set
func Default() *Config {
	return &Config{
		Input: InputConfig{
			AnnotationExtension: "atr",
			Channel:             0,
		},
		Filter: FilterConfig{
			LowCutoff:  0.5,
			HighCutoff: 40.0,
			Order:      4,
		},
		Detection: DetectionConfig{
			Strategies:        []string{"pan-tompkins", "threshold"},
			RefractorySeconds: 0.2,
			IntegrationWindow: 0.150,
			SearchRadius:      0.1,
			LearningSeconds:   2.0,
			ThresholdFraction: 0.4,
		},
		Window: WindowConfig{
			HalfWidthSeconds: 0.5,
			MinLengthSeconds: 0.6,
		},
		Rhythm: RhythmConfig{
			MinIntervals:        5,
			LookBehind:          3,
			LookAhead:           2,
			PNNThresholdSeconds: 0.05,
		},
		Spectral: SpectralConfig{
			MaxSegment: 256,
			Total:      Band{0.5, 40},
			Low:        Band{0.5, 5},
			Mid:        Band{5, 15},
			High:       Band{15, 40},
		},
		Workers:  0,
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// WorkerCount resolves the configured worker count
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Input.Channel < 0 {
		return fmt.Errorf("input.channel must be non-negative: %d", c.Input.Channel)
	}
	if c.Input.AnnotationExtension == "" {
		return fmt.Errorf("input.annotation_extension must be set")
	}

	if c.Filter.LowCutoff <= 0 || c.Filter.HighCutoff <= c.Filter.LowCutoff {
		return fmt.Errorf("filter cutoffs must satisfy 0 < low < high: %.3f, %.3f",
			c.Filter.LowCutoff, c.Filter.HighCutoff)
	}
	if c.Filter.Order < 1 || c.Filter.Order > 10 {
		return fmt.Errorf("filter.order must be between 1 and 10: %d", c.Filter.Order)
	}

	if len(c.Detection.Strategies) == 0 {
		return fmt.Errorf("detection.strategies must name at least one detector")
	}
	if c.Detection.RefractorySeconds <= 0 || c.Detection.IntegrationWindow <= 0 ||
		c.Detection.SearchRadius <= 0 || c.Detection.LearningSeconds <= 0 {
		return fmt.Errorf("detection durations must be positive")
	}
	if c.Detection.ThresholdFraction <= 0 || c.Detection.ThresholdFraction >= 1 {
		return fmt.Errorf("detection.threshold_fraction must be in (0, 1): %.3f", c.Detection.ThresholdFraction)
	}

	if c.Window.HalfWidthSeconds <= 0 || c.Window.MinLengthSeconds <= 0 {
		return fmt.Errorf("window durations must be positive")
	}

	if c.Rhythm.MinIntervals < 1 {
		return fmt.Errorf("rhythm.min_intervals must be at least 1: %d", c.Rhythm.MinIntervals)
	}
	if c.Rhythm.LookBehind < 0 || c.Rhythm.LookAhead < 1 {
		return fmt.Errorf("rhythm look-behind must be >= 0 and look-ahead >= 1")
	}
	if c.Rhythm.PNNThresholdSeconds <= 0 {
		return fmt.Errorf("rhythm.pnn_threshold_seconds must be positive")
	}

	if c.Spectral.MaxSegment < 2 {
		return fmt.Errorf("spectral.max_segment must be at least 2: %d", c.Spectral.MaxSegment)
	}
	for name, band := range map[string]Band{
		"total": c.Spectral.Total,
		"low":   c.Spectral.Low,
		"mid":   c.Spectral.Mid,
		"high":  c.Spectral.High,
	} {
		if band[0] < 0 || band[1] <= band[0] {
			return fmt.Errorf("spectral.%s band must satisfy 0 <= low < high: %v", name, band)
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative: %d", c.Workers)
	}

	return nil
}
