package detect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RyanBlaney/latido/algorithms/temporal"
	"github.com/RyanBlaney/latido/config"
	"github.com/RyanBlaney/latido/logging"
)

// Chain tries detectors in ranked order and returns the first acceptable
// result: non-empty, strictly increasing and inside the signal.
type Chain struct {
	detectors []Detector
	logger    logging.Logger
}

// NewChain creates a chain over the given detectors, highest rank first
func NewChain(detectors ...Detector) *Chain {
	return &Chain{
		detectors: detectors,
		logger: logging.WithFields(logging.Fields{
			"component": "beat_detector",
		}),
	}
}

// NewChainFromConfig builds the chain named by cfg.Strategies
func NewChainFromConfig(cfg config.DetectionConfig) (*Chain, error) {
	if len(cfg.Strategies) == 0 {
		return nil, fmt.Errorf("no detection strategies configured")
	}

	detectors := make([]Detector, 0, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		d, err := New(name, cfg)
		if err != nil {
			return nil, err
		}
		detectors = append(detectors, d)
	}
	return NewChain(detectors...), nil
}

// WithLogger returns a copy of the chain that logs through logger
func (c *Chain) WithLogger(logger logging.Logger) *Chain {
	return &Chain{
		detectors: c.detectors,
		logger:    logger.WithFields(logging.Fields{"component": "beat_detector"}),
	}
}

// Name lists the strategies in rank order
func (c *Chain) Name() string {
	names := make([]string, len(c.detectors))
	for i, d := range c.detectors {
		names[i] = d.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Detect runs each strategy until one succeeds. Rejected strategies are
// logged; if all of them fail the joined reasons are wrapped in
// ErrDetectionFailure.
func (c *Chain) Detect(signal []float64, sampleRate float64) ([]int, error) {
	var errs []error

	for _, d := range c.detectors {
		beats, err := d.Detect(signal, sampleRate)
		if err == nil {
			err = validate(beats, len(signal))
		}
		if err != nil {
			c.logger.Warn("Detector rejected", logging.Fields{
				"detector": d.Name(),
				"reason":   err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}

		c.logger.Debug("Beats detected", logging.Fields{
			"detector": d.Name(),
			"beats":    len(beats),
		})
		return beats, nil
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no detectors configured", ErrDetectionFailure)
	}
	return nil, fmt.Errorf("%w: %w", ErrDetectionFailure, errors.Join(errs...))
}

// validate checks that beats is usable as an R-peak sequence for a signal of
// length n
func validate(beats []int, n int) error {
	if len(beats) == 0 {
		return fmt.Errorf("no beats")
	}
	if !temporal.StrictlyIncreasing(beats) {
		return fmt.Errorf("beat indices are not strictly increasing")
	}
	if beats[0] < 0 || beats[len(beats)-1] >= n {
		return fmt.Errorf("beat indices outside [0, %d)", n)
	}
	return nil
}
