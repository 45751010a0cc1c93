package filters

import (
	"fmt"
	"sync"

	"github.com/RyanBlaney/latido/config"
)

// Conditioner bandpass-filters recordings with zero phase. Designs are
// cached per sample rate since a directory usually shares one rate.
type Conditioner struct {
	cfg config.FilterConfig

	mu      sync.Mutex
	designs map[float64]*BandpassFilter
}

// NewConditioner creates a conditioner for the given filter settings
func NewConditioner(cfg config.FilterConfig) *Conditioner {
	return &Conditioner{
		cfg:     cfg,
		designs: make(map[float64]*BandpassFilter),
	}
}

// Filter returns the bandpass filter for sampleRate, designing it on first use
func (c *Conditioner) Filter(sampleRate float64) (*BandpassFilter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bf, ok := c.designs[sampleRate]; ok {
		return bf, nil
	}

	bf, err := NewBandpassFilter(sampleRate, c.cfg.LowCutoff, c.cfg.HighCutoff, c.cfg.Order)
	if err != nil {
		return nil, err
	}
	c.designs[sampleRate] = bf
	return bf, nil
}

// Condition returns the zero-phase filtered signal. The output has the same
// length and sample rate as the input.
func (c *Conditioner) Condition(samples []float64, sampleRate float64) ([]float64, error) {
	bf, err := c.Filter(sampleRate)
	if err != nil {
		return nil, err
	}

	out, err := bf.FiltFilt(samples)
	if err != nil {
		return nil, fmt.Errorf("condition signal: %w", err)
	}
	return out, nil
}
