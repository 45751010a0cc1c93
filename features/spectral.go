package features

import (
	"github.com/RyanBlaney/latido/algorithms/spectral"
	"github.com/RyanBlaney/latido/config"
)

// BandPowers holds Welch band powers of a beat segment
type BandPowers struct {
	Total float64 `json:"p_tot"`
	Low   float64 `json:"p_low"`
	Mid   float64 `json:"p_mid"`
	High  float64 `json:"p_high"`
}

// SpectralFeatures estimates the PSD of segment and integrates the
// configured bands
func SpectralFeatures(welch *spectral.Welch, segment []float64, sampleRate float64, cfg config.SpectralConfig) (BandPowers, error) {
	psd, err := welch.Compute(segment, sampleRate)
	if err != nil {
		return BandPowers{}, err
	}

	band := func(b config.Band) float64 {
		return spectral.BandPower(psd, b[0], b[1])
	}

	return BandPowers{
		Total: band(cfg.Total),
		Low:   band(cfg.Low),
		Mid:   band(cfg.Mid),
		High:  band(cfg.High),
	}, nil
}
