package spectral

import (
	"gonum.org/v1/gonum/integrate"
)

// BandPower integrates the PSD over bins whose frequency lies in
// [lowHz, highHz] using the trapezoidal rule. Fewer than two bins in the band
// yield zero power.
func BandPower(psd *PSD, lowHz, highHz float64) float64 {
	if psd == nil {
		return 0
	}

	var freqs, density []float64
	for k, f := range psd.Frequencies {
		if f >= lowHz && f <= highHz {
			freqs = append(freqs, f)
			density = append(density, psd.Density[k])
		}
	}

	if len(freqs) < 2 {
		return 0
	}

	return integrate.Trapezoidal(freqs, density)
}
