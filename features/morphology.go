package features

// Morphology holds amplitude features of the QRS complex
type Morphology struct {
	RAmp     float64 `json:"r_amp"`     // conditioned amplitude at the R peak
	QRSWidth float64 `json:"qrs_width"` // seconds above half the R amplitude
}

// MorphologyFeatures measures the R amplitude and the width of the region
// around the R peak that stays above half of it. The walk is bounded by the
// window edges, both inclusive.
func MorphologyFeatures(signal []float64, w Window, sampleRate float64) Morphology {
	span := signal[w.Left : w.Right+1]
	r := w.Center - w.Left

	amp := span[r]
	half := amp / 2

	le := r
	for le > 0 && span[le] > half {
		le--
	}
	ri := r
	for ri < len(span)-1 && span[ri] > half {
		ri++
	}

	return Morphology{
		RAmp:     amp,
		QRSWidth: float64(ri-le) / sampleRate,
	}
}
