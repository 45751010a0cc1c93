package temporal

// Envelope provides amplitude envelope extraction
type Envelope struct{}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// Integrate computes a centered moving-window integral: each output sample is
// the sum of windowSize input samples around it divided by windowSize.
// Samples beyond the signal edges count as zero, so the output has the same
// length as the input and no group delay.
func (e *Envelope) Integrate(signal []float64, windowSize int) []float64 {
	if len(signal) == 0 || windowSize <= 0 {
		return []float64{}
	}

	// prefix[i] = sum of signal[:i]
	prefix := make([]float64, len(signal)+1)
	for i, v := range signal {
		prefix[i+1] = prefix[i] + v
	}

	half := windowSize / 2
	out := make([]float64, len(signal))
	for i := range signal {
		lo := max(0, i-half)
		hi := min(len(signal), i-half+windowSize)
		out[i] = (prefix[hi] - prefix[lo]) / float64(windowSize)
	}

	return out
}
