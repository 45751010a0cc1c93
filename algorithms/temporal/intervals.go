package temporal

// RRIntervals converts beat sample indices into successive intervals in
// seconds: rr[i] = (beats[i+1] - beats[i]) / sampleRate
func RRIntervals(beats []int, sampleRate float64) []float64 {
	if len(beats) < 2 || sampleRate <= 0 {
		return []float64{}
	}

	rr := make([]float64, len(beats)-1)
	for i := 1; i < len(beats); i++ {
		rr[i-1] = float64(beats[i]-beats[i-1]) / sampleRate
	}
	return rr
}

// HeartRate converts an RR interval in seconds to beats per minute.
// Non-positive intervals give 0.
func HeartRate(rr float64) float64 {
	if rr <= 0 {
		return 0
	}
	return 60.0 / rr
}

// StrictlyIncreasing reports whether beats is sorted with no duplicates
func StrictlyIncreasing(beats []int) bool {
	for i := 1; i < len(beats); i++ {
		if beats[i] <= beats[i-1] {
			return false
		}
	}
	return true
}
