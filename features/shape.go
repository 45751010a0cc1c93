package features

import "github.com/RyanBlaney/latido/algorithms/stats"

// Shape holds distribution statistics of a beat segment
type Shape struct {
	Skew     float64 `json:"skew"`
	Kurtosis float64 `json:"kurtosis"` // excess
}

// ShapeFeatures returns the biased skewness and excess kurtosis of segment.
// Constant segments give zeros.
func ShapeFeatures(segment []float64) Shape {
	r, err := stats.NewMoments().Analyze(segment)
	if err != nil {
		return Shape{}
	}
	return Shape{Skew: r.Skewness, Kurtosis: r.Kurtosis}
}
