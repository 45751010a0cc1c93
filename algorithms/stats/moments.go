package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// resolution bounds the variance treated as numerically zero, relative to the
// magnitude of the mean
const resolution = 1e-15

// MomentResult holds the population moments of a sample
type MomentResult struct {
	Mean     float64 `json:"mean"`     // First raw moment (μ₁)
	Variance float64 `json:"variance"` // Second central moment, divided by n
	StdDev   float64 `json:"std_dev"`  // Population standard deviation
	Skewness float64 `json:"skewness"` // μ₃ / μ₂^1.5
	Kurtosis float64 `json:"kurtosis"` // μ₄ / μ₂² - 3 (excess)

	NumSamples  int     `json:"num_samples"`
	SampleRange float64 `json:"sample_range"`
	Degenerate  bool    `json:"degenerate"` // Variance is numerically zero
}

// Moments computes the biased (population) shape statistics of a sample.
//
// References:
//   - Kendall, M., Stuart, A. (1977). "The Advanced Theory of Statistics, Volume 1"
//   - Pearson, K. (1895). "Contributions to the Mathematical Theory of Evolution"
//
// Unlike the sample-corrected estimators in gonum/stat (Skew, ExKurtosis),
// no small-sample correction is applied. When the variance is numerically
// zero the shape statistics are reported as 0.
type Moments struct{}

// NewMoments creates a new moment analyzer
func NewMoments() *Moments {
	return &Moments{}
}

// Analyze computes the moments of data
func (m *Moments) Analyze(data []float64) (*MomentResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data")
	}

	mean := stat.Mean(data, nil)
	m2 := stat.Moment(2, data, nil)

	result := &MomentResult{
		Mean:        mean,
		Variance:    m2,
		StdDev:      math.Sqrt(m2),
		NumSamples:  len(data),
		SampleRange: floats.Max(data) - floats.Min(data),
	}

	tol := resolution * mean
	if len(data) < 2 || m2 <= tol*tol {
		result.Degenerate = true
		return result, nil
	}

	m3 := stat.Moment(3, data, nil)
	m4 := stat.Moment(4, data, nil)

	result.Skewness = m3 / math.Pow(m2, 1.5)
	result.Kurtosis = m4/(m2*m2) - 3.0

	return result, nil
}

// Skewness returns the biased skewness of data, or 0 when undefined
func Skewness(data []float64) float64 {
	r, err := NewMoments().Analyze(data)
	if err != nil {
		return 0
	}
	return r.Skewness
}

// Kurtosis returns the biased excess kurtosis of data, or 0 when undefined
func Kurtosis(data []float64) float64 {
	r, err := NewMoments().Analyze(data)
	if err != nil {
		return 0
	}
	return r.Kurtosis
}
