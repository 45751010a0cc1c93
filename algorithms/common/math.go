package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across algorithms using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopStdDev calculates the population (biased, divide-by-n) standard deviation
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	_, std := stat.PopMeanStdDev(data, nil)
	return std
}

// Percentile calculates the p-th percentile (p between 0 and 1)
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Diff returns successive differences data[i+1]-data[i]
func Diff(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	result := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		result[i-1] = data[i] - data[i-1]
	}
	return result
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// SafeFloat maps NaN and ±Inf to 0
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// IsFlat reports whether data has no usable amplitude variation
func IsFlat(data []float64) bool {
	if len(data) == 0 {
		return true
	}
	return floats.Max(data)-floats.Min(data) < 1e-12
}

// ArgMax returns the index of the maximum value within data[lo:hi], clipped
// to the slice bounds. Returns -1 for an empty range.
func ArgMax(data []float64, lo, hi int) int {
	lo = max(lo, 0)
	hi = min(hi, len(data))
	if lo >= hi {
		return -1
	}
	return lo + floats.MaxIdx(data[lo:hi])
}

// FindPeaks finds local maxima at or above minHeight that are at least
// minDistance samples apart. Within minDistance the higher peak wins.
func FindPeaks(data []float64, minHeight float64, minDistance int) []int {
	if len(data) < 3 {
		return []int{}
	}

	var peaks []int

	for i := 1; i < len(data)-1; i++ {
		// Plateaus count once, at their left edge
		if !(data[i] > data[i-1] && data[i] >= data[i+1]) || data[i] < minHeight {
			continue
		}

		if n := len(peaks); n > 0 && i-peaks[n-1] < minDistance {
			if data[i] > data[peaks[n-1]] {
				peaks[n-1] = i
			}
			continue
		}

		peaks = append(peaks, i)
	}

	return peaks
}
