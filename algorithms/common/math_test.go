package common

import (
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestPopStdDev(t *testing.T) {
	// population std of {2,4,4,4,5,5,7,9} is exactly 2
	got := PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !scalar.EqualWithinAbs(got, 2, 1e-12) {
		t.Errorf("PopStdDev = %v, want 2", got)
	}
	if PopStdDev(nil) != 0 {
		t.Error("PopStdDev(nil) should be 0")
	}
	if PopStdDev([]float64{0.8}) != 0 {
		t.Error("single value should have zero spread")
	}
}

func TestDiffAndRMS(t *testing.T) {
	d := Diff([]float64{1, 4, 9, 16})
	if !slices.Equal(d, []float64{3, 5, 7}) {
		t.Errorf("Diff = %v", d)
	}
	if len(Diff([]float64{1})) != 0 {
		t.Error("Diff of one value should be empty")
	}
	if got := RMS([]float64{3, 4}); !scalar.EqualWithinAbs(got, math.Sqrt(12.5), 1e-12) {
		t.Errorf("RMS = %v", got)
	}
}

func TestSafeFloat(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if SafeFloat(v) != 0 {
			t.Errorf("SafeFloat(%v) != 0", v)
		}
	}
	if SafeFloat(1.5) != 1.5 {
		t.Error("finite values must pass through")
	}
}

func TestArgMax(t *testing.T) {
	data := []float64{0, 5, 1, 9, 2}
	if got := ArgMax(data, 0, 3); got != 1 {
		t.Errorf("ArgMax(0,3) = %d", got)
	}
	if got := ArgMax(data, -4, 99); got != 3 {
		t.Errorf("ArgMax clipped = %d", got)
	}
	if got := ArgMax(data, 3, 3); got != -1 {
		t.Errorf("empty range = %d", got)
	}
}

func TestFindPeaks(t *testing.T) {
	data := []float64{0, 1, 0, 3, 0, 0, 0, 2, 0, 0, 5, 0}

	got := FindPeaks(data, 0.5, 3)
	// 1 at idx1 is replaced by the taller 3 at idx3; 2 at idx7 and 5 at idx10 are 3 apart
	want := []int{3, 7, 10}
	if !slices.Equal(got, want) {
		t.Errorf("FindPeaks = %v, want %v", got, want)
	}

	if got := FindPeaks(data, 4, 1); !slices.Equal(got, []int{10}) {
		t.Errorf("height filter = %v", got)
	}
}

func TestPercentile(t *testing.T) {
	data := []float64{5, 1, 4, 2, 3}
	if got := Percentile(data, 1); got != 5 {
		t.Errorf("p100 = %v", got)
	}
	if got := Percentile(data, 0.5); got != 3 {
		t.Errorf("p50 = %v", got)
	}
	if !IsFlat([]float64{2, 2, 2}) || IsFlat(data) {
		t.Error("IsFlat misclassified input")
	}
}
