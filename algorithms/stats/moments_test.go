package stats

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestMomentsKnownValues(t *testing.T) {
	// Mean 3, μ₂ = 2, μ₃ = 0, μ₄ = 6.8
	data := []float64{1, 2, 3, 4, 5}

	r, err := NewMoments().Analyze(data)
	if err != nil {
		t.Fatal(err)
	}

	if r.Mean != 3 || r.Variance != 2 {
		t.Errorf("mean/var = %g/%g, want 3/2", r.Mean, r.Variance)
	}
	if !scalar.EqualWithinAbs(r.Skewness, 0, 1e-12) {
		t.Errorf("skewness = %g, want 0", r.Skewness)
	}
	if !scalar.EqualWithinAbs(r.Kurtosis, 6.8/4-3, 1e-12) {
		t.Errorf("kurtosis = %g, want -1.3", r.Kurtosis)
	}
	if r.SampleRange != 4 || r.NumSamples != 5 {
		t.Errorf("range/n = %g/%d", r.SampleRange, r.NumSamples)
	}
}

func TestMomentsSkewedSample(t *testing.T) {
	// Mean 1, deviations -1,-1,-1,3: μ₂ = 3, μ₃ = 6, μ₄ = 21
	data := []float64{0, 0, 0, 4}

	if got, want := Skewness(data), 6/(3*1.7320508075688772); !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("Skewness = %g, want %g", got, want)
	}
	if got, want := Kurtosis(data), 21.0/9-3; !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("Kurtosis = %g, want %g", got, want)
	}
}

func TestMomentsDegenerate(t *testing.T) {
	for _, data := range [][]float64{{5, 5, 5, 5}, {1}} {
		r, err := NewMoments().Analyze(data)
		if err != nil {
			t.Fatal(err)
		}
		if !r.Degenerate || r.Skewness != 0 || r.Kurtosis != 0 {
			t.Errorf("%v: got %+v, want degenerate zeros", data, r)
		}
	}

	if _, err := NewMoments().Analyze(nil); err == nil {
		t.Error("expected error for empty data")
	}
	if Skewness(nil) != 0 || Kurtosis(nil) != 0 {
		t.Error("empty data should give zero shape statistics")
	}
}
