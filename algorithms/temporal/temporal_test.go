package temporal

import (
	"slices"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestIntegrateCentered(t *testing.T) {
	signal := []float64{0, 0, 0, 3, 0, 0, 0}

	got := NewEnvelope().Integrate(signal, 3)
	want := []float64{0, 0, 1, 1, 1, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("Integrate = %v, want %v", got, want)
	}

	if len(NewEnvelope().Integrate(nil, 3)) != 0 {
		t.Error("empty input should give empty output")
	}
}

func TestIntegrateConstantInterior(t *testing.T) {
	signal := make([]float64, 20)
	for i := range signal {
		signal[i] = 2
	}

	got := NewEnvelope().Integrate(signal, 4)
	for i := 2; i < 18; i++ {
		if got[i] != 2 {
			t.Fatalf("interior[%d] = %g, want 2", i, got[i])
		}
	}
	if got[0] >= 2 {
		t.Errorf("edge should be attenuated, got %g", got[0])
	}
}

func TestRRIntervals(t *testing.T) {
	rr := RRIntervals([]int{100, 388, 676, 1000}, 360)
	want := []float64{0.8, 0.8, 0.9}
	for i := range want {
		if !scalar.EqualWithinAbs(rr[i], want[i], 1e-12) {
			t.Errorf("rr[%d] = %g, want %g", i, rr[i], want[i])
		}
	}

	if len(RRIntervals([]int{5}, 360)) != 0 {
		t.Error("single beat has no intervals")
	}
}

func TestHeartRate(t *testing.T) {
	if got := HeartRate(0.8); !scalar.EqualWithinAbs(got, 75, 1e-12) {
		t.Errorf("HeartRate(0.8) = %g", got)
	}
	if HeartRate(0) != 0 || HeartRate(-1) != 0 {
		t.Error("non-positive intervals should give 0")
	}
}

func TestStrictlyIncreasing(t *testing.T) {
	cases := []struct {
		beats []int
		want  bool
	}{
		{nil, true},
		{[]int{1, 2, 3}, true},
		{[]int{1, 1, 3}, false},
		{[]int{3, 2}, false},
	}
	for _, tc := range cases {
		if got := StrictlyIncreasing(tc.beats); got != tc.want {
			t.Errorf("StrictlyIncreasing(%v) = %v, want %v", tc.beats, got, tc.want)
		}
	}
}
