package spectral

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func sine(freq, sampleRate float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return x
}

func TestWelchSinusoidPeak(t *testing.T) {
	const fs = 100.0
	psd, err := NewWelch(256).Compute(sine(10, fs, 1000), fs)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(psd.Frequencies) != 129 || len(psd.Density) != 129 {
		t.Fatalf("bins = %d/%d, want 129", len(psd.Frequencies), len(psd.Density))
	}
	// (1000-256)/128 + 1
	if psd.Segments != 6 {
		t.Errorf("segments = %d, want 6", psd.Segments)
	}

	peak := psd.Frequencies[floats.MaxIdx(psd.Density)]
	if math.Abs(peak-10) > psd.Resolution() {
		t.Errorf("peak at %.3f Hz, want 10 Hz", peak)
	}

	// Density scaling: the integral recovers the signal power of 0.5
	total := BandPower(psd, 0, fs/2)
	if !scalar.EqualWithinAbs(total, 0.5, 0.02) {
		t.Errorf("total power = %.4f, want ~0.5", total)
	}

	// Nearly everything sits between 5 and 15 Hz
	inBand := BandPower(psd, 5, 15)
	if inBand/total < 0.99 {
		t.Errorf("in-band fraction = %.4f", inBand/total)
	}
}

func TestWelchShortSignalUsesSingleSegment(t *testing.T) {
	psd, err := NewWelch(256).Compute(sine(5, 360, 200), 360)
	if err != nil {
		t.Fatal(err)
	}
	if psd.Segments != 1 {
		t.Errorf("segments = %d, want 1", psd.Segments)
	}
	if len(psd.Density) != 101 {
		t.Errorf("bins = %d, want 101", len(psd.Density))
	}
	if !scalar.EqualWithinAbs(psd.Resolution(), 1.8, 1e-12) {
		t.Errorf("resolution = %g, want 1.8", psd.Resolution())
	}
}

func TestWelchRemovesMean(t *testing.T) {
	x := make([]float64, 300)
	for i := range x {
		x[i] = 7
	}
	psd, err := NewWelch(256).Compute(x, 250)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range psd.Density {
		if v > 1e-20 {
			t.Fatalf("density[%d] = %g for constant input", k, v)
		}
	}
}

func TestWelchErrors(t *testing.T) {
	if _, err := NewWelch(256).Compute(nil, 360); err == nil {
		t.Error("expected error for empty signal")
	}
	if _, err := NewWelch(256).Compute([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := NewWelch(0).Compute([]float64{1, 2}, 360); err == nil {
		t.Error("expected error for zero segment length")
	}
}

func TestBandPowerNeedsTwoBins(t *testing.T) {
	psd := &PSD{
		Frequencies: []float64{0, 1, 2, 3},
		Density:     []float64{1, 1, 1, 1},
	}

	if got := BandPower(psd, 0.5, 1.5); got != 0 {
		t.Errorf("single bin power = %g, want 0", got)
	}
	if got := BandPower(psd, 10, 20); got != 0 {
		t.Errorf("empty band power = %g, want 0", got)
	}
	if got := BandPower(psd, 1, 3); !scalar.EqualWithinAbs(got, 2, 1e-12) {
		t.Errorf("power = %g, want 2", got)
	}
	if got := BandPower(nil, 0, 1); got != 0 {
		t.Errorf("nil psd power = %g", got)
	}
}

func TestDensityFolding(t *testing.T) {
	ps := NewPowerSpectrum()

	even := ps.Density([]complex128{1, 1, 1, 1}, 1)
	want := []float64{1, 2, 1}
	for k := range want {
		if even[k] != want[k] {
			t.Errorf("even[%d] = %g, want %g", k, even[k], want[k])
		}
	}

	odd := ps.Density([]complex128{1, 1, 1, 1, 1}, 1)
	want = []float64{1, 2, 2}
	for k := range want {
		if odd[k] != want[k] {
			t.Errorf("odd[%d] = %g, want %g", k, odd[k], want[k])
		}
	}
}
