package filters

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// ZPK is a filter in zero/pole/gain form
type ZPK struct {
	Zeros []complex128
	Poles []complex128
	Gain  float64
}

// ButterworthPrototype returns the analog lowpass Butterworth prototype of the
// given order (cutoff 1 rad/s). Poles lie on the left half of the unit circle.
//
// References:
//   - S. Butterworth, "On the Theory of Filter Amplifiers", Wireless Engineer, 1930
//   - A.V. Oppenheim, R.W. Schafer, "Discrete-Time Signal Processing", 3rd ed., §7.2
func ButterworthPrototype(order int) ZPK {
	poles := make([]complex128, order)
	for k := range order {
		m := float64(-order + 1 + 2*k)
		poles[k] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order)))
	}
	return ZPK{Poles: poles, Gain: 1.0}
}

// LowpassToBandpass transforms an analog lowpass prototype into a bandpass
// filter centered at wo (rad/s) with bandwidth bw (rad/s).
func LowpassToBandpass(proto ZPK, wo, bw float64) ZPK {
	degree := len(proto.Poles) - len(proto.Zeros)

	transform := func(roots []complex128) []complex128 {
		out := make([]complex128, 0, 2*len(roots))
		w2 := complex(wo*wo, 0)
		var upper, lower []complex128
		for _, r := range roots {
			scaled := r * complex(bw/2, 0)
			root := cmplx.Sqrt(scaled*scaled - w2)
			upper = append(upper, scaled+root)
			lower = append(lower, scaled-root)
		}
		out = append(out, upper...)
		return append(out, lower...)
	}

	zeros := transform(proto.Zeros)
	for range degree {
		zeros = append(zeros, 0)
	}

	return ZPK{
		Zeros: zeros,
		Poles: transform(proto.Poles),
		Gain:  proto.Gain * math.Pow(bw, float64(degree)),
	}
}

// Bilinear maps an analog ZPK filter to the z-plane. fs is the sampling
// frequency the analog frequencies were pre-warped for.
func Bilinear(analog ZPK, fs float64) ZPK {
	fs2 := complex(2*fs, 0)
	degree := len(analog.Poles) - len(analog.Zeros)

	zeros := make([]complex128, 0, len(analog.Zeros)+degree)
	num := complex(1, 0)
	for _, z := range analog.Zeros {
		zeros = append(zeros, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}
	// Zeros at infinity move to Nyquist
	for range degree {
		zeros = append(zeros, -1)
	}

	poles := make([]complex128, len(analog.Poles))
	den := complex(1, 0)
	for i, p := range analog.Poles {
		poles[i] = (fs2 + p) / (fs2 - p)
		den *= fs2 - p
	}

	return ZPK{
		Zeros: zeros,
		Poles: poles,
		Gain:  analog.Gain * real(num/den),
	}
}

// DesignButterworthBandpass designs a digital Butterworth bandpass filter of the
// given order with edges lowHz and highHz at sampleRate, returned as
// second-order sections. The resulting filter has 2*order poles.
func DesignButterworthBandpass(order int, lowHz, highHz, sampleRate float64) ([]Section, error) {
	if order < 1 {
		return nil, fmt.Errorf("filter order must be positive: %d", order)
	}
	if sampleRate <= 2*highHz {
		return nil, fmt.Errorf("%w: %.2f Hz does not exceed twice the %.2f Hz upper cutoff",
			ErrInvalidSampleRate, sampleRate, highHz)
	}
	if lowHz <= 0 || highHz <= lowHz {
		return nil, fmt.Errorf("bandpass edges must satisfy 0 < low < high: %.3f, %.3f", lowHz, highHz)
	}

	nyquist := sampleRate / 2

	// Pre-warp normalized edges for a bilinear transform at fs=2
	const fs = 2.0
	warpedLow := 2 * fs * math.Tan(math.Pi*(lowHz/nyquist)/fs)
	warpedHigh := 2 * fs * math.Tan(math.Pi*(highHz/nyquist)/fs)

	bw := warpedHigh - warpedLow
	wo := math.Sqrt(warpedLow * warpedHigh)

	analog := LowpassToBandpass(ButterworthPrototype(order), wo, bw)
	digital := Bilinear(analog, fs)

	return zpkToSections(digital)
}

// zpkToSections groups conjugate pole pairs into biquads. Every section of a
// bandpass design receives one zero at +1 and one at -1; the overall gain is
// folded into the first section.
func zpkToSections(zpk ZPK) ([]Section, error) {
	if len(zpk.Poles)%2 != 0 {
		return nil, fmt.Errorf("odd pole count %d cannot form biquads", len(zpk.Poles))
	}

	const eps = 1e-10

	var complexPoles []complex128
	var realPoles []float64
	for _, p := range zpk.Poles {
		switch {
		case imag(p) > eps:
			complexPoles = append(complexPoles, p)
		case math.Abs(imag(p)) <= eps:
			realPoles = append(realPoles, real(p))
		}
	}
	if len(realPoles)%2 != 0 {
		return nil, fmt.Errorf("unpaired real pole in design")
	}

	var zerosPos, zerosNeg int
	for _, z := range zpk.Zeros {
		if real(z) > 0 {
			zerosPos++
		} else {
			zerosNeg++
		}
	}

	numSections := len(zpk.Poles) / 2
	if zerosPos != numSections || zerosNeg != numSections {
		return nil, fmt.Errorf("zeros do not match a bandpass layout: %d at +1, %d at -1", zerosPos, zerosNeg)
	}

	sections := make([]Section, 0, numSections)
	for _, p := range complexPoles {
		sections = append(sections, Section{
			B: [3]float64{1, 0, -1},
			A: [3]float64{1, -2 * real(p), real(p)*real(p) + imag(p)*imag(p)},
		})
	}
	sort.Float64s(realPoles)
	for i := 0; i+1 < len(realPoles); i += 2 {
		p1, p2 := realPoles[i], realPoles[i+1]
		sections = append(sections, Section{
			B: [3]float64{1, 0, -1},
			A: [3]float64{1, -(p1 + p2), p1 * p2},
		})
	}

	if len(sections) != numSections {
		return nil, fmt.Errorf("expected %d sections, built %d", numSections, len(sections))
	}

	// Poles closest to the unit circle go last
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].A[2] < sections[j].A[2]
	})

	for k := range sections[0].B {
		sections[0].B[k] *= zpk.Gain
	}

	return sections, nil
}
