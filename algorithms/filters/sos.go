package filters

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Section is one second-order (biquad) stage with a[0] normalized to 1
type Section struct {
	B [3]float64 // Numerator coefficients
	A [3]float64 // Denominator coefficients
}

// sectionState holds the two transposed direct form II delay registers
type sectionState [2]float64

// filterSections runs x through the cascade using transposed direct form II.
// zi holds the initial state per section and is updated in place.
//
// Per section:
// y[n]  = b0*x[n] + z0
// z0'   = b1*x[n] - a1*y[n] + z1
// z1'   = b2*x[n] - a2*y[n]
func filterSections(sections []Section, x []float64, zi []sectionState) []float64 {
	y := make([]float64, len(x))
	copy(y, x)

	for s, sec := range sections {
		z0, z1 := zi[s][0], zi[s][1]
		for n, in := range y {
			out := sec.B[0]*in + z0
			z0 = sec.B[1]*in - sec.A[1]*out + z1
			z1 = sec.B[2]*in - sec.A[2]*out
			y[n] = out
		}
		zi[s] = sectionState{z0, z1}
	}

	return y
}

// sectionInitialState solves (I - C^T) zi = b[1:] - a[1:]*b[0] where C is
// the companion matrix of a, giving the state of a section that has settled
// on a unit step.
func sectionInitialState(sec Section) (sectionState, error) {
	a1, a2 := sec.A[1], sec.A[2]

	iMinusA := mat.NewDense(2, 2, []float64{
		1 + a1, -1,
		a2, 1,
	})
	rhs := mat.NewVecDense(2, []float64{
		sec.B[1] - a1*sec.B[0],
		sec.B[2] - a2*sec.B[0],
	})

	var zi mat.VecDense
	if err := zi.SolveVec(iMinusA, rhs); err != nil {
		return sectionState{}, fmt.Errorf("section initial state: %w", err)
	}

	return sectionState{zi.AtVec(0), zi.AtVec(1)}, nil
}

// cascadeInitialState returns step-response initial conditions for a cascade.
// Each section's state is scaled by the DC gain of the sections before it.
func cascadeInitialState(sections []Section) ([]sectionState, error) {
	zi := make([]sectionState, len(sections))
	scale := 1.0

	for s, sec := range sections {
		state, err := sectionInitialState(sec)
		if err != nil {
			return nil, err
		}
		zi[s] = sectionState{state[0] * scale, state[1] * scale}
		scale *= (sec.B[0] + sec.B[1] + sec.B[2]) / (sec.A[0] + sec.A[1] + sec.A[2])
	}

	return zi, nil
}

// padLength is the odd-extension length used by zero-phase filtering
func padLength(sections []Section) int {
	var zeroB2, zeroA2 int
	for _, sec := range sections {
		if sec.B[2] == 0 {
			zeroB2++
		}
		if sec.A[2] == 0 {
			zeroA2++
		}
	}
	return 3 * (2*len(sections) + 1 - min(zeroB2, zeroA2))
}

// oddExtend reflects x about its end points by padLen samples on each side
func oddExtend(x []float64, padLen int) []float64 {
	n := len(x)
	ext := make([]float64, 0, n+2*padLen)

	for j := padLen; j >= 1; j-- {
		ext = append(ext, 2*x[0]-x[j])
	}
	ext = append(ext, x...)
	for j := n - 2; j >= n-1-padLen; j-- {
		ext = append(ext, 2*x[n-1]-x[j])
	}

	return ext
}

func reversed(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[len(x)-1-i] = v
	}
	return out
}

// FiltFiltSections applies the cascade forward and then backward so that the
// result has zero phase and no group delay. The signal is odd-extended at
// both ends and each pass starts from settled initial conditions.
func FiltFiltSections(sections []Section, x []float64) ([]float64, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("no filter sections")
	}

	padLen := padLength(sections)
	if len(x) <= padLen {
		return nil, fmt.Errorf("%w: %d samples, need more than %d", ErrSignalTooShort, len(x), padLen)
	}

	base, err := cascadeInitialState(sections)
	if err != nil {
		return nil, err
	}

	scaled := func(v float64) []sectionState {
		zi := make([]sectionState, len(base))
		for s := range base {
			zi[s] = sectionState{base[s][0] * v, base[s][1] * v}
		}
		return zi
	}

	ext := oddExtend(x, padLen)

	// Forward pass
	y := filterSections(sections, ext, scaled(ext[0]))

	// Backward pass
	y = reversed(y)
	y = filterSections(sections, y, scaled(y[0]))
	y = reversed(y)

	return y[padLen : padLen+len(x)], nil
}

// sectionsResponse evaluates H(e^jw) of the cascade at normalized angular
// frequency w (radians/sample)
func sectionsResponse(sections []Section, w float64) complex128 {
	z1 := cmplx.Exp(complex(0, -w))
	z2 := cmplx.Exp(complex(0, -2*w))

	h := complex(1, 0)
	for _, sec := range sections {
		num := complex(sec.B[0], 0) + complex(sec.B[1], 0)*z1 + complex(sec.B[2], 0)*z2
		den := complex(sec.A[0], 0) + complex(sec.A[1], 0)*z1 + complex(sec.A[2], 0)*z2
		h *= num / den
	}

	return h
}
