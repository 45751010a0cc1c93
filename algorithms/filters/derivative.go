package filters

// Derivative implements the five-point derivative used in QRS detection.
//
// The filter implements the transfer function:
// H(z) = (fs/8) * (-z^-2 - 2z^-1 + 2z + z^2)
//
// It is applied centered, so the output is aligned with the input and the
// two samples at each edge are zero.
//
// References:
//   - J. Pan, W.J. Tompkins, "A Real-Time QRS Detection Algorithm",
//     IEEE Trans. Biomed. Eng. BME-32(3), 1985
type Derivative struct {
	sampleRate float64
}

// NewDerivative creates a derivative filter scaled to units per second
func NewDerivative(sampleRate float64) *Derivative {
	return &Derivative{sampleRate: sampleRate}
}

// ProcessBuffer returns the centered derivative of input
func (d *Derivative) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	scale := d.sampleRate / 8.0

	for n := 2; n < len(input)-2; n++ {
		output[n] = scale * (2*input[n+1] + input[n+2] - input[n-2] - 2*input[n-1])
	}

	return output
}

// Square returns the element-wise square of input
func Square(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, v := range input {
		output[i] = v * v
	}
	return output
}
