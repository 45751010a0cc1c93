package features

import "github.com/RyanBlaney/latido/algorithms/common"

// FieldNames is the column order of a feature vector
var FieldNames = []string{
	"mean_rr", "std_rr", "rmssd", "pnn50", "hr_bpm",
	"qrs_width", "r_amp",
	"p_tot", "p_low", "p_mid", "p_high",
	"skew", "kurtosis",
}

// Vector is the feature vector of one beat
type Vector struct {
	Record string `json:"record"`
	Sample int    `json:"sample"` // R-peak index

	MeanRR   float64 `json:"mean_rr"`
	StdRR    float64 `json:"std_rr"`
	RMSSD    float64 `json:"rmssd"`
	PNN50    float64 `json:"pnn50"`
	HRBPM    float64 `json:"hr_bpm"`
	QRSWidth float64 `json:"qrs_width"`
	RAmp     float64 `json:"r_amp"`
	PTot     float64 `json:"p_tot"`
	PLow     float64 `json:"p_low"`
	PMid     float64 `json:"p_mid"`
	PHigh    float64 `json:"p_high"`
	Skew     float64 `json:"skew"`
	Kurtosis float64 `json:"kurtosis"`
}

// Values returns the feature values in FieldNames order
func (v *Vector) Values() []float64 {
	return []float64{
		v.MeanRR, v.StdRR, v.RMSSD, v.PNN50, v.HRBPM,
		v.QRSWidth, v.RAmp,
		v.PTot, v.PLow, v.PMid, v.PHigh,
		v.Skew, v.Kurtosis,
	}
}

// assemble combines the per-family features, replacing non-finite values
// with 0
func assemble(record string, sample int, r Rhythm, m Morphology, p BandPowers, s Shape) Vector {
	f := common.SafeFloat
	return Vector{
		Record:   record,
		Sample:   sample,
		MeanRR:   f(r.MeanRR),
		StdRR:    f(r.StdRR),
		RMSSD:    f(r.RMSSD),
		PNN50:    f(r.PNN50),
		HRBPM:    f(r.HRBPM),
		QRSWidth: f(m.QRSWidth),
		RAmp:     f(m.RAmp),
		PTot:     f(p.Total),
		PLow:     f(p.Low),
		PMid:     f(p.Mid),
		PHigh:    f(p.High),
		Skew:     f(s.Skew),
		Kurtosis: f(s.Kurtosis),
	}
}
