package features

import (
	"math"

	"github.com/RyanBlaney/latido/algorithms/common"
	"github.com/RyanBlaney/latido/algorithms/temporal"
	"github.com/RyanBlaney/latido/config"
)

// Rhythm holds the RR-interval features of one beat
type Rhythm struct {
	MeanRR float64 `json:"mean_rr"` // seconds
	StdRR  float64 `json:"std_rr"`  // seconds, population
	RMSSD  float64 `json:"rmssd"`   // seconds
	PNN50  float64 `json:"pnn50"`   // fraction of successive differences above the threshold
	HRBPM  float64 `json:"hr_bpm"`  // from the preceding interval
}

// RhythmFeatures computes the rhythm features of beat i from the full RR
// sequence, where rr[i-1] is the interval ending at beat i. The local context
// is rr[i-LookBehind : i+LookAhead], clipped to the sequence.
func RhythmFeatures(rr []float64, i int, cfg config.RhythmConfig) Rhythm {
	local := rr[max(0, i-cfg.LookBehind):min(len(rr), i+cfg.LookAhead)]

	r := Rhythm{
		MeanRR: common.Mean(local),
		StdRR:  common.PopStdDev(local),
	}

	diffs := common.Diff(local)
	if len(diffs) > 0 {
		over := 0
		for _, d := range diffs {
			if math.Abs(d) > cfg.PNNThresholdSeconds {
				over++
			}
		}
		r.RMSSD = common.RMS(diffs)
		r.PNN50 = float64(over) / float64(max(1, len(local)-1))
	}

	if i >= 1 && i-1 < len(rr) {
		r.HRBPM = temporal.HeartRate(rr[i-1])
	}

	return r
}
