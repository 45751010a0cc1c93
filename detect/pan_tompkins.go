package detect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/latido/algorithms/common"
	"github.com/RyanBlaney/latido/algorithms/filters"
	"github.com/RyanBlaney/latido/algorithms/temporal"
	"github.com/RyanBlaney/latido/config"
)

const (
	rrHistory        = 8    // RR intervals averaged for search-back
	searchBackFactor = 1.66 // missed-beat gap relative to the mean RR
	tWaveSeconds     = 0.36 // candidates closer than this to a QRS may be T waves
	slopeSeconds     = 0.075
)

// PanTompkins implements the Pan-Tompkins QRS detector.
//
// References:
//   - J. Pan, W.J. Tompkins, "A Real-Time QRS Detection Algorithm",
//     IEEE Trans. Biomed. Eng. BME-32(3), 1985
//   - P.S. Hamilton, W.J. Tompkins, "Quantitative Investigation of QRS
//     Detection Rules Using the MIT/BIH Arrhythmia Database", 1986
//
// The conditioned signal is differentiated, squared and integrated over a
// moving window. Peaks of the integrated signal are classified against
// adaptive thresholds that track running signal (SPKI) and noise (NPKI)
// peak levels:
//
//	THRESHOLD1 = NPKI + 0.25 (SPKI - NPKI)
//	THRESHOLD2 = 0.5 THRESHOLD1
//
// When no beat has been found for 166% of the recent mean RR interval the
// largest skipped peak above THRESHOLD2 is recovered. Accepted peaks are
// refined to the signal maximum nearby.
type PanTompkins struct {
	refractory        float64 // seconds
	integrationWindow float64 // seconds
	searchRadius      float64 // seconds
	learning          float64 // seconds
}

// NewPanTompkins creates a detector from detection settings
func NewPanTompkins(cfg config.DetectionConfig) *PanTompkins {
	return &PanTompkins{
		refractory:        cfg.RefractorySeconds,
		integrationWindow: cfg.IntegrationWindow,
		searchRadius:      cfg.SearchRadius,
		learning:          cfg.LearningSeconds,
	}
}

// Name returns the strategy name
func (pt *PanTompkins) Name() string {
	return "pan-tompkins"
}

// peakLevels holds the running signal and noise estimates
type peakLevels struct {
	spki, npki float64
}

func (l *peakLevels) threshold1() float64 {
	return l.npki + 0.25*(l.spki-l.npki)
}

func (l *peakLevels) threshold2() float64 {
	return 0.5 * l.threshold1()
}

// Detect returns the R-peak indices of signal in increasing order
func (pt *PanTompkins) Detect(signal []float64, sampleRate float64) ([]int, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %v", sampleRate)
	}

	window := samples(pt.integrationWindow, sampleRate)
	if len(signal) < 2*window {
		return nil, fmt.Errorf("signal of %d samples is shorter than two integration windows", len(signal))
	}
	if common.IsFlat(signal) {
		return nil, fmt.Errorf("flat signal")
	}

	slope := filters.NewDerivative(sampleRate).ProcessBuffer(signal)
	integrated := temporal.NewEnvelope().Integrate(filters.Square(slope), window)

	refractory := samples(pt.refractory, sampleRate)
	candidates := common.FindPeaks(integrated, 0, refractory)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate peaks")
	}

	learn := min(len(integrated), samples(pt.learning, sampleRate))
	levels := peakLevels{
		spki: floats.Max(integrated[:learn]) / 3,
		npki: common.Mean(integrated[:learn]) / 2,
	}

	tWave := samples(tWaveSeconds, sampleRate)
	slopeHalf := samples(slopeSeconds, sampleRate)
	maxSlope := func(center int) float64 {
		best := 0.0
		for j := max(0, center-slopeHalf); j < min(len(slope), center+slopeHalf+1); j++ {
			best = max(best, math.Abs(slope[j]))
		}
		return best
	}

	var (
		qrs       []int
		lastSlope float64
		skipped   []int // noise peaks since the last QRS
		rr        = common.NewCircularBuffer(rrHistory)
	)

	accept := func(c int, learningRate float64) {
		if n := len(qrs); n > 0 {
			rr.Write(float64(c - qrs[n-1]))
		}
		qrs = append(qrs, c)
		lastSlope = maxSlope(c)
		levels.spki = learningRate*integrated[c] + (1-learningRate)*levels.spki
		skipped = skipped[:0]
	}

	for _, c := range candidates {
		// Search back for a beat missed since the last QRS
		if n := len(qrs); n > 0 && !rr.IsEmpty() &&
			float64(c-qrs[n-1]) > searchBackFactor*rr.Mean() {
			best := -1
			for _, s := range skipped {
				if integrated[s] > levels.threshold2() && (best < 0 || integrated[s] > integrated[best]) {
					best = s
				}
			}
			if best >= 0 {
				accept(best, 0.25)
			}
		}

		peak := integrated[c]
		if peak <= levels.threshold1() {
			levels.npki = 0.125*peak + 0.875*levels.npki
			skipped = append(skipped, c)
			continue
		}

		// Low-slope candidates shortly after a QRS are T waves
		if n := len(qrs); n > 0 && c-qrs[n-1] < tWave && maxSlope(c) < 0.5*lastSlope {
			levels.npki = 0.125*peak + 0.875*levels.npki
			continue
		}

		accept(c, 0.125)
	}

	if len(qrs) == 0 {
		return nil, fmt.Errorf("no QRS complexes above threshold")
	}

	return refine(signal, qrs, samples(pt.searchRadius, sampleRate)), nil
}

// refine moves each detection to the signal maximum within radius samples
// and drops detections that collapse onto an earlier one
func refine(signal []float64, qrs []int, radius int) []int {
	beats := make([]int, 0, len(qrs))
	for _, q := range qrs {
		r := common.ArgMax(signal, q-radius, q+radius+1)
		if r < 0 {
			continue
		}
		if n := len(beats); n > 0 && r <= beats[n-1] {
			continue
		}
		beats = append(beats, r)
	}
	return beats
}
