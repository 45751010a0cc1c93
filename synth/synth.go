// Package synth generates deterministic synthetic ECG recordings with beat
// annotations and writes them as WFDB records.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/RyanBlaney/latido/logging"
	"github.com/RyanBlaney/latido/record"
	"github.com/RyanBlaney/latido/wfdb"
)

// wave is one Gaussian component of a beat, positioned relative to the R peak
type wave struct {
	offset    float64 // seconds from R
	sigma     float64 // seconds
	amplitude float64 // mV
}

var (
	normalBeat = []wave{
		{offset: -0.112, sigma: 0.024, amplitude: 0.08},  // P
		{offset: -0.016, sigma: 0.008, amplitude: -0.12}, // Q
		{offset: 0, sigma: 0.0064, amplitude: 1.0},       // R
		{offset: 0.024, sigma: 0.0096, amplitude: -0.25}, // S
		{offset: 0.224, sigma: 0.048, amplitude: 0.25},   // T
	}

	// Wide QRS without a P wave, discordant T
	ventricularBeat = []wave{
		{offset: 0, sigma: 0.02, amplitude: 1.2},
		{offset: 0.05, sigma: 0.03, amplitude: -0.4},
		{offset: 0.26, sigma: 0.06, amplitude: -0.35},
	}
)

const (
	baselineAmplitude = 0.05 // mV
	baselineFrequency = 0.33 // Hz, respiration-like wander

	prematureFactor = 0.7 // ventricular beats arrive early, then a full compensatory pause

	waveSpan = 5 // sigmas evaluated on each side of a wave
)

// Options controls a generated recording
type Options struct {
	SampleRate  float64 `json:"sample_rate"` // Hz
	Seconds     float64 `json:"seconds"`
	BPM         float64 `json:"bpm"`
	Noise       float64 `json:"noise"`        // Gaussian noise standard deviation, mV
	Variability float64 `json:"variability"`  // RR jitter as a fraction of the mean RR
	EctopicRate float64 `json:"ectopic_rate"` // Probability that a beat is ventricular
	Seed        uint64  `json:"seed"`
}

// DefaultOptions returns a one minute MIT-BIH-like recording
func DefaultOptions() Options {
	return Options{
		SampleRate:  360,
		Seconds:     60,
		BPM:         72,
		Noise:       0.01,
		Variability: 0.03,
		EctopicRate: 0.05,
		Seed:        1,
	}
}

// Validate checks value ranges
func (o Options) Validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %v", o.SampleRate)
	}
	if o.Seconds <= 0 {
		return fmt.Errorf("duration must be positive: %v", o.Seconds)
	}
	if o.BPM < 20 || o.BPM > 250 {
		return fmt.Errorf("heart rate must be between 20 and 250 bpm: %v", o.BPM)
	}
	if o.Noise < 0 {
		return fmt.Errorf("noise must be non-negative: %v", o.Noise)
	}
	if o.Variability < 0 || o.Variability >= 0.5 {
		return fmt.Errorf("variability must be in [0, 0.5): %v", o.Variability)
	}
	if o.EctopicRate < 0 || o.EctopicRate >= 1 {
		return fmt.Errorf("ectopic rate must be in [0, 1): %v", o.EctopicRate)
	}
	return nil
}

// Signal is a generated waveform with its reference annotations
type Signal struct {
	Samples     []float64
	SampleRate  float64
	Annotations []record.Annotation
}

// Generator produces P-QRS-T waveforms. The same options always produce the
// same signal.
type Generator struct {
	opts Options
}

// NewGenerator creates a generator
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts}, nil
}

// Generate renders the recording. The first beat falls half an RR interval
// after the start; beats continue until the end of the recording.
func (g *Generator) Generate() *Signal {
	fs := g.opts.SampleRate
	n := int(math.Round(g.opts.Seconds * fs))
	rng := rand.New(rand.NewPCG(g.opts.Seed, g.opts.Seed^0x9e3779b97f4a7c15))

	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / fs
		samples[i] = baselineAmplitude * math.Sin(2*math.Pi*baselineFrequency*t)
	}

	rr := 60 / g.opts.BPM
	var anns []record.Annotation

	t := rr / 2
	pause := false
	for {
		ventricular := !pause && len(anns) > 0 && rng.Float64() < g.opts.EctopicRate
		if ventricular {
			// pull the premature beat forward from its expected slot
			t -= (1 - prematureFactor) * rr
		}

		r := int(math.Round(t * fs))
		if r >= n {
			break
		}

		shape, symbol := normalBeat, "N"
		if ventricular {
			shape, symbol = ventricularBeat, "V"
		}
		addBeat(samples, r, fs, shape)
		anns = append(anns, record.Annotation{Sample: r, Symbol: symbol})

		step := rr
		if g.opts.Variability > 0 {
			step *= 1 + g.opts.Variability*(2*rng.Float64()-1)
		}
		if ventricular {
			step = rr + (1-prematureFactor)*rr
		}
		pause = ventricular
		t += step
	}

	if g.opts.Noise > 0 {
		for i := range samples {
			samples[i] += g.opts.Noise * rng.NormFloat64()
		}
	}

	return &Signal{
		Samples:     samples,
		SampleRate:  fs,
		Annotations: anns,
	}
}

// addBeat sums the waves of one beat centered on sample r
func addBeat(samples []float64, r int, fs float64, shape []wave) {
	for _, w := range shape {
		center := float64(r)/fs + w.offset
		lo := max(0, int(math.Floor((center-waveSpan*w.sigma)*fs)))
		hi := min(len(samples), int(math.Ceil((center+waveSpan*w.sigma)*fs))+1)
		for i := lo; i < hi; i++ {
			z := (float64(i)/fs - center) / w.sigma
			samples[i] += w.amplitude * math.Exp(-0.5*z*z)
		}
	}
}

// gain and resolution of written records, matching MIT-BIH
const (
	writeGain       = 200
	writeResolution = 11
	writeLead       = "MLII"
)

// WriteRecord stores sig as WFDB record id in dir with annotation extension
// ext
func WriteRecord(dir, id, ext string, sig *Signal) error {
	spec := wfdb.SignalSpec{
		Gain:          writeGain,
		Units:         "mV",
		ADCResolution: writeResolution,
		Description:   writeLead,
	}

	digital := make([]int, len(sig.Samples))
	for i, v := range sig.Samples {
		digital[i] = spec.Digital(v)
	}

	return wfdb.WriteRecord(dir, wfdb.RecordFiles{
		Header: &wfdb.Header{
			Record:     id,
			SampleRate: sig.SampleRate,
			Signals:    []wfdb.SignalSpec{spec},
		},
		Channels:            [][]int{digital},
		Annotations:         sig.Annotations,
		AnnotationExtension: ext,
	})
}

// WriteDataset writes count records named 100, 101, ... into dir. Record i
// uses seed opts.Seed+i. It returns the written ids.
func WriteDataset(dir, ext string, count int, opts Options) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("record count must be positive: %d", count)
	}

	logger := logging.WithFields(logging.Fields{
		"component": "synth",
	})

	ids := make([]string, 0, count)
	for i := range count {
		o := opts
		o.Seed = opts.Seed + uint64(i)

		gen, err := NewGenerator(o)
		if err != nil {
			return nil, err
		}
		sig := gen.Generate()

		id := fmt.Sprintf("%d", 100+i)
		if err := WriteRecord(dir, id, ext, sig); err != nil {
			return nil, fmt.Errorf("write record %s: %w", id, err)
		}

		logger.Debug("Wrote synthetic record", logging.Fields{
			"record": id,
			"beats":  len(sig.Annotations),
		})
		ids = append(ids, id)
	}

	return ids, nil
}
