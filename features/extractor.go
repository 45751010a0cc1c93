// Package features turns detected beats into fixed-length feature vectors:
// local rhythm statistics, QRS morphology, Welch band powers and the shape
// of the signal around each R peak.
package features

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/latido/algorithms/spectral"
	"github.com/RyanBlaney/latido/algorithms/temporal"
	"github.com/RyanBlaney/latido/config"
)

var (
	// ErrInsufficientRhythmContext is returned when a recording has too few
	// RR intervals for rhythm features. The recording is skipped.
	ErrInsufficientRhythmContext = errors.New("insufficient rhythm context")

	// ErrWindowTooShort is returned for a beat whose clipped window is below
	// the minimum length. Only that beat is skipped.
	ErrWindowTooShort = errors.New("window too short")
)

// Skip records a beat that produced no vector
type Skip struct {
	Sample int
	Err    error
}

// Result holds the vectors of one recording in beat order
type Result struct {
	Vectors []Vector
	Skipped []Skip
}

// Extractor computes feature vectors for the interior beats of a recording
type Extractor struct {
	windower *Windower
	welch    *spectral.Welch
	rhythm   config.RhythmConfig
	spectral config.SpectralConfig
}

// NewExtractor creates an extractor from the run configuration
func NewExtractor(cfg *config.Config) *Extractor {
	return &Extractor{
		windower: NewWindower(cfg.Window),
		welch:    spectral.NewWelch(cfg.Spectral.MaxSegment),
		rhythm:   cfg.Rhythm,
		spectral: cfg.Spectral,
	}
}

// Extract computes vectors for beats[1 : len(beats)-1]. The first and last
// beats only provide RR context. Beats whose window is too short are listed
// in Result.Skipped.
func (e *Extractor) Extract(recordID string, signal []float64, sampleRate float64, beats []int) (*Result, error) {
	rr := temporal.RRIntervals(beats, sampleRate)
	if len(rr) < e.rhythm.MinIntervals {
		return nil, fmt.Errorf("%w: %d RR intervals, need %d",
			ErrInsufficientRhythmContext, len(rr), e.rhythm.MinIntervals)
	}

	res := &Result{}
	for i := 1; i < len(beats)-1; i++ {
		v, err := e.Beat(recordID, signal, sampleRate, beats, rr, i)
		if errors.Is(err, ErrWindowTooShort) {
			res.Skipped = append(res.Skipped, Skip{Sample: beats[i], Err: err})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("beat %d: %w", beats[i], err)
		}
		res.Vectors = append(res.Vectors, v)
	}

	return res, nil
}

// Beat computes the vector of beats[i] given the recording's RR sequence
func (e *Extractor) Beat(recordID string, signal []float64, sampleRate float64, beats []int, rr []float64, i int) (Vector, error) {
	win, err := e.windower.Window(beats[i], len(signal), sampleRate)
	if err != nil {
		return Vector{}, err
	}
	segment := win.Segment(signal)

	powers, err := SpectralFeatures(e.welch, segment, sampleRate, e.spectral)
	if err != nil {
		return Vector{}, fmt.Errorf("spectral features: %w", err)
	}

	return assemble(recordID, beats[i],
		RhythmFeatures(rr, i, e.rhythm),
		MorphologyFeatures(signal, win, sampleRate),
		powers,
		ShapeFeatures(segment),
	), nil
}
