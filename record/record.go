// Package record defines the in-memory shape of a waveform recording, its
// beat annotations, and the Source interface the pipeline reads them from.
package record

import (
	"errors"
	"time"
)

var (
	// ErrRecordingUnavailable is returned when a recording cannot be read or
	// decoded. The pipeline skips the recording and continues.
	ErrRecordingUnavailable = errors.New("recording unavailable")

	// ErrAnnotationUnavailable is returned when a recording's annotation
	// stream cannot be read. The pipeline skips the recording and continues.
	ErrAnnotationUnavailable = errors.New("annotation unavailable")
)

// Recording is a single-channel waveform. It is not modified after load.
type Recording struct {
	ID         string    `json:"id"`
	Samples    []float64 `json:"-"`           // Physical units (usually mV)
	SampleRate float64   `json:"sample_rate"` // Hz
	Channel    int       `json:"channel"`     // Index of the selected signal
	Lead       string    `json:"lead"`        // Signal description, e.g. "MLII"
	Units      string    `json:"units"`
}

// Duration returns the recording length
func (r *Recording) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(r.Samples)) / r.SampleRate * float64(time.Second))
}

// Annotation is an expert-labelled event. Sequences are ordered by
// non-decreasing Sample.
type Annotation struct {
	Sample int    `json:"sample"`
	Symbol string `json:"symbol"`
}

// Source provides recordings and their annotations by id
type Source interface {
	// List returns the available recording ids in lexicographic order
	List() ([]string, error)

	// LoadRecording reads the waveform of one recording
	LoadRecording(id string) (*Recording, error)

	// LoadAnnotations reads the ordered annotation sequence of one recording
	LoadAnnotations(id string) ([]Annotation, error)
}
