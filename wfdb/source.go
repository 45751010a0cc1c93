package wfdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RyanBlaney/latido/config"
	"github.com/RyanBlaney/latido/logging"
	"github.com/RyanBlaney/latido/record"
)

// Source serves the WFDB records found in one directory
type Source struct {
	dir    string
	input  config.InputConfig
	logger logging.Logger
}

// NewSource creates a source over dir. The directory must exist.
func NewSource(dir string, input config.InputConfig) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", dir)
	}

	return &Source{
		dir:   dir,
		input: input,
		logger: logging.WithFields(logging.Fields{
			"component": "wfdb_source",
			"dir":       dir,
		}),
	}, nil
}

// List returns the ids of all records with a header file, sorted
func (s *Source) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.hea"))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), ".hea"))
	}
	sort.Strings(ids)

	return ids, nil
}

// LoadRecording reads the configured channel of a record in physical units
func (s *Source) LoadRecording(id string) (*record.Recording, error) {
	h, err := ReadHeader(filepath.Join(s.dir, id+".hea"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", record.ErrRecordingUnavailable, id, err)
	}

	channel, err := s.selectChannel(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", record.ErrRecordingUnavailable, id, err)
	}

	samples, err := ReadPhysical(s.dir, h, channel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", record.ErrRecordingUnavailable, id, err)
	}

	spec := h.Signals[channel]
	s.logger.Debug("Loaded recording", logging.Fields{
		"record":      id,
		"channel":     channel,
		"lead":        spec.Description,
		"format":      spec.Format,
		"sample_rate": h.SampleRate,
		"samples":     len(samples),
	})

	return &record.Recording{
		ID:         id,
		Samples:    samples,
		SampleRate: h.SampleRate,
		Channel:    channel,
		Lead:       spec.Description,
		Units:      spec.Units,
	}, nil
}

// LoadAnnotations reads the reference annotations of a record
func (s *Source) LoadAnnotations(id string) ([]record.Annotation, error) {
	ext := s.input.AnnotationExtension
	if ext == "" {
		ext = "atr"
	}

	anns, err := ReadAnnotationFile(filepath.Join(s.dir, id+"."+ext))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", record.ErrAnnotationUnavailable, id, err)
	}

	s.logger.Debug("Loaded annotations", logging.Fields{
		"record":      id,
		"annotations": len(anns),
	})
	return anns, nil
}

// selectChannel prefers the first signal whose description matches the
// preferred lead and otherwise falls back to the configured index
func (s *Source) selectChannel(h *Header) (int, error) {
	if len(h.Signals) == 0 {
		return 0, fmt.Errorf("record has no signals")
	}

	if lead := s.input.PreferredLead; lead != "" {
		for i, sig := range h.Signals {
			if sig.Description == lead {
				return i, nil
			}
		}
	}

	if s.input.Channel < 0 || s.input.Channel >= len(h.Signals) {
		return 0, fmt.Errorf("channel %d out of range (%d signals)", s.input.Channel, len(h.Signals))
	}
	return s.input.Channel, nil
}
