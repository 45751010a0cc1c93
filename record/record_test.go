package record

import (
	"testing"
	"time"
)

func TestRecordingDuration(t *testing.T) {
	r := &Recording{Samples: make([]float64, 3600), SampleRate: 360}
	if got := r.Duration(); got != 10*time.Second {
		t.Errorf("Duration = %v, want 10s", got)
	}

	r.SampleRate = 0
	if r.Duration() != 0 {
		t.Error("zero sample rate should give zero duration")
	}
}
