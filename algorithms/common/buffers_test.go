package common

import (
	"slices"
	"testing"
)

func TestCircularBufferKeepsMostRecent(t *testing.T) {
	cb := NewCircularBuffer(3)
	if !cb.IsEmpty() || cb.Mean() != 0 {
		t.Fatal("new buffer should be empty with zero mean")
	}

	cb.Write(1, 2)
	if cb.IsFull() || cb.Available() != 2 {
		t.Errorf("available = %d, full = %v", cb.Available(), cb.IsFull())
	}

	cb.Write(3, 4, 5)
	if got, want := cb.Values(), []float64{3, 4, 5}; !slices.Equal(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
	if !cb.IsFull() || cb.Mean() != 4 {
		t.Errorf("full = %v, mean = %g", cb.IsFull(), cb.Mean())
	}

	cb.Clear()
	if !cb.IsEmpty() || len(cb.Values()) != 0 {
		t.Error("Clear should empty the buffer")
	}
}
