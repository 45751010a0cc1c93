package common

// CircularBuffer keeps the most recent size values, overwriting the oldest
// once full
type CircularBuffer struct {
	buffer   []float64
	size     int
	writePos int
	readPos  int
	count    int
}

// NewCircularBuffer creates a new circular buffer
func NewCircularBuffer(size int) *CircularBuffer {
	return &CircularBuffer{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Write adds data to the buffer
func (cb *CircularBuffer) Write(data ...float64) int {
	written := 0
	for _, sample := range data {
		if cb.count < cb.size {
			cb.buffer[cb.writePos] = sample
			cb.writePos = (cb.writePos + 1) % cb.size
			cb.count++
			written++
		} else {
			// Buffer full, overwrite oldest data
			cb.buffer[cb.writePos] = sample
			cb.writePos = (cb.writePos + 1) % cb.size
			cb.readPos = (cb.readPos + 1) % cb.size
			written++
		}
	}
	return written
}

// Values returns the buffered values oldest first without consuming them
func (cb *CircularBuffer) Values() []float64 {
	out := make([]float64, cb.count)
	pos := cb.readPos
	for i := range out {
		out[i] = cb.buffer[pos]
		pos = (pos + 1) % cb.size
	}
	return out
}

// Mean returns the mean of the buffered values, or 0 when empty
func (cb *CircularBuffer) Mean() float64 {
	return Mean(cb.Values())
}

// Available returns number of values held
func (cb *CircularBuffer) Available() int {
	return cb.count
}

// Clear empties the buffer
func (cb *CircularBuffer) Clear() {
	cb.writePos = 0
	cb.readPos = 0
	cb.count = 0
}

// IsFull returns true if buffer is full
func (cb *CircularBuffer) IsFull() bool {
	return cb.count == cb.size
}

// IsEmpty returns true if buffer is empty
func (cb *CircularBuffer) IsEmpty() bool {
	return cb.count == 0
}
