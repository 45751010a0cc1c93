package table

import (
	"fmt"
	"sync"
)

// MemoryTable keeps rows in memory. It is safe for concurrent use.
type MemoryTable struct {
	mu     sync.Mutex
	rows   []Row
	closed bool
}

// NewMemoryTable creates an empty table
func NewMemoryTable() *MemoryTable {
	return &MemoryTable{}
}

// Append adds rows to the end of the table
func (m *MemoryTable) Append(rows ...Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("append to closed table")
	}
	m.rows = append(m.rows, rows...)
	return nil
}

// Close marks the table closed
func (m *MemoryTable) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Rows returns a copy of the rows appended so far
func (m *MemoryTable) Rows() []Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	return out
}

// Len returns the number of rows
func (m *MemoryTable) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.rows)
}
