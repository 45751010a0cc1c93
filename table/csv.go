package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVWriter writes rows as comma-separated values with a header line. The
// header is written even when no rows are appended.
type CSVWriter struct {
	w           *csv.Writer
	closer      io.Closer
	wroteHeader bool
	closed      bool
}

// NewCSVWriter writes to w. Closing the writer flushes but does not close w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// CreateCSV creates (or truncates) the file at path
func CreateCSV(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	c := NewCSVWriter(f)
	c.closer = f
	return c, nil
}

func (c *CSVWriter) writeHeader() error {
	if c.wroteHeader {
		return nil
	}
	c.wroteHeader = true
	return c.w.Write(Columns())
}

// Append writes rows and flushes them
func (c *CSVWriter) Append(rows ...Row) error {
	if c.closed {
		return fmt.Errorf("append to closed table")
	}
	if err := c.writeHeader(); err != nil {
		return err
	}

	for i := range rows {
		if err := c.w.Write(rows[i].Strings()); err != nil {
			return err
		}
	}

	c.w.Flush()
	return c.w.Error()
}

// Close flushes pending output and closes the underlying file, if any
func (c *CSVWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.writeHeader()
	c.w.Flush()
	if err == nil {
		err = c.w.Error()
	}

	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
