// Package table defines the row-oriented output of a run and the sinks that
// accept it.
package table

import (
	"strconv"

	"github.com/RyanBlaney/latido/features"
	"github.com/RyanBlaney/latido/label"
)

// Row is one labelled beat
type Row struct {
	Features features.Vector `json:"features"`
	Label    label.Class     `json:"label"`
}

// Sink is an append-only destination for rows. Implementations are not
// required to be safe for concurrent use.
type Sink interface {
	Append(rows ...Row) error
	Close() error
}

// Columns returns the output header: record, sample, the features in
// features.FieldNames order, then label
func Columns() []string {
	cols := make([]string, 0, len(features.FieldNames)+3)
	cols = append(cols, "record", "sample")
	cols = append(cols, features.FieldNames...)
	return append(cols, "label")
}

// Strings formats a row in column order. Floats use the shortest
// representation that round-trips, so output is byte-for-byte reproducible.
func (r *Row) Strings() []string {
	values := r.Features.Values()

	out := make([]string, 0, len(values)+3)
	out = append(out, r.Features.Record, strconv.Itoa(r.Features.Sample))
	for _, v := range values {
		out = append(out, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return append(out, string(r.Label))
}
