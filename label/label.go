// Package label assigns beat classes from reference annotations.
package label

import (
	"sort"

	"github.com/RyanBlaney/latido/record"
)

// Class is a beat class
type Class string

// The closed set of beat classes
const (
	Normal           Class = "Normal"
	Ventricular      Class = "Ventricular"
	Supraventricular Class = "Supraventricular"
	Fusion           Class = "Fusion"
	Other            Class = "Other"
)

// Classes returns every class in a fixed order
func Classes() []Class {
	return []Class{Normal, Ventricular, Supraventricular, Fusion, Other}
}

// MapSymbol maps an annotation symbol to its class. Every symbol, including
// unknown ones, maps to exactly one class.
func MapSymbol(symbol string) Class {
	switch symbol {
	case "N":
		return Normal
	case "V", "E":
		return Ventricular
	case "A", "a", "J":
		return Supraventricular
	case "F":
		return Fusion
	default:
		return Other
	}
}

// Labeler finds the annotation nearest to a beat
type Labeler struct {
	anns []record.Annotation
}

// NewLabeler creates a labeler over annotations ordered by sample
func NewLabeler(anns []record.Annotation) *Labeler {
	return &Labeler{anns: anns}
}

// Len returns the number of annotations
func (l *Labeler) Len() int {
	return len(l.anns)
}

// Nearest returns the annotation minimizing |Sample - sample|. On ties the
// earliest annotation in the sequence wins. It reports false when there are
// no annotations.
func (l *Labeler) Nearest(sample int) (record.Annotation, bool) {
	n := len(l.anns)
	if n == 0 {
		return record.Annotation{}, false
	}

	// First annotation at or after sample
	j := sort.Search(n, func(i int) bool { return l.anns[i].Sample >= sample })

	k := j
	switch {
	case j == n:
		k = n - 1
	case j > 0 && sample-l.anns[j-1].Sample <= l.anns[j].Sample-sample:
		k = j - 1
	}

	for k > 0 && l.anns[k-1].Sample == l.anns[k].Sample {
		k--
	}
	return l.anns[k], true
}

// Label returns the class of the nearest annotation, or Other when there
// are none
func (l *Labeler) Label(sample int) Class {
	a, ok := l.Nearest(sample)
	if !ok {
		return Other
	}
	return MapSymbol(a.Symbol)
}
