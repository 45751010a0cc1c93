package label

import (
	"testing"

	"github.com/RyanBlaney/latido/record"
)

func TestMapSymbol(t *testing.T) {
	cases := map[string]Class{
		"N": Normal,
		"V": Ventricular, "E": Ventricular,
		"A": Supraventricular, "a": Supraventricular, "J": Supraventricular,
		"F": Fusion,
		"L": Other, "R": Other, "/": Other, "?": Other, "+": Other, "": Other, "Z": Other,
	}
	for sym, want := range cases {
		if got := MapSymbol(sym); got != want {
			t.Errorf("MapSymbol(%q) = %s, want %s", sym, got, want)
		}
	}
}

func TestNearest(t *testing.T) {
	l := NewLabeler([]record.Annotation{
		{Sample: 100, Symbol: "N"},
		{Sample: 200, Symbol: "V"},
		{Sample: 200, Symbol: "+"},
		{Sample: 300, Symbol: "A"},
	})

	cases := []struct {
		sample int
		want   string
	}{
		{0, "N"},    // before the first
		{100, "N"},  // exact
		{149, "N"},  // closer to 100
		{150, "N"},  // tie goes to the earlier event
		{151, "V"},  // closer to 200, first of the two at 200
		{250, "V"},  // tie between the 200 group and 300
		{260, "A"},  // closer to 300
		{5000, "A"}, // after the last
	}
	for _, tc := range cases {
		a, ok := l.Nearest(tc.sample)
		if !ok || a.Symbol != tc.want {
			t.Errorf("Nearest(%d) = %+v, want %s", tc.sample, a, tc.want)
		}
	}
}

func TestLabel(t *testing.T) {
	l := NewLabeler([]record.Annotation{
		{Sample: 144, Symbol: "N"},
		{Sample: 432, Symbol: "V"},
		{Sample: 720, Symbol: "N"},
	})

	if got := l.Label(430); got != Ventricular {
		t.Errorf("Label(430) = %s", got)
	}
	if got := l.Label(700); got != Normal {
		t.Errorf("Label(700) = %s", got)
	}

	empty := NewLabeler(nil)
	if empty.Len() != 0 || empty.Label(10) != Other {
		t.Error("empty labeler should label everything Other")
	}
	if _, ok := empty.Nearest(10); ok {
		t.Error("empty labeler has no nearest annotation")
	}
}

func TestClassesClosedSet(t *testing.T) {
	seen := map[Class]bool{}
	for _, c := range Classes() {
		seen[c] = true
	}
	for _, sym := range []string{"N", "V", "A", "F", "x", "~"} {
		if !seen[MapSymbol(sym)] {
			t.Errorf("MapSymbol(%q) outside Classes()", sym)
		}
	}
	if len(seen) != 5 {
		t.Errorf("Classes() has %d members", len(seen))
	}
}
