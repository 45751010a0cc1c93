package synth

import (
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/latido/config"
	"github.com/RyanBlaney/latido/wfdb"
)

func regularOptions() Options {
	return Options{SampleRate: 360, Seconds: 10, BPM: 75, Seed: 7}
}

func TestGenerateRegularRhythm(t *testing.T) {
	gen, err := NewGenerator(regularOptions())
	if err != nil {
		t.Fatal(err)
	}
	sig := gen.Generate()

	if len(sig.Samples) != 3600 {
		t.Fatalf("samples = %d, want 3600", len(sig.Samples))
	}
	if len(sig.Annotations) != 12 {
		t.Fatalf("beats = %d, want 12", len(sig.Annotations))
	}

	for k, ann := range sig.Annotations {
		want := int(math.Round((0.4 + 0.8*float64(k)) * 360))
		if ann.Sample != want || ann.Symbol != "N" {
			t.Errorf("beat %d = %+v, want sample %d N", k, ann, want)
		}

		// R is the local maximum
		lo, hi := max(0, ann.Sample-36), min(len(sig.Samples), ann.Sample+37)
		if got := lo + floats.MaxIdx(sig.Samples[lo:hi]); got != ann.Sample {
			t.Errorf("beat %d: local maximum at %d, want %d", k, got, ann.Sample)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Seconds = 20
	opts.EctopicRate = 0.2

	a, _ := NewGenerator(opts)
	b, _ := NewGenerator(opts)
	sa, sb := a.Generate(), b.Generate()

	if !slices.Equal(sa.Samples, sb.Samples) {
		t.Error("same seed produced different samples")
	}
	if !slices.Equal(sa.Annotations, sb.Annotations) {
		t.Error("same seed produced different annotations")
	}

	opts.Seed++
	c, _ := NewGenerator(opts)
	if slices.Equal(sa.Samples, c.Generate().Samples) {
		t.Error("different seeds produced identical samples")
	}
}

func TestGenerateEctopicBeats(t *testing.T) {
	opts := DefaultOptions()
	opts.Noise = 0
	opts.EctopicRate = 0.3
	gen, err := NewGenerator(opts)
	if err != nil {
		t.Fatal(err)
	}
	sig := gen.Generate()

	var ventricular int
	for i, ann := range sig.Annotations {
		if i > 0 && ann.Sample <= sig.Annotations[i-1].Sample {
			t.Fatalf("annotations not increasing at %d", i)
		}
		if ann.Symbol != "V" {
			continue
		}
		ventricular++
		if i == 0 {
			t.Error("first beat is ventricular")
		}
		if i > 0 && sig.Annotations[i-1].Symbol == "V" {
			t.Errorf("consecutive ventricular beats at %d", i)
		}
	}
	if ventricular == 0 {
		t.Error("no ventricular beats generated")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero sample rate", func(o *Options) { o.SampleRate = 0 }},
		{"zero duration", func(o *Options) { o.Seconds = 0 }},
		{"slow heart", func(o *Options) { o.BPM = 10 }},
		{"negative noise", func(o *Options) { o.Noise = -1 }},
		{"large variability", func(o *Options) { o.Variability = 0.5 }},
		{"all ectopic", func(o *Options) { o.EctopicRate = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if _, err := NewGenerator(opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteDatasetReadsBack(t *testing.T) {
	dir := t.TempDir()
	opts := regularOptions()
	opts.Noise = 0.02

	ids, err := WriteDataset(dir, "atr", 2, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids, []string{"100", "101"}) {
		t.Fatalf("ids = %v", ids)
	}

	src, err := wfdb.NewSource(dir, config.Default().Input)
	if err != nil {
		t.Fatal(err)
	}
	listed, err := src.List()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(listed, ids) {
		t.Errorf("listed = %v, want %v", listed, ids)
	}

	gen, _ := NewGenerator(opts) // seed of record 100
	want := gen.Generate()

	rec, err := src.LoadRecording("100")
	if err != nil {
		t.Fatal(err)
	}
	if rec.SampleRate != 360 || rec.Lead != "MLII" {
		t.Errorf("recording = %v Hz lead %q", rec.SampleRate, rec.Lead)
	}
	if len(rec.Samples) != len(want.Samples) {
		t.Fatalf("samples = %d, want %d", len(rec.Samples), len(want.Samples))
	}
	for i, v := range rec.Samples {
		if math.Abs(v-want.Samples[i]) > 0.5/writeGain+1e-12 {
			t.Fatalf("sample %d = %v, want %v within quantisation", i, v, want.Samples[i])
		}
	}

	anns, err := src.LoadAnnotations("100")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(anns, want.Annotations) {
		t.Error("annotations changed on disk")
	}

	if _, err := WriteDataset(dir, "atr", 0, opts); err == nil {
		t.Error("expected error for zero records")
	}
}
