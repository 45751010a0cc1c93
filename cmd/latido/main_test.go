package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/latido/logging"
)

func runCLI(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var logs bytes.Buffer
	logger := logging.NewWriterLogger(io.Discard, &logs)
	code := run(context.Background(), args, logger, io.Discard)
	return code, logs.String()
}

func TestSynthThenExtract(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "records")
	out := filepath.Join(dir, "features.csv")

	code, logs := runCLI(t, "synth", "-out", records, "-records", "2", "-seconds", "20", "-seed", "3")
	if code != exitOK {
		t.Fatalf("synth exit = %d\n%s", code, logs)
	}
	for _, name := range []string{"100.hea", "100.dat", "100.atr", "101.hea"} {
		if _, err := os.Stat(filepath.Join(records, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	code, logs = runCLI(t, "extract", "-in", records, "-out", out, "-workers", "2")
	if code != exitOK {
		t.Fatalf("extract exit = %d\n%s", code, logs)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if !strings.HasPrefix(lines[0], "record,sample,mean_rr,") || !strings.HasSuffix(lines[0], ",label") {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) < 2 {
		t.Fatal("no feature rows written")
	}
	if !strings.HasPrefix(lines[1], "100,") {
		t.Errorf("first row = %q, want record 100", lines[1])
	}
}

func TestExtractExitCodes(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("filter:\n  order: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	records := filepath.Join(dir, "records")
	if code, logs := runCLI(t, "synth", "-out", records, "-seconds", "10"); code != exitOK {
		t.Fatalf("synth exit = %d\n%s", code, logs)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing input", []string{"extract", "-in", filepath.Join(dir, "nope"), "-out", filepath.Join(dir, "a.csv")}, exitError},
		{"unwritable output", []string{"extract", "-in", records, "-out", filepath.Join(dir, "missing", "a.csv")}, exitError},
		{"invalid config", []string{"extract", "-in", records, "-out", filepath.Join(dir, "a.csv"), "-config", badConfig}, exitError},
		{"invalid log level", []string{"extract", "-in", records, "-out", filepath.Join(dir, "a.csv"), "-log-level", "loud"}, exitError},
		{"missing flags", []string{"extract", "-in", records}, exitUsage},
		{"unknown command", []string{"train"}, exitUsage},
		{"no command", nil, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, logs := runCLI(t, tt.args...); code != tt.want {
				t.Errorf("exit = %d, want %d\n%s", code, tt.want, logs)
			}
		})
	}
}

func TestExtractSucceedsWhenRecordingsAreSkipped(t *testing.T) {
	dir := t.TempDir()
	// A header without a signal file: listed, then skipped
	if err := os.WriteFile(filepath.Join(dir, "200.hea"), []byte("200 1 360 3600\n200.dat 16 200 11 0 0 0 0 MLII\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.csv")
	code, logs := runCLI(t, "extract", "-in", dir, "-out", out)
	if code != exitOK {
		t.Fatalf("exit = %d\n%s", code, logs)
	}
	if !strings.Contains(logs, "Recording skipped") {
		t.Errorf("expected skip warning:\n%s", logs)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "\n"); got != 1 {
		t.Errorf("output has %d lines, want header only", got)
	}
}

func TestSynthRejectsBadOptions(t *testing.T) {
	out := t.TempDir()
	if code, _ := runCLI(t, "synth", "-out", out, "-bpm", "5"); code != exitError {
		t.Errorf("exit = %d, want %d", code, exitError)
	}
	if code, _ := runCLI(t, "synth"); code != exitUsage {
		t.Errorf("exit = %d, want %d", code, exitUsage)
	}
}
