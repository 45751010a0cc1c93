package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latido.yaml")
	body := `
input:
  preferred_lead: MLII
filter:
  high_cutoff: 35
detection:
  strategies: [threshold]
spectral:
  mid: [5, 12]
workers: 3
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Input.PreferredLead != "MLII" {
		t.Errorf("preferred lead = %q", cfg.Input.PreferredLead)
	}
	if cfg.Input.AnnotationExtension != "atr" {
		t.Errorf("annotation extension lost its default: %q", cfg.Input.AnnotationExtension)
	}
	if cfg.Filter.HighCutoff != 35 || cfg.Filter.LowCutoff != 0.5 {
		t.Errorf("filter = %+v", cfg.Filter)
	}
	if len(cfg.Detection.Strategies) != 1 || cfg.Detection.Strategies[0] != "threshold" {
		t.Errorf("strategies = %v", cfg.Detection.Strategies)
	}
	if cfg.Spectral.Mid != (Band{5, 12}) || cfg.Spectral.Total != (Band{0.5, 40}) {
		t.Errorf("spectral = %+v", cfg.Spectral)
	}
	if cfg.WorkerCount() != 3 {
		t.Errorf("workers = %d", cfg.WorkerCount())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("filter:\n  low_cutoff: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "cutoffs") {
		t.Fatalf("expected cutoff validation error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
