package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
strategy:
  taker_edge_threshold_cents: 5
  maker_edge_threshold_cents: 2
risk:
  max_contracts_per_market: 10
  max_total_exposure_cents: 50000
  kelly_fraction: 0.25
sports:
  basketball: true
  ice-hockey: false
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_ParsesAllSections(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy.TakerEdgeThresholdCents != 5 {
		t.Errorf("expected taker edge threshold 5, got %d", cfg.Strategy.TakerEdgeThresholdCents)
	}
	if cfg.Risk.KellyFraction != 0.25 {
		t.Errorf("expected kelly fraction 0.25, got %f", cfg.Risk.KellyFraction)
	}
	if !cfg.Sports["basketball"] || cfg.Sports["ice-hockey"] {
		t.Errorf("unexpected sports map: %+v", cfg.Sports)
	}
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoad_NilSportsMapDefaultsToEmpty(t *testing.T) {
	path := writeTempConfig(t, "strategy:\n  taker_edge_threshold_cents: 5\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sports == nil {
		t.Error("expected Sports to default to a non-nil empty map when absent from the YAML")
	}
}

func TestSaveSports_PreservesOtherSections(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)

	if err := SaveSports(path, map[string]bool{"basketball": false, "mma": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}
	if cfg.Strategy.TakerEdgeThresholdCents != 5 {
		t.Errorf("expected the strategy section to survive SaveSports untouched, got %d", cfg.Strategy.TakerEdgeThresholdCents)
	}
	if cfg.Sports["basketball"] || !cfg.Sports["mma"] {
		t.Errorf("expected the sports section to reflect the new toggles, got %+v", cfg.Sports)
	}
}

func TestSaveSports_AddsSectionWhenAbsent(t *testing.T) {
	path := writeTempConfig(t, "strategy:\n  taker_edge_threshold_cents: 5\n")

	if err := SaveSports(path, map[string]bool{"basketball": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading back: %v", err)
	}
	if !strings.Contains(string(data), "basketball") {
		t.Error("expected the sports section to be appended when originally absent")
	}
}

func TestSaveSports_MissingFileReturnsError(t *testing.T) {
	if err := SaveSports(filepath.Join(t.TempDir(), "nonexistent.yaml"), map[string]bool{}); err == nil {
		t.Error("expected an error when the config file does not exist")
	}
}
