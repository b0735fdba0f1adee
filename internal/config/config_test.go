package config

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"schedcal/internal/calendar"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SummaryTemplate != calendar.DefaultSummaryTemplate || cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", st.Mode().Perm())
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
timezone: America/Toronto
summary_template: "@code (@type)"
description_template: ""
log_level: LOUD
capture:
  selector: "#schedule"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SummaryTemplate != "@code (@type)" {
		t.Errorf("SummaryTemplate = %q", cfg.SummaryTemplate)
	}
	if cfg.DescriptionTemplate != "" {
		t.Errorf("DescriptionTemplate = %q, want explicit empty", cfg.DescriptionTemplate)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want fallback info", cfg.LogLevel)
	}
	if cfg.Capture.Selector != "#schedule" || cfg.Capture.TimeoutSeconds != 30 {
		t.Errorf("Capture = %+v", cfg.Capture)
	}
	if cfg.Listen != "127.0.0.1:8080" || cfg.OutputDir != "." {
		t.Errorf("defaults not filled: %+v", cfg)
	}

	loc, err := cfg.Location()
	if err != nil || loc.String() != "America/Toronto" {
		t.Errorf("Location = %v, %v", loc, err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.BasicAuth = &BasicAuthConfig{Username: "u", Password: "p"}
	cfg.OutputDir = "/tmp/out"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BasicAuth == nil || got.BasicAuth.Username != "u" || got.OutputDir != "/tmp/out" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load(\"\") succeeded")
	}
	if err := Save("", DefaultConfig()); err == nil {
		t.Error("Save(\"\") succeeded")
	}
	if err := Save("x.yaml", nil); err == nil {
		t.Error("Save(nil) succeeded")
	}
}
