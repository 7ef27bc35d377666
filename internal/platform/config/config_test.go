package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"studyplan/internal/platform/config"
)

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir, "")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.StoreBackend != config.BackendFile || cfg.StoreKey != "studySessions" {
		t.Fatalf("unexpected store defaults: %+v", cfg)
	}
	if cfg.DBPath != filepath.Join(dir, ".studyplan", "studyplan.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.ReminderLead != 5*time.Minute || cfg.Locale != "en" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestNewReadsYAMLFromStateDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	state := filepath.Join(dir, ".studyplan")
	if err := os.MkdirAll(state, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	raw := "store:\n  backend: sqlite\nshare:\n  base_url: https://plan.example.com/\nlocale: ar\nreminder:\n  lead: 10m\n"
	if err := os.WriteFile(filepath.Join(state, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(dir, "")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.StoreBackend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %s", cfg.StoreBackend)
	}
	if cfg.ShareBaseURL != "https://plan.example.com" {
		t.Fatalf("trailing slash must be trimmed: %s", cfg.ShareBaseURL)
	}
	if cfg.Locale != "ar" || cfg.ReminderLead != 10*time.Minute {
		t.Fatalf("unexpected values: %+v", cfg)
	}
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYPLAN_STORE_KEY", "otherSessions")
	t.Setenv("STUDYPLAN_STORE_RESET_ON_CORRUPT", "true")
	cfg, err := config.New(dir, "")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.StoreKey != "otherSessions" || !cfg.ResetOnCorrupt {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestNewRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	if _, err := config.New("", ""); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: redis\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir, path); err == nil {
		t.Fatalf("expected error for unsupported backend")
	}
	if _, err := config.New(dir, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
