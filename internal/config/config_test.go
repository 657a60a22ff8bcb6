package config_test

import (
	"os"
	"testing"

	"github.com/sqlpeek/sqlpeek/internal/config"
)

func TestLoad_DefaultsApplied(t *testing.T) {
	f, err := os.CreateTemp("", "sqlpeek-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString("log_level: debug\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg, err := config.Load(f.Name())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr == "" {
		t.Error("expected default http_addr to be set")
	}
	if cfg.MetaDBPath == "" {
		t.Error("expected default meta_db_path to be set")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http_addr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	f, err := os.CreateTemp("", "sqlpeek-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString("no_such_field: 1\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := config.Load(f.Name()); err == nil {
		t.Error("expected error for unknown config field")
	}
}
