package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Address != "127.0.0.1:8123" {
		t.Errorf("Unexpected default address: %s", cfg.Server.Address)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Unexpected default logging config: %+v", cfg.Logging)
	}
	if cfg.Source != "defaults" {
		t.Errorf("Expected source 'defaults', got %s", cfg.Source)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if cfg.Server.Address != Default().Server.Address {
		t.Errorf("Expected defaults for missing file, got %+v", cfg)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  address: \"127.0.0.1:9900\"\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:9900" {
		t.Errorf("Expected overridden address, got %s", cfg.Server.Address)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected overridden level, got %s", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format, got %s", cfg.Logging.Format)
	}
	if cfg.Source != path {
		t.Errorf("Expected source %s, got %s", path, cfg.Source)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [unclosed"},
		{"empty address", "server:\n  address: \"\"\n"},
		{"bad format", "logging:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
