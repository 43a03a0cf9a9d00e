package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/region-grow-mcp/internal/region"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Growth.Threshold != 30 {
		t.Errorf("Threshold: got %v, want 30", cfg.Growth.Threshold)
	}
	if cfg.Growth.Mode != "average" {
		t.Errorf("Mode: got %q, want average", cfg.Growth.Mode)
	}
	if cfg.Server.Transport != TransportStdio {
		t.Errorf("Transport: got %q, want stdio", cfg.Server.Transport)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Growth.Threshold != Default().Growth.Threshold {
		t.Error("missing file should yield defaults")
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("growth:\n  threshold: 12.5\n  mode: constant\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Growth.Threshold != 12.5 || cfg.Growth.Mode != "constant" {
		t.Errorf("growth: got %+v", cfg.Growth)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level: got %q, want debug", cfg.Log.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr: got %q, want :8080", cfg.Server.HTTPAddr)
	}

	gc, err := cfg.GrowthConfig()
	if err != nil {
		t.Fatalf("GrowthConfig failed: %v", err)
	}
	if gc.Mode != region.ModeConstant || gc.Threshold != 12.5 {
		t.Errorf("GrowthConfig: got %+v", gc)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("growth: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail for invalid YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Growth.Threshold = 7
	cfg.Server.Transport = TransportHTTP

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Growth.Threshold != 7 || loaded.Server.Transport != TransportHTTP {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvThreshold, "4.5")
	t.Setenv(EnvMode, "constant")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvHTTPAddr, "127.0.0.1:9000")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Growth.Threshold != 4.5 || cfg.Growth.Mode != "constant" {
		t.Errorf("growth: got %+v", cfg.Growth)
	}
	if cfg.Log.Level != "warn" || cfg.Server.HTTPAddr != "127.0.0.1:9000" {
		t.Errorf("got log %q addr %q", cfg.Log.Level, cfg.Server.HTTPAddr)
	}
}

func TestApplyEnv_BadThreshold(t *testing.T) {
	t.Setenv(EnvThreshold, "lots")

	if err := Default().ApplyEnv(); !errors.Is(err, region.ErrInvalidConfiguration) {
		t.Errorf("got %v, want ErrInvalidConfiguration", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.Growth.Threshold = -1 }},
		{"unknown mode", func(c *Config) { c.Growth.Mode = "median" }},
		{"negative max steps", func(c *Config) { c.Growth.MaxSteps = -1 }},
		{"unknown transport", func(c *Config) { c.Server.Transport = "carrier-pigeon" }},
		{"http without address", func(c *Config) {
			c.Server.Transport = TransportHTTP
			c.Server.HTTPAddr = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, region.ErrInvalidConfiguration) {
				t.Errorf("got %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}
