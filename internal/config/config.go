// Package config loads region-grow-mcp settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/region-grow-mcp/internal/region"
)

// Environment variables that override the file configuration.
const (
	EnvLogLevel  = "REGION_MCP_LOG_LEVEL"
	EnvThreshold = "REGION_MCP_THRESHOLD"
	EnvMode      = "REGION_MCP_MODE"
	EnvHTTPAddr  = "REGION_MCP_HTTP_ADDR"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the application configuration.
type Config struct {
	// Growth holds the defaults for new segmentation sessions.
	Growth struct {
		// Threshold is the exclusive intensity tolerance (>= 0).
		Threshold float64 `yaml:"threshold"`

		// Mode is "constant" or "average".
		Mode string `yaml:"mode"`

		// MaxSteps bounds the frontier pops per seed; 0 is unbounded.
		MaxSteps int `yaml:"maxSteps"`
	} `yaml:"growth"`

	Server struct {
		// Transport is "stdio" (MCP over stdin/stdout) or "http".
		Transport string `yaml:"transport"`

		// HTTPAddr is the listen address used by the http transport.
		HTTPAddr string `yaml:"httpAddr"`
	} `yaml:"server"`

	Log struct {
		Level   string `yaml:"level"`
		NoColor bool   `yaml:"noColor"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}

	cfg.Growth.Threshold = 30
	cfg.Growth.Mode = "average"
	cfg.Growth.MaxSteps = 0

	cfg.Server.Transport = TransportStdio
	cfg.Server.HTTPAddr = ":8080"

	cfg.Log.Level = "info"
	cfg.Log.NoColor = false

	return cfg
}

// Load reads a YAML configuration file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from REGION_MCP_* environment variables.
// Unparseable numeric values are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		c.Growth.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvThreshold)); v != "" {
		th, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvThreshold, v, region.ErrInvalidConfiguration)
		}
		c.Growth.Threshold = th
	}
	if v := strings.TrimSpace(os.Getenv(EnvHTTPAddr)); v != "" {
		c.Server.HTTPAddr = v
	}
	return nil
}

// GrowthConfig converts the growth section to a region.Config.
func (c *Config) GrowthConfig() (region.Config, error) {
	mode, err := region.ParseMode(c.Growth.Mode)
	if err != nil {
		return region.Config{}, err
	}
	gc := region.Config{
		Threshold: c.Growth.Threshold,
		Mode:      mode,
		MaxSteps:  c.Growth.MaxSteps,
	}
	if err := gc.Validate(); err != nil {
		return region.Config{}, err
	}
	return gc, nil
}

// Validate fails fast on settings that would break the server at startup.
func (c *Config) Validate() error {
	if _, err := c.GrowthConfig(); err != nil {
		return fmt.Errorf("growth: %w", err)
	}
	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.HTTPAddr == "" {
			return fmt.Errorf("server: http transport needs httpAddr: %w", region.ErrInvalidConfiguration)
		}
	default:
		return fmt.Errorf("server: unknown transport %q: %w", c.Server.Transport, region.ErrInvalidConfiguration)
	}
	return nil
}
