package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/msgstore/filestore"
)

const (
	defaultAddr        = ":8080"
	defaultMetricsPath = "/metrics"
)

// Config holds initialization parameters for the store and its HTTP surface.
type Config struct {
	Store       filestore.Config `json:"store"                  yaml:"store"`
	Addr        string           `json:"addr,omitempty"         yaml:"addr,omitempty"`
	MetricsPath string           `json:"metrics_path,omitempty" yaml:"metrics_path,omitempty"`
	Observer    string           `json:"observer,omitempty"     yaml:"observer,omitempty"`
	LogLevel    string           `json:"log_level,omitempty"    yaml:"log_level,omitempty"`
	LogFormat   string           `json:"log_format,omitempty"   yaml:"log_format,omitempty"`
}

// DefaultConfig returns a Config with defaults for every field except the
// store path, which has none.
func DefaultConfig() Config {
	return Config{
		Store:       filestore.DefaultConfig(),
		Addr:        defaultAddr,
		MetricsPath: defaultMetricsPath,
		Observer:    "slog",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Store.Merge(&source.Store)

	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.MetricsPath != "" {
		c.MetricsPath = source.MetricsPath
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.LogLevel != "" {
		c.LogLevel = source.LogLevel
	}
	if source.LogFormat != "" {
		c.LogFormat = source.LogFormat
	}
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// resulting Config. Files ending in .yaml or .yml are parsed as YAML,
// anything else as JSON.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
