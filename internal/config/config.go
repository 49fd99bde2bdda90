// Package config loads the .gherkinast.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/gherkinast/internal/gherkin"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".gherkinast.yaml"

const (
	IDsIncrementing = "incrementing"
	IDsUUID         = "uuid"
)

type Config struct {
	FeaturesDir string `yaml:"features_dir"`
	Database    string `yaml:"database"`
	Encoding    string `yaml:"encoding"`
	Language    string `yaml:"language"`
	IDs         string `yaml:"ids"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every empty field.
func ApplyDefaults(cfg *Config) {
	if cfg.FeaturesDir == "" {
		cfg.FeaturesDir = "features"
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.FeaturesDir, "gherkinast.db")
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.IDs == "" {
		cfg.IDs = IDsIncrementing
	}
}

// Load reads the YAML file at path, applies environment overrides
// (GHERKINAST_FEATURES_DIR, GHERKINAST_DATABASE, GHERKINAST_ENCODING,
// GHERKINAST_LANGUAGE, GHERKINAST_IDS) and defaults, and validates the result.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("GHERKINAST_FEATURES_DIR"); val != "" {
		cfg.FeaturesDir = val
	}
	if val := os.Getenv("GHERKINAST_DATABASE"); val != "" {
		cfg.Database = val
	}
	if val := os.Getenv("GHERKINAST_ENCODING"); val != "" {
		cfg.Encoding = val
	}
	if val := os.Getenv("GHERKINAST_LANGUAGE"); val != "" {
		cfg.Language = val
	}
	if val := os.Getenv("GHERKINAST_IDS"); val != "" {
		cfg.IDs = val
	}
}

func Validate(cfg *Config) error {
	if _, err := htmlindex.Get(cfg.Encoding); err != nil {
		return fmt.Errorf("encoding %q is not supported", cfg.Encoding)
	}
	if !gherkin.Supported(cfg.Language) {
		return fmt.Errorf("language %q is not a known Gherkin dialect", cfg.Language)
	}
	switch cfg.IDs {
	case IDsIncrementing, IDsUUID:
	default:
		return fmt.Errorf("ids must be %q or %q, got %q", IDsIncrementing, IDsUUID, cfg.IDs)
	}
	if strings.TrimSpace(cfg.FeaturesDir) == "" {
		return errors.New("features_dir must not be empty")
	}
	return nil
}

// Write stores cfg as YAML at path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
