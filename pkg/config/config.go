// Package config loads workspace configuration for the screengraph tool:
// where signature and graph files live plus detector and navigator tuning.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/screengraph/pkg/core"
	"github.com/devicelab-dev/screengraph/pkg/detector"
	"github.com/devicelab-dev/screengraph/pkg/navigator"
)

// DetectorSettings tunes screen detection.
type DetectorSettings struct {
	MinConfidence      float64 `yaml:"minConfidence"`
	ConfidentThreshold float64 `yaml:"confidentThreshold"`
	CacheTTLMs         int     `yaml:"cacheTtlMs"`
	MaxCandidates      int     `yaml:"maxCandidates"`
}

// NavigatorSettings tunes navigation and recovery.
type NavigatorSettings struct {
	MaxAttempts   int                 `yaml:"maxAttempts"`
	SettleDelayMs int                 `yaml:"settleDelayMs"`
	RetryDelayMs  int                 `yaml:"retryDelayMs"`
	SafeContexts  map[string][]string `yaml:"safeContexts"`
}

// Config is the root workspace configuration.
type Config struct {
	SignaturesDir   string            `yaml:"signaturesDir"`
	GraphsDir       string            `yaml:"graphsDir"`
	AppID           string            `yaml:"app"`
	LogFile         string            `yaml:"logFile"`
	LogLevel        string            `yaml:"logLevel"`
	WatchSignatures bool              `yaml:"watchSignatures"`
	Detector        DetectorSettings  `yaml:"detector"`
	Navigator       NavigatorSettings `yaml:"navigator"`
}

// Default returns a config with conventional directory names.
func Default() *Config {
	return &Config{
		SignaturesDir: "signatures",
		GraphsDir:     "graphs",
		LogLevel:      "info",
	}
}

// Load reads a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("reading config: %v", err)).WithCause(err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("parsing %s: %v", path, err)).WithCause(err)
	}
	cfg.resolveRelative(filepath.Dir(path))
	return cfg, nil
}

// LoadFromDir looks for config.yaml (then config.yml) in a directory and
// loads it. A directory with neither file yields the defaults.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	cfg := Default()
	cfg.resolveRelative(dir)
	return cfg, nil
}

// resolveRelative anchors relative directories at the config location.
func (c *Config) resolveRelative(base string) {
	if c.SignaturesDir != "" && !filepath.IsAbs(c.SignaturesDir) {
		c.SignaturesDir = filepath.Join(base, c.SignaturesDir)
	}
	if c.GraphsDir != "" && !filepath.IsAbs(c.GraphsDir) {
		c.GraphsDir = filepath.Join(base, c.GraphsDir)
	}
}

// DetectorConfig converts the settings to the detector's config type.
// Unset values fall back to the detector's own defaults.
func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		MinConfidence:      c.Detector.MinConfidence,
		ConfidentThreshold: c.Detector.ConfidentThreshold,
		CacheTTL:           time.Duration(c.Detector.CacheTTLMs) * time.Millisecond,
		MaxCandidates:      c.Detector.MaxCandidates,
	}
}

// NavigatorConfig converts the settings to the navigator's config type.
func (c *Config) NavigatorConfig() navigator.Config {
	return navigator.Config{
		SettleDelay:  time.Duration(c.Navigator.SettleDelayMs) * time.Millisecond,
		RetryDelay:   time.Duration(c.Navigator.RetryDelayMs) * time.Millisecond,
		SafeContexts: c.Navigator.SafeContexts,
	}
}
