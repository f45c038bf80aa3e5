package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/opd-ai/greenscreen/chroma"
	"github.com/opd-ai/greenscreen/overlay"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the complete overlay configuration.
type Config struct {
	Thresholds    chroma.ThresholdConfig `yaml:"thresholds"`
	RevealDelay   time.Duration          `yaml:"reveal_delay"`    // e.g. "2s", 0 selects the default
	Volume        float64                `yaml:"volume"`          // above 0.0, up to 1.0
	RefreshRateHz float64                `yaml:"refresh_rate_hz"` // frame loop rate
	LogLevel      string                 `yaml:"log_level"`       // logrus level name
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Thresholds:    chroma.DefaultThresholdConfig(),
		RevealDelay:   overlay.DefaultRevealDelay,
		Volume:        overlay.DefaultVolume,
		RefreshRateHz: overlay.DefaultRefreshRate,
		LogLevel:      logrus.InfoLevel.String(),
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "config.Load",
		"path":     path,
	}).Debug("Configuration loaded")

	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: thresholds: %w", ErrInvalidConfig, err)
	}
	if c.RevealDelay < 0 {
		return fmt.Errorf("%w: reveal_delay %v is negative", ErrInvalidConfig, c.RevealDelay)
	}
	if math.IsNaN(c.Volume) || c.Volume <= 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume %v outside (0, 1]", ErrInvalidConfig, c.Volume)
	}
	if math.IsNaN(c.RefreshRateHz) || c.RefreshRateHz <= 0 || c.RefreshRateHz > 1000 {
		return fmt.Errorf("%w: refresh_rate_hz %v outside (0, 1000]", ErrInvalidConfig, c.RefreshRateHz)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// OverlayOptions converts the configuration into controller options
// bound to scheduler.
func (c *Config) OverlayOptions(scheduler overlay.Scheduler) overlay.Options {
	return overlay.Options{
		Thresholds:  c.Thresholds,
		RevealDelay: c.RevealDelay,
		Volume:      c.Volume,
		Scheduler:   scheduler,
	}
}

// ApplyLogging sets the global logrus level.
func (c *Config) ApplyLogging() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	logrus.SetLevel(level)
	return nil
}
