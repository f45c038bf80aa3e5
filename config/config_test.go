package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opd-ai/greenscreen/chroma"
	"github.com/opd-ai/greenscreen/overlay"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, chroma.DefaultThresholdConfig(), cfg.Thresholds)
	assert.Equal(t, 2*time.Second, cfg.RevealDelay)
	assert.Equal(t, 1.0, cfg.Volume)
	assert.Equal(t, 60.0, cfg.RefreshRateHz)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	data := []byte(`
thresholds:
  distance: 80
  ratio: 0.5
reveal_delay: 1500ms
volume: 0.25
refresh_rate_hz: 30
log_level: debug
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, chroma.ThresholdConfig{Distance: 80, Ratio: 0.5}, cfg.Thresholds)
	assert.Equal(t, 1500*time.Millisecond, cfg.RevealDelay)
	assert.Equal(t, 0.25, cfg.Volume)
	assert.Equal(t, 30.0, cfg.RefreshRateHz)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("volume: 0.5\n"))
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Volume)
	assert.Equal(t, chroma.DefaultThresholdConfig(), cfg.Thresholds)
	assert.Equal(t, overlay.DefaultRevealDelay, cfg.RevealDelay)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative distance", "thresholds: {distance: -1, ratio: 0.4}"},
		{"ratio above one", "thresholds: {distance: 100, ratio: 1.2}"},
		{"negative delay", "reveal_delay: -1s"},
		{"loud volume", "volume: 2"},
		{"silent volume", "volume: 0"},
		{"zero refresh", "refresh_rate_hz: 0"},
		{"unknown level", "log_level: chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse([]byte("volume: [1, 2"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reveal_delay: 3s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.RevealDelay)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOverlayOptions(t *testing.T) {
	cfg := Default()
	cfg.Volume = 0.3
	scheduler := overlay.NewRefreshScheduler(cfg.RefreshRateHz)

	opts := cfg.OverlayOptions(scheduler)
	assert.Equal(t, cfg.Thresholds, opts.Thresholds)
	assert.Equal(t, cfg.RevealDelay, opts.RevealDelay)
	assert.Equal(t, 0.3, opts.Volume)
	assert.Same(t, scheduler, opts.Scheduler)
}

func TestApplyLogging(t *testing.T) {
	previous := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(previous) })

	cfg := Default()
	cfg.LogLevel = "warn"
	require.NoError(t, cfg.ApplyLogging())
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	cfg.LogLevel = "nope"
	assert.ErrorIs(t, cfg.ApplyLogging(), ErrInvalidConfig)
}
