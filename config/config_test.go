package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pagelayout/layout"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, layout.DefaultOverlapConfig(), cfg.OverlapConfig())
	assert.Equal(t, layout.DefaultMatchConfig(), cfg.MatchConfig())
	assert.Equal(t, layout.DefaultRegroupConfig(), cfg.RegroupConfig())
	assert.Equal(t, layout.DefaultOrderConfig(), cfg.OrderConfig())
	assert.Equal(t, 30*time.Second, cfg.HTTPConfig().Timeout)
	assert.True(t, cfg.Deskew.Enabled)
	assert.Equal(t, 0.01, cfg.Deskew.Threshold)
	assert.Equal(t, []string{"en"}, cfg.OCRConfig().Languages)
	assert.Equal(t, 1024, cfg.DetectOptions().InferenceSize)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pagelayout.yaml", `
layout:
  containment_threshold: 0.95
order:
  max_boxes: 150
scorer:
  base_url: http://reorder:8080
  timeout: 5s
  pool_size: 3
ocr:
  languages: [de, fr]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.95, cfg.Layout.ContainmentThreshold)
	assert.Equal(t, 150, cfg.OrderConfig().MaxBoxes)
	assert.Equal(t, "http://reorder:8080", cfg.HTTPConfig().BaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPConfig().Timeout)
	assert.Equal(t, 3, cfg.Scorer.PoolSize)
	assert.Equal(t, []string{"de", "fr"}, cfg.OCR.Languages)

	// untouched keys keep their defaults
	assert.Equal(t, 0.5, cfg.Layout.MinOverlapRate)
	assert.Equal(t, 1000.0, cfg.Order.ScaleSize)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "pagelayout.toml", `
[layout]
max_line_deviation = 0.5

[deskew]
enabled = false

[detect]
device = "cuda"
confidence = 0.4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.RegroupConfig().MaxDeviation)
	assert.False(t, cfg.Deskew.Enabled)
	assert.Equal(t, "cuda", cfg.DetectOptions().Device)
	assert.Equal(t, 0.4, cfg.DetectOptions().Confidence)
	assert.Equal(t, 0.99, cfg.Layout.ContainmentThreshold)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"unsupported extension", "config.json", `{}`, ErrUnsupportedFormat},
		{"bad yaml", "config.yaml", "layout: [", nil},
		{"bad toml", "config.toml", "[layout\n", nil},
		{"invalid threshold", "config.yaml", "layout:\n  containment_threshold: 1.5\n", nil},
		{"invalid timeout", "config.yaml", "scorer:\n  timeout: soon\n", nil},
		{"zero pool", "config.toml", "[scorer]\npool_size = 0\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Order.MaxBoxes = 0
	cfg.Order.ScaleSize = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.max_boxes")
	assert.Contains(t, err.Error(), "order.scale_size")
}
