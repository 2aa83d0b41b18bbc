// Package config loads the thresholds of every pipeline stage from a YAML or
// TOML file. Files only need the keys they change; everything else keeps
// its default.
//
// A YAML example:
//
//	layout:
//	  containment_threshold: 0.98
//	order:
//	  max_boxes: 150
//	scorer:
//	  base_url: http://reorder:8080
//	  timeout: 10s
//	  pool_size: 2
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pagelayout/detect"
	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/ocr"
	"github.com/tsawler/pagelayout/scorer"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config aggregates the configuration of every stage
type Config struct {
	Layout LayoutConfig `yaml:"layout" toml:"layout"`
	Order  OrderConfig  `yaml:"order" toml:"order"`
	Scorer ScorerConfig `yaml:"scorer" toml:"scorer"`
	Deskew DeskewConfig `yaml:"deskew" toml:"deskew"`
	Detect DetectConfig `yaml:"detect" toml:"detect"`
	OCR    OCRConfig    `yaml:"ocr" toml:"ocr"`
}

// LayoutConfig holds region cleanup thresholds
type LayoutConfig struct {
	ContainmentThreshold float64 `yaml:"containment_threshold" toml:"containment_threshold"`
	MinOverlapRate       float64 `yaml:"min_overlap_rate" toml:"min_overlap_rate"`
	MaxLineDeviation     float64 `yaml:"max_line_deviation" toml:"max_line_deviation"`
}

// OrderConfig holds reading order settings
type OrderConfig struct {
	MaxBoxes          int     `yaml:"max_boxes" toml:"max_boxes"`
	ScaleSize         float64 `yaml:"scale_size" toml:"scale_size"`
	DefaultLineHeight float64 `yaml:"default_line_height" toml:"default_line_height"`
}

// ScorerConfig configures the remote reading-order model. An empty BaseURL
// disables the neural tier.
type ScorerConfig struct {
	BaseURL           string  `yaml:"base_url" toml:"base_url"`
	APIKey            string  `yaml:"api_key" toml:"api_key"`
	Timeout           string  `yaml:"timeout" toml:"timeout"`
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int     `yaml:"burst" toml:"burst"`

	// PoolSize is the number of scorer replicas shared between pages
	PoolSize int `yaml:"pool_size" toml:"pool_size"`

	// CachePath enables the SQLite rank cache when set
	CachePath string `yaml:"cache_path" toml:"cache_path"`
}

// DeskewConfig controls page straightening
type DeskewConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	Threshold float64 `yaml:"threshold" toml:"threshold"`
}

// DetectConfig holds region detector options
type DetectConfig struct {
	InferenceSize int     `yaml:"inference_size" toml:"inference_size"`
	Confidence    float64 `yaml:"confidence" toml:"confidence"`
	Device        string  `yaml:"device" toml:"device"`
}

// OCRConfig holds OCR engine options
type OCRConfig struct {
	Languages     []string `yaml:"languages" toml:"languages"`
	MinConfidence float64  `yaml:"min_confidence" toml:"min_confidence"`
}

// Default returns the configuration every stage uses when nothing is set
func Default() *Config {
	overlap := layout.DefaultOverlapConfig()
	match := layout.DefaultMatchConfig()
	regroup := layout.DefaultRegroupConfig()
	order := layout.DefaultOrderConfig()
	http := scorer.DefaultHTTPConfig()
	det := detect.DefaultOptions()
	ocrCfg := ocr.DefaultConfig()

	return &Config{
		Layout: LayoutConfig{
			ContainmentThreshold: overlap.ContainmentThreshold,
			MinOverlapRate:       match.MinOverlapRate,
			MaxLineDeviation:     regroup.MaxDeviation,
		},
		Order: OrderConfig{
			MaxBoxes:          order.MaxBoxes,
			ScaleSize:         order.ScaleSize,
			DefaultLineHeight: order.DefaultLineHeight,
		},
		Scorer: ScorerConfig{
			Timeout:           http.Timeout.String(),
			RequestsPerSecond: http.RequestsPerSecond,
			Burst:             http.Burst,
			PoolSize:          1,
		},
		Deskew: DeskewConfig{
			Enabled:   true,
			Threshold: 0.01,
		},
		Detect: DetectConfig{
			InferenceSize: det.InferenceSize,
			Confidence:    det.Confidence,
			Device:        det.Device,
		},
		OCR: OCRConfig{
			Languages:     ocrCfg.Languages,
			MinConfidence: ocrCfg.MinConfidence,
		},
	}
}

// Load reads a config file, choosing the decoder by extension
// (.yaml, .yml or .toml), and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Layout.ContainmentThreshold > 0 && c.Layout.ContainmentThreshold <= 1,
		"layout.containment_threshold must be in (0, 1], got %v", c.Layout.ContainmentThreshold)
	check(c.Layout.MinOverlapRate >= 0 && c.Layout.MinOverlapRate <= 1,
		"layout.min_overlap_rate must be in [0, 1], got %v", c.Layout.MinOverlapRate)
	check(c.Layout.MaxLineDeviation >= 0,
		"layout.max_line_deviation must not be negative, got %v", c.Layout.MaxLineDeviation)
	check(c.Order.MaxBoxes > 0, "order.max_boxes must be positive, got %d", c.Order.MaxBoxes)
	check(c.Order.ScaleSize > 0, "order.scale_size must be positive, got %v", c.Order.ScaleSize)
	check(c.Order.DefaultLineHeight > 0,
		"order.default_line_height must be positive, got %v", c.Order.DefaultLineHeight)
	check(c.Scorer.PoolSize > 0, "scorer.pool_size must be positive, got %d", c.Scorer.PoolSize)
	check(c.Deskew.Threshold >= 0, "deskew.threshold must not be negative, got %v", c.Deskew.Threshold)

	if c.Scorer.Timeout != "" {
		if _, err := time.ParseDuration(c.Scorer.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("scorer.timeout: %w", err))
		}
	}

	return errors.Join(errs...)
}

// OverlapConfig returns the overlap resolver configuration
func (c *Config) OverlapConfig() layout.OverlapConfig {
	return layout.OverlapConfig{ContainmentThreshold: c.Layout.ContainmentThreshold}
}

// MatchConfig returns the fragment matching configuration
func (c *Config) MatchConfig() layout.MatchConfig {
	return layout.MatchConfig{MinOverlapRate: c.Layout.MinOverlapRate}
}

// RegroupConfig returns the line regrouper configuration
func (c *Config) RegroupConfig() layout.RegroupConfig {
	return layout.RegroupConfig{MaxDeviation: c.Layout.MaxLineDeviation}
}

// OrderConfig returns the reading order configuration
func (c *Config) OrderConfig() layout.OrderConfig {
	return layout.OrderConfig{
		MaxBoxes:          c.Order.MaxBoxes,
		ScaleSize:         c.Order.ScaleSize,
		DefaultLineHeight: c.Order.DefaultLineHeight,
	}
}

// HTTPConfig returns the HTTP scorer configuration
func (c *Config) HTTPConfig() scorer.HTTPConfig {
	cfg := scorer.DefaultHTTPConfig()
	if c.Scorer.BaseURL != "" {
		cfg.BaseURL = c.Scorer.BaseURL
	}
	cfg.APIKey = c.Scorer.APIKey
	if d, err := time.ParseDuration(c.Scorer.Timeout); err == nil {
		cfg.Timeout = d
	}
	cfg.RequestsPerSecond = c.Scorer.RequestsPerSecond
	cfg.Burst = c.Scorer.Burst
	return cfg
}

// DetectOptions returns the detector options
func (c *Config) DetectOptions() detect.Options {
	return detect.Options{
		InferenceSize: c.Detect.InferenceSize,
		Confidence:    c.Detect.Confidence,
		Device:        c.Detect.Device,
	}
}

// OCRConfig returns the OCR engine configuration
func (c *Config) OCRConfig() ocr.Config {
	cfg := ocr.DefaultConfig()
	cfg.Languages = c.OCR.Languages
	cfg.MinConfidence = c.OCR.MinConfidence
	return cfg
}
