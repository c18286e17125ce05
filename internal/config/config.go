package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds everything the curation commands need. It is built once at
// startup and handed to each component; nothing reads package-level settings.
type Config struct {
	SourceDir  string   `yaml:"source_dir" toml:"source_dir"`
	DatasetDir string   `yaml:"dataset_dir" toml:"dataset_dir"`
	TestDir    string   `yaml:"test_dir" toml:"test_dir"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
	LogLevel   string   `yaml:"log_level" toml:"log_level"`

	// Keys maps a single terminal key to a category name.
	Keys map[string]string `yaml:"keys" toml:"keys"`

	Augmentation Augmentation `yaml:"augmentation" toml:"augmentation"`
	Cleanup      Cleanup      `yaml:"cleanup" toml:"cleanup"`
	Review       Review       `yaml:"review" toml:"review"`
	Split        Split        `yaml:"split" toml:"split"`
	Provider     Provider     `yaml:"provider" toml:"provider"`
	Server       Server       `yaml:"server" toml:"server"`
}

// Augmentation controls variant generation when an image is assigned.
type Augmentation struct {
	Enabled       bool    `yaml:"enabled" toml:"enabled"`
	KeepOriginal  bool    `yaml:"keep_original" toml:"keep_original"`
	MaxRotation   float64 `yaml:"max_rotation" toml:"max_rotation"`
	MinBrightness float64 `yaml:"min_brightness" toml:"min_brightness"`
	MaxBrightness float64 `yaml:"max_brightness" toml:"max_brightness"`
	JPEGQuality   int     `yaml:"jpeg_quality" toml:"jpeg_quality"`
	// Seed fixes the random source; zero means seed from the clock.
	Seed uint64 `yaml:"seed" toml:"seed"`
}

// Cleanup configures the bulk deletion pass.
type Cleanup struct {
	Markers []string `yaml:"markers" toml:"markers"`
	DryRun  bool     `yaml:"dry_run" toml:"dry_run"`
}

// Review configures interactive sessions.
type Review struct {
	OnDecodeError string `yaml:"on_decode_error" toml:"on_decode_error"` // "skip" or "delete"
}

// Split configures the holdout splitter.
type Split struct {
	Ratio float64 `yaml:"ratio" toml:"ratio"`
	Seed  uint64  `yaml:"seed" toml:"seed"`
}

// Provider selects the vision model used for label suggestions.
type Provider struct {
	Name        string  `yaml:"name" toml:"name"`
	Model       string  `yaml:"model" toml:"model"`
	Temperature float64 `yaml:"temperature" toml:"temperature"`
	Concurrency int     `yaml:"concurrency" toml:"concurrency"`
}

// Server configures `roadsort serve`.
type Server struct {
	Port           string `yaml:"port" toml:"port"`
	ThumbnailSize  int    `yaml:"thumbnail_size" toml:"thumbnail_size"`
	ThumbnailCache int    `yaml:"thumbnail_cache" toml:"thumbnail_cache"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

// Load reads a YAML or TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s (supported: .yaml, .yml, .toml)", filepath.Ext(path))
	}

	return cfg, nil
}

// KeyFor returns the terminal key bound to a category name, or "".
func (c *Config) KeyFor(category string) string {
	for key, name := range c.Keys {
		if name == category {
			return key
		}
	}
	return ""
}
