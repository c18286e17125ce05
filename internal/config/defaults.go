package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DecodeSkip   = "skip"
	DecodeDelete = "delete"
)

// Default returns the configuration matching the original folder layout.
func Default() *Config {
	return &Config{
		SourceDir:  "traffic_screenshots",
		DatasetDir: "labeled_dataset",
		TestDir:    "test_dataset",
		Extensions: []string{".png", ".jpg", ".jpeg"},
		LogLevel:   "info",
		Keys: map[string]string{
			"1": "fully_covered",
			"2": "partially_covered",
			"3": "clear_road",
		},
		Augmentation: Augmentation{
			Enabled:       true,
			KeepOriginal:  true,
			MaxRotation:   10,
			MinBrightness: 0.7,
			MaxBrightness: 1.3,
			JPEGQuality:   90,
		},
		Cleanup: Cleanup{
			Markers: []string{"flip", "rot1", "rot2", "light1"},
		},
		Review: Review{
			OnDecodeError: DecodeSkip,
		},
		Split: Split{
			Ratio: 0.2,
			Seed:  123,
		},
		Provider: Provider{
			Name:        "ollama",
			Temperature: 0.1,
			Concurrency: 1,
		},
		Server: Server{
			Port:           "8888",
			ThumbnailSize:  800,
			ThumbnailCache: 64,
			MaxUploadBytes: 10 * 1024 * 1024,
		},
	}
}

// ApplyEnv overrides fields from ROADSORT_* environment variables. Unparseable
// numeric values are ignored and left at their current setting.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ROADSORT_SOURCE_DIR"); v != "" {
		c.SourceDir = v
	}
	if v := os.Getenv("ROADSORT_DATASET_DIR"); v != "" {
		c.DatasetDir = v
	}
	if v := os.Getenv("ROADSORT_TEST_DIR"); v != "" {
		c.TestDir = v
	}
	if v := os.Getenv("ROADSORT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ROADSORT_AUGMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Augmentation.Enabled = b
		}
	}
	if v := os.Getenv("ROADSORT_KEEP_ORIGINAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Augmentation.KeepOriginal = b
		}
	}
	if v := os.Getenv("ROADSORT_MARKERS"); v != "" {
		c.Cleanup.Markers = splitList(v)
	}
	if v := os.Getenv("ROADSORT_ON_DECODE_ERROR"); v != "" {
		c.Review.OnDecodeError = v
	}
	if v := os.Getenv("ROADSORT_PROVIDER"); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv("ROADSORT_MODEL"); v != "" {
		c.Provider.Model = v
	}
	if v := os.Getenv("ROADSORT_PORT"); v != "" {
		c.Server.Port = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
