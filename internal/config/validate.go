package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
)

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.SourceDir) == "" {
		errs = append(errs, errors.New("source_dir must not be empty"))
	}
	if strings.TrimSpace(c.DatasetDir) == "" {
		errs = append(errs, errors.New("dataset_dir must not be empty"))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("extensions must list at least one image extension"))
	}

	seen := make(map[dataset.Category]string)
	for key, name := range c.Keys {
		if len([]rune(key)) != 1 {
			errs = append(errs, fmt.Errorf("key %q must be a single character", key))
		}
		if key == "x" || key == "k" || key == "q" {
			errs = append(errs, fmt.Errorf("key %q is reserved", key))
		}
		cat, err := dataset.ParseCategory(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", key, err))
			continue
		}
		if other, dup := seen[cat]; dup {
			errs = append(errs, fmt.Errorf("category %s bound to both %q and %q", cat, other, key))
		}
		seen[cat] = key
	}

	a := c.Augmentation
	if !a.Enabled && !a.KeepOriginal {
		errs = append(errs, errors.New("augmentation disabled with keep_original=false would discard every assigned image"))
	}
	if a.MaxRotation < 0 || a.MaxRotation > 45 {
		errs = append(errs, fmt.Errorf("max_rotation %.1f out of range [0, 45]", a.MaxRotation))
	}
	if a.MinBrightness <= 0 || a.MaxBrightness < a.MinBrightness {
		errs = append(errs, fmt.Errorf("brightness range [%.2f, %.2f] is invalid", a.MinBrightness, a.MaxBrightness))
	}
	if a.JPEGQuality < 1 || a.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality %d out of range [1, 100]", a.JPEGQuality))
	}

	for _, m := range c.Cleanup.Markers {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, errors.New("cleanup markers must not contain empty strings"))
			break
		}
	}

	switch c.Review.OnDecodeError {
	case DecodeSkip, DecodeDelete:
	default:
		errs = append(errs, fmt.Errorf("on_decode_error %q must be %q or %q", c.Review.OnDecodeError, DecodeSkip, DecodeDelete))
	}

	if c.Split.Ratio <= 0 || c.Split.Ratio >= 1 {
		errs = append(errs, fmt.Errorf("split ratio %.2f must be between 0 and 1", c.Split.Ratio))
	}

	if c.Provider.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("provider concurrency %d must be at least 1", c.Provider.Concurrency))
	}

	return errors.Join(errs...)
}
