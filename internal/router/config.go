package router

import (
	"math/rand/v2"

	"github.com/Mohammedmostain/road-surface-classification/internal/augment"
	"github.com/Mohammedmostain/road-surface-classification/internal/config"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
)

// FromConfig builds the sorting router: assigns generate variants when
// augmentation is enabled. A non-zero augmentation seed makes the variants
// reproducible.
func FromConfig(cfg *config.Config) (*Router, error) {
	aug := cfg.Augmentation

	var gen *augment.Generator
	if aug.Enabled {
		var rng *rand.Rand
		if aug.Seed != 0 {
			rng = rand.New(rand.NewPCG(aug.Seed, aug.Seed))
		}
		gen = augment.NewGenerator(augment.Options{
			MaxRotation:   aug.MaxRotation,
			MinBrightness: aug.MinBrightness,
			MaxBrightness: aug.MaxBrightness,
			JPEGQuality:   aug.JPEGQuality,
		}, rng)
	}

	return New(dataset.Layout{Root: cfg.DatasetDir}, gen, Options{
		Augment:      aug.Enabled,
		KeepOriginal: aug.KeepOriginal,
	})
}

// ForReview builds the router used when correcting labels: a reassign is a
// plain move, because the item's variants were already generated when it was
// first sorted.
func ForReview(layout dataset.Layout) *Router {
	return &Router{layout: layout, opts: Options{KeepOriginal: true}}
}
