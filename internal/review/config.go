package review

import (
	"fmt"

	"github.com/Mohammedmostain/road-surface-classification/internal/config"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/router"
)

// NewFromConfig builds a session over cfg's directories. Sort sessions walk
// the source directory and assign through the augmenting router; review
// sessions walk the labeled dataset and reassign with plain moves. A
// non-empty category limits a review to that directory.
func NewFromConfig(cfg *config.Config, mode Mode, category dataset.Category) (*Session, error) {
	layout := dataset.Layout{Root: cfg.DatasetDir}
	policy := DecodePolicy(cfg.Review.OnDecodeError)

	switch mode {
	case ModeSort:
		r, err := router.FromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create router: %w", err)
		}
		items := dataset.Enumerate(cfg.SourceDir, cfg.Extensions)
		return NewSession(mode, items, r, policy), nil
	case ModeReview:
		items := dataset.EnumerateLabeled(layout, cfg.Extensions)
		if category != "" {
			items = filterCategory(items, category)
		}
		return NewSession(mode, items, router.ForReview(layout), policy), nil
	default:
		return nil, fmt.Errorf("unknown mode %q (expected sort or review)", mode)
	}
}

func filterCategory(items []dataset.Item, c dataset.Category) []dataset.Item {
	out := items[:0]
	for _, item := range items {
		if item.Category == c {
			out = append(out, item)
		}
	}
	return out
}
