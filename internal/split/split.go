// Package split carves an unseen holdout set out of the labeled dataset.
package split

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/Mohammedmostain/road-surface-classification/internal/augment"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/fileutil"
)

// Options control a split.
type Options struct {
	Ratio   float64
	Seed    uint64
	Markers []string
	Exts    []string
	DryRun  bool
}

// CategoryReport is the per-category result.
type CategoryReport struct {
	Category        dataset.Category `json:"category"`
	Originals       int              `json:"originals"`
	Moved           int              `json:"moved"`
	Conflicts       int              `json:"conflicts"`
	VariantsDeleted int              `json:"variants_deleted"`
	Paths           []string         `json:"paths,omitempty"`
}

// Report summarises a split.
type Report struct {
	DryRun     bool             `json:"dry_run"`
	Categories []CategoryReport `json:"categories"`
}

// Moved is the total number of originals moved (or selected, in dry-run).
func (r *Report) Moved() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Moved
	}
	return n
}

// Run moves round(Ratio × originals) originals of every category from train
// into the same category of holdout, and deletes their variants from train.
// Selection is a seeded shuffle over name-sorted originals, so the same seed
// on the same dataset picks the same files.
func Run(train, holdout dataset.Layout, opts Options) (*Report, error) {
	if opts.Ratio <= 0 || opts.Ratio >= 1 {
		return nil, fmt.Errorf("split ratio %.3f must be in (0, 1)", opts.Ratio)
	}
	if err := dataset.RequireDir(train.Root); err != nil {
		return nil, err
	}
	if dataset.SameDir(train.Root, holdout.Root) {
		return nil, errors.New("holdout root must differ from the training root")
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	report := &Report{DryRun: opts.DryRun}

	for _, c := range dataset.Categories {
		cr, err := splitCategory(train, holdout, c, rng, opts)
		report.Categories = append(report.Categories, cr)
		if err != nil {
			return report, err
		}
	}

	slog.Info("Split complete", "moved", report.Moved(), "ratio", opts.Ratio, "seed", opts.Seed, "dry_run", opts.DryRun)
	return report, nil
}

func splitCategory(train, holdout dataset.Layout, c dataset.Category, rng *rand.Rand, opts Options) (CategoryReport, error) {
	cr := CategoryReport{Category: c}

	var originals []dataset.Item
	for _, item := range dataset.Enumerate(train.Dir(c), opts.Exts) {
		if _, isVariant := dataset.MatchMarker(item.Name, opts.Markers); !isVariant {
			originals = append(originals, item)
		}
	}
	cr.Originals = len(originals)

	n := int(math.Round(opts.Ratio * float64(len(originals))))
	if n == 0 {
		slog.Debug("No originals selected for holdout", "category", c, "originals", len(originals))
		return cr, nil
	}

	rng.Shuffle(len(originals), func(i, j int) {
		originals[i], originals[j] = originals[j], originals[i]
	})
	selected := originals[:n]

	target := holdout.Dir(c)
	if !opts.DryRun {
		if err := os.MkdirAll(target, 0755); err != nil {
			return cr, fmt.Errorf("%w: create %s: %w", dataset.ErrWrite, target, err)
		}
	}

	for _, item := range selected {
		dst := filepath.Join(target, item.Name)

		if opts.DryRun {
			slog.Info("[DRY RUN] Would move to holdout", "item", item.Name, "category", c)
			cr.Moved++
			cr.Paths = append(cr.Paths, dst)
			continue
		}

		if _, err := os.Stat(dst); err == nil {
			slog.Warn("Holdout already contains item, skipping", "item", item.Name, "category", c, "error", dataset.ErrMoveConflict)
			cr.Conflicts++
			continue
		}
		if err := fileutil.MoveFile(item.Path(), dst); err != nil {
			return cr, fmt.Errorf("%w: move %s to holdout: %w", dataset.ErrWrite, item.Name, err)
		}
		cr.Moved++
		cr.Paths = append(cr.Paths, dst)

		cr.VariantsDeleted += removeVariants(item, opts.Markers)
	}

	slog.Info("Moved originals to holdout", "category", c, "moved", cr.Moved, "of", cr.Originals)
	return cr, nil
}

// removeVariants deletes the derived files of item that sit next to it.
func removeVariants(item dataset.Item, markers []string) int {
	removed := 0
	for _, m := range markers {
		path := filepath.Join(item.Dir, augment.VariantName(item.Base(), m))
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				slog.Error("Failed to delete variant of holdout item", "path", path, "error", err)
			}
			continue
		}
		removed++
	}
	return removed
}
