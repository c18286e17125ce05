package router

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Mohammedmostain/road-surface-classification/internal/augment"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/fileutil"
	"github.com/Mohammedmostain/road-surface-classification/internal/images"
)

// Outcome says what an action did to the dataset.
type Outcome int

const (
	// OutcomeAssigned: the item now lives in the target category.
	OutcomeAssigned Outcome = iota
	// OutcomeUnchanged: the item was already in the target category.
	OutcomeUnchanged
	// OutcomeConflict: the target held a file with the same name; nothing moved.
	OutcomeConflict
	// OutcomeDeleted: the source file was removed.
	OutcomeDeleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAssigned:
		return "assigned"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeConflict:
		return "conflict"
	case OutcomeDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options control what an assign writes.
type Options struct {
	// Augment generates the four variants next to the original.
	Augment bool
	// KeepOriginal copies the original into the category. With Augment off it
	// must be true.
	KeepOriginal bool
}

// Result describes a completed action.
type Result struct {
	Outcome  Outcome
	Category dataset.Category
	Target   string   // original's path in the category, when written
	Variants []string // variant paths written
}

// Router moves items into category directories.
type Router struct {
	layout dataset.Layout
	gen    *augment.Generator
	opts   Options
}

// New creates a router. gen may be nil when opts.Augment is false.
func New(layout dataset.Layout, gen *augment.Generator, opts Options) (*Router, error) {
	if opts.Augment && gen == nil {
		return nil, errors.New("router: augmentation enabled without a generator")
	}
	if !opts.Augment && !opts.KeepOriginal {
		return nil, errors.New("router: nothing would be written for an assigned item")
	}
	return &Router{layout: layout, gen: gen, opts: opts}, nil
}

// Layout returns the dataset layout the router writes into.
func (r *Router) Layout() dataset.Layout {
	return r.layout
}

// Assign places item into category c. The source is removed only after every
// write succeeded; on failure whatever this call wrote is removed again and
// the source is left untouched.
func (r *Router) Assign(item dataset.Item, c dataset.Category) (Result, error) {
	result := Result{Category: c}

	if !c.Valid() {
		return result, fmt.Errorf("assign %s: unknown category %q", item.Name, c)
	}

	target := r.layout.Dir(c)
	if dataset.SameDir(item.Dir, target) {
		slog.Debug("Item already in target category", "item", item.Name, "category", c)
		result.Outcome = OutcomeUnchanged
		return result, nil
	}

	src := item.Path()
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return result, &dataset.PathError{Path: src, Err: dataset.ErrNotFound}
		}
		return result, fmt.Errorf("assign %s: %w", item.Name, err)
	}

	if err := os.MkdirAll(target, 0755); err != nil {
		return result, fmt.Errorf("%w: create %s: %w", dataset.ErrWrite, target, err)
	}

	dst := filepath.Join(target, item.Name)
	if existing, ok := r.occupied(item, target, dst); ok {
		slog.Warn("Target already contains item, skipping", "item", item.Name, "category", c, "existing", existing, "error", dataset.ErrMoveConflict)
		result.Outcome = OutcomeConflict
		return result, nil
	}

	if !r.opts.Augment {
		if err := fileutil.MoveFile(src, dst); err != nil {
			return result, fmt.Errorf("%w: move %s: %w", dataset.ErrWrite, item.Name, err)
		}
		slog.Info("Moved image", "item", item.Name, "category", c)
		result.Outcome = OutcomeAssigned
		result.Target = dst
		return result, nil
	}

	img, err := images.Open(src)
	if err != nil {
		return result, err
	}

	written, err := r.gen.Write(img, item.Base(), target)
	if err != nil {
		return result, fmt.Errorf("assign %s: %w", item.Name, err)
	}

	if r.opts.KeepOriginal {
		if err := fileutil.CopyFile(src, dst); err != nil {
			augment.Remove(written)
			return result, fmt.Errorf("%w: copy %s: %w", dataset.ErrWrite, item.Name, err)
		}
		result.Target = dst
	}

	if err := os.Remove(src); err != nil {
		// The copies must not outlive a source we could not remove, or the
		// item would be in two places.
		augment.Remove(written)
		if result.Target != "" {
			augment.Remove([]string{result.Target})
		}
		return Result{Category: c}, fmt.Errorf("remove source %s: %w", src, err)
	}

	result.Outcome = OutcomeAssigned
	result.Variants = written
	slog.Info("Processed image", "item", item.Name, "category", c, "variants", len(written), "kept_original", r.opts.KeepOriginal)
	return result, nil
}

// occupied returns the first path this assign would write that already
// exists in target. Variant names drop the source extension, so img1.png and
// img1.jpg collide on their variants even though the originals differ.
func (r *Router) occupied(item dataset.Item, target, dst string) (string, bool) {
	paths := make([]string, 0, len(augment.Suffixes)+1)
	if r.opts.KeepOriginal {
		paths = append(paths, dst)
	}
	if r.opts.Augment {
		for _, suffix := range augment.Suffixes {
			paths = append(paths, filepath.Join(target, augment.VariantName(item.Base(), suffix)))
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Delete removes item's file. Variants are left alone.
func (r *Router) Delete(item dataset.Item) (Result, error) {
	path := item.Path()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return Result{}, &dataset.PathError{Path: path, Err: dataset.ErrNotFound}
		}
		return Result{}, fmt.Errorf("delete %s: %w", item.Name, err)
	}

	slog.Info("Deleted image", "item", item.Name, "dir", item.Dir)
	return Result{Outcome: OutcomeDeleted, Category: item.Category}, nil
}
