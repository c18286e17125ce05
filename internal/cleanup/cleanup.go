// Package cleanup removes generated augmentation variants from a dataset so
// that only originals remain.
package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
)

// ErrNoMarkers is returned when the marker list is empty.
var ErrNoMarkers = errors.New("cleanup: no markers configured")

// Options control a cleanup pass.
type Options struct {
	Markers []string
	// Exts restricts matching to image files. Empty means every file.
	Exts   []string
	DryRun bool
}

// Report summarises a cleanup pass. In dry-run mode Deleted counts the files
// that would have been removed.
type Report struct {
	Root    string   `json:"root"`
	DryRun  bool     `json:"dry_run"`
	Deleted int      `json:"deleted"`
	Kept    int      `json:"kept"`
	Failed  int      `json:"failed"`
	Paths   []string `json:"paths,omitempty"`
}

// Run walks root recursively and deletes every file whose name contains one
// of the markers. Running it twice is safe: the second pass deletes nothing.
func Run(root string, opts Options) (*Report, error) {
	if len(opts.Markers) == 0 {
		return nil, ErrNoMarkers
	}
	for _, m := range opts.Markers {
		if m == "" {
			return nil, fmt.Errorf("cleanup: empty marker in %q", opts.Markers)
		}
	}
	if err := dataset.RequireDir(root); err != nil {
		return nil, err
	}

	report := &Report{Root: root, DryRun: opts.DryRun}

	slog.Info("Starting dataset cleanup", "root", root, "markers", opts.Markers, "dry_run", opts.DryRun)

	// WalkDir visits entries in lexical order.
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Warn("Failed to read path during cleanup", "path", path, "error", walkErr)
			return nil
		}
		if d.IsDir() || d.Name() == dataset.LockFileName {
			return nil
		}
		if len(opts.Exts) > 0 && !dataset.HasExtension(d.Name(), opts.Exts) {
			return nil
		}

		marker, ok := dataset.MatchMarker(d.Name(), opts.Markers)
		if !ok {
			report.Kept++
			return nil
		}

		if opts.DryRun {
			slog.Info("[DRY RUN] Would delete variant", "path", path, "marker", marker)
			report.Deleted++
			report.Paths = append(report.Paths, path)
			return nil
		}

		if err := os.Remove(path); err != nil {
			slog.Error("Failed to delete variant", "path", path, "error", err)
			report.Failed++
			return nil
		}
		slog.Debug("Deleted variant", "path", path, "marker", marker)
		report.Deleted++
		report.Paths = append(report.Paths, path)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	slog.Info("Cleanup complete", "deleted", report.Deleted, "kept", report.Kept, "failed", report.Failed, "dry_run", opts.DryRun)
	return report, nil
}
