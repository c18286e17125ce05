package curatecmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/Mohammedmostain/road-surface-classification/internal/cleanup"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/render"
	"github.com/Mohammedmostain/road-surface-classification/internal/split"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func executeClean(w io.Writer, root string, opts cleanup.Options, asJSON bool) error {
	if err := dataset.RequireDir(root); err != nil {
		return err
	}
	lock, err := dataset.AcquireLock(root)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Error("Failed to release dataset lock", "error", err)
		}
	}()

	report, err := cleanup.Run(root, opts)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if asJSON {
		return writeJSON(w, report)
	}

	verb := "Deleted"
	if report.DryRun {
		verb = "Would delete"
	}
	for _, p := range report.Paths {
		fmt.Fprintf(w, "%s %s\n", verb, p)
	}
	fmt.Fprintln(w, render.Table(
		[]string{"Root", "Deleted", "Kept", "Failed"},
		[][]string{{report.Root, strconv.Itoa(report.Deleted), strconv.Itoa(report.Kept), strconv.Itoa(report.Failed)}},
		[]render.Alignment{render.AlignLeft, render.AlignRight, render.AlignRight, render.AlignRight},
	))
	if report.Failed > 0 {
		return fmt.Errorf("%d files could not be deleted", report.Failed)
	}
	return nil
}

func executeSplit(w io.Writer, train, holdout dataset.Layout, opts split.Options, asJSON bool) error {
	if err := dataset.RequireDir(train.Root); err != nil {
		return err
	}
	lock, err := dataset.AcquireLock(train.Root)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Error("Failed to release dataset lock", "error", err)
		}
	}()

	report, err := split.Run(train, holdout, opts)
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	if asJSON {
		return writeJSON(w, report)
	}

	rows := make([][]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		rows = append(rows, []string{
			string(c.Category),
			strconv.Itoa(c.Originals),
			strconv.Itoa(c.Moved),
			strconv.Itoa(c.Conflicts),
			strconv.Itoa(c.VariantsDeleted),
		})
	}
	if report.DryRun {
		fmt.Fprintln(w, "[DRY RUN] nothing was moved")
	}
	fmt.Fprintln(w, render.Table(
		[]string{"Category", "Originals", "Moved", "Conflicts", "Variants deleted"},
		rows,
		[]render.Alignment{render.AlignLeft, render.AlignRight, render.AlignRight, render.AlignRight, render.AlignRight},
	))
	fmt.Fprintf(w, "Holdout set: %s (%d images)\n", holdout.Root, report.Moved())
	return nil
}

func executeManifest(w io.Writer, layout dataset.Layout, exts, markers []string, output string) error {
	records, err := dataset.BuildManifest(layout, exts, markers)
	if err != nil {
		return fmt.Errorf("failed to build manifest: %w", err)
	}
	if err := dataset.WriteManifest(output, records); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	counts := dataset.Counts(records)
	rows := make([][]string, 0, len(dataset.Categories))
	for _, c := range dataset.Categories {
		n := counts[string(c)]
		rows = append(rows, []string{strconv.Itoa(c.Index()), string(c), strconv.Itoa(n.Originals), strconv.Itoa(n.Variants)})
	}
	fmt.Fprintln(w, render.Table(
		[]string{"Class", "Category", "Originals", "Variants"},
		rows,
		[]render.Alignment{render.AlignRight, render.AlignLeft, render.AlignRight, render.AlignRight},
	))
	fmt.Fprintf(w, "Wrote %d records to %s\n", len(records), output)
	return nil
}
