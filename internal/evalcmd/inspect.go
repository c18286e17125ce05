package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/render"
)

func executeInspect(ctx context.Context, w io.Writer, in io.Reader, manifestPath, category string, limit int, interactive bool) error {
	records, err := dataset.NewManifestLoader(manifestPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	if category != "" {
		c, err := dataset.ParseCategory(category)
		if err != nil {
			return err
		}
		filtered := records[:0]
		for _, r := range records {
			if r.Category == string(c) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	fmt.Fprintf(w, "Loaded %d records from %s\n", len(records), manifestPath)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	printCounts(w, records)
	fmt.Fprintln(w)

	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	reader := bufio.NewReader(in)

	for i, record := range records {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w, "\nInspection interrupted.")
			return nil
		default:
		}

		fmt.Fprintf(w, "RECORD %d/%d\n", i+1, len(records))
		fmt.Fprintln(w, strings.Repeat("-", 80))
		fmt.Fprintf(w, "Path:        %s\n", record.Path)
		fmt.Fprintf(w, "Category:    %s (class %d)\n", record.Category, record.ClassIndex)
		if record.Variant {
			fmt.Fprintf(w, "Variant:     %s\n", record.Suffix)
		}
		fmt.Fprintf(w, "Dimensions:  %dx%d\n", record.Width, record.Height)
		fmt.Fprintf(w, "Size:        %d bytes\n", record.SizeBytes)
		fmt.Fprintln(w)

		if interactive {
			fmt.Fprint(w, "Press Enter to continue to next record (or Ctrl+C to quit)...")

			inputCh := make(chan struct{})
			go func() {
				_, _ = reader.ReadString('\n')
				close(inputCh)
			}()

			select {
			case <-ctx.Done():
				fmt.Fprintln(w, "\nInspection interrupted.")
				return nil
			case <-inputCh:
				fmt.Fprintln(w)
			}
		}
	}

	return nil
}

func printCounts(w io.Writer, records []dataset.ManifestRecord) {
	counts := dataset.Counts(records)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		c := counts[name]
		rows = append(rows, []string{name, strconv.Itoa(c.Originals), strconv.Itoa(c.Variants), strconv.Itoa(c.Originals + c.Variants)})
	}
	fmt.Fprintln(w, render.Table([]string{"Category", "Originals", "Variants", "Total"}, rows, []render.Alignment{render.AlignLeft, render.AlignRight, render.AlignRight, render.AlignRight}))
}
