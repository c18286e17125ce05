package evalcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/render"
)

type prediction struct {
	Path       string           `json:"path"`
	Category   dataset.Category `json:"category,omitempty"`
	Confidence float64          `json:"confidence"`
	Notes      string           `json:"notes,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// executePredict suggests a category for each image. Failures are reported
// per image; the command fails only when every image failed.
func executePredict(ctx context.Context, w io.Writer, svc suggester, paths []string, provider, model, format string) error {
	predictions := make([]prediction, 0, len(paths))
	failed := 0

	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p := prediction{Path: path}
		suggestion, err := svc.Suggest(ctx, path, provider, model)
		if err != nil {
			slog.Error("Prediction failed", "path", path, "error", err)
			p.Error = err.Error()
			failed++
		} else {
			p.Category = suggestion.Category
			p.Confidence = suggestion.Confidence
			p.Notes = suggestion.Notes
		}
		predictions = append(predictions, p)
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(predictions); err != nil {
			return err
		}
	case "text":
		rows := make([][]string, 0, len(predictions))
		for _, p := range predictions {
			status := string(p.Category)
			if p.Error != "" {
				status = "error: " + render.Truncate(p.Error, 40)
			}
			rows = append(rows, []string{p.Path, status, fmt.Sprintf("%.2f", p.Confidence), render.Truncate(p.Notes, 50)})
		}
		fmt.Fprintln(w, render.Table([]string{"Image", "Category", "Confidence", "Notes"}, rows, []render.Alignment{render.AlignLeft, render.AlignLeft, render.AlignRight, render.AlignLeft}))
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if failed > 0 && failed == len(paths) {
		return fmt.Errorf("all %d predictions failed", failed)
	}
	return nil
}
