package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/eval/metrics"
	"github.com/Mohammedmostain/road-surface-classification/internal/eval/results"
	"github.com/Mohammedmostain/road-surface-classification/internal/labeling"
)

// suggester is the part of labeling.Service an evaluation needs.
type suggester interface {
	Suggest(ctx context.Context, imagePath, provider, model string) (*labeling.Suggestion, error)
}

type runOptions struct {
	DatasetDir  string
	Exts        []string
	Markers     []string
	Provider    string
	Model       string
	Temperature float64
	OutputDir   string
	Concurrency int
	Sample      int
	Seed        uint64
}

// selectItems returns the labeled originals to evaluate. Variants are left
// out because they share their original's label and would inflate accuracy.
// A positive sample draws that many items with a seeded shuffle.
func selectItems(opts runOptions) ([]dataset.Item, error) {
	if err := dataset.RequireDir(opts.DatasetDir); err != nil {
		return nil, err
	}

	var items []dataset.Item
	for _, item := range dataset.EnumerateLabeled(dataset.Layout{Root: opts.DatasetDir}, opts.Exts) {
		if _, isVariant := dataset.MatchMarker(item.Name, opts.Markers); !isVariant {
			items = append(items, item)
		}
	}

	if opts.Sample > 0 && opts.Sample < len(items) {
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		items = items[:opts.Sample]
	}
	return items, nil
}

// evaluate predicts every item with bounded concurrency. A failed prediction
// is recorded on its result; only cancellation stops the run.
func evaluate(ctx context.Context, svc suggester, items []dataset.Item, root string, opts runOptions) ([]metrics.EvaluationResult, error) {
	out := make([]metrics.EvaluationResult, len(items))

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, item := range items {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			rel, err := filepath.Rel(root, item.Path())
			if err != nil {
				rel = item.Path()
			}
			result := metrics.EvaluationResult{Path: filepath.ToSlash(rel), Actual: item.Category}

			slog.Info("Processing item", "path", result.Path, "progress", fmt.Sprintf("%d/%d", i+1, len(items)))

			start := time.Now()
			suggestion, err := svc.Suggest(gctx, item.Path(), opts.Provider, opts.Model)
			result.ProcessingTime = time.Since(start)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("Prediction failed", "path", result.Path, "error", err)
				result.Error = err.Error()
			} else {
				result.Predicted = suggestion.Category
				result.Confidence = suggestion.Confidence
				result.Notes = suggestion.Notes
			}

			out[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation interrupted: %w", err)
	}
	return out, nil
}

func executeRun(ctx context.Context, w io.Writer, svc suggester, opts runOptions) error {
	slog.Info("Starting evaluation run", "dataset", opts.DatasetDir, "provider", opts.Provider, "model", opts.Model)

	items, err := selectItems(opts)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("no labeled images found under %s", opts.DatasetDir)
	}

	slog.Info("Dataset loaded", "items", len(items), "concurrency", opts.Concurrency)

	evalResults, err := evaluate(ctx, svc, items, opts.DatasetDir, opts)
	if err != nil {
		return err
	}

	agg := metrics.AggregateEvaluationResults(evalResults, opts.Provider, opts.Model)
	agg.WriteSummary(w)

	path, err := results.SaveToYAML(opts.OutputDir, results.EvalConfig{
		Provider:    opts.Provider,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		DatasetPath: opts.DatasetDir,
	}, agg)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Fprintf(w, "\nResults saved to: %s\n", path)
	fmt.Fprintf(w, "\nGenerate detailed report with:\n")
	fmt.Fprintf(w, "  roadsort eval report --results %s\n", path)
	return nil
}
