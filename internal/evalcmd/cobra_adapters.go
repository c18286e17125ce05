package evalcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohammedmostain/road-surface-classification/internal/config"
	"github.com/Mohammedmostain/road-surface-classification/internal/labeling"
)

// NewRunCmd creates the run command for evaluating label suggestions
func NewRunCmd() *cobra.Command {
	var datasetDir string
	var provider string
	var model string
	var outputDir string
	var concurrency int
	var sample int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a vision model against the labeled dataset",
		Long: `Ask a vision model to classify every original image in a labeled dataset and
compare its answers with the directory labels.

Augmentation variants are skipped. The run prints a classification report and
confusion matrix and saves per-image results as YAML for later reports.`,
		Example: `  # Evaluate the holdout set with a local model
  roadsort eval run --dataset test_dataset --provider ollama --model llava:13b

  # Evaluate 50 random images with OpenAI, 4 requests at a time
  roadsort eval run --provider openai --sample 50 --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if datasetDir == "" {
				datasetDir = cfg.TestDir
			}
			if provider == "" {
				provider = cfg.Provider.Name
			}
			if model == "" {
				model = cfg.Provider.Model
			}
			if model == "" {
				model = labeling.DefaultModel(provider)
			}
			if concurrency < 1 {
				concurrency = cfg.Provider.Concurrency
			}

			svc := labeling.NewService(cfg.Provider.Temperature)
			return executeRun(cmd.Context(), cmd.OutOrStdout(), svc, runOptions{
				DatasetDir:  datasetDir,
				Exts:        cfg.Extensions,
				Markers:     cfg.Cleanup.Markers,
				Provider:    provider,
				Model:       model,
				Temperature: cfg.Provider.Temperature,
				OutputDir:   outputDir,
				Concurrency: concurrency,
				Sample:      sample,
				Seed:        seed,
			})
		},
	}

	cmd.Flags().StringVar(&datasetDir, "dataset", "", "Labeled dataset root to evaluate (defaults to test_dir)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (ollama, openai, or gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().StringVar(&outputDir, "output", "evals", "Directory for YAML results")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent requests (defaults to provider.concurrency)")
	cmd.Flags().IntVar(&sample, "sample", 0, "Evaluate a random sample of this many images (0 for all)")
	cmd.Flags().Uint64Var(&seed, "seed", 123, "Seed for sampling")

	return cmd
}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report from saved evaluation results",
		Example: `  roadsort eval report --results evals/llava_13b-2026-01-02_03-04-05.yaml
  roadsort eval report --results evals/run.yaml --format csv > run.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resultsPath == "" {
				return fmt.Errorf("--results is required")
			}
			return executeReport(cmd.OutOrStdout(), resultsPath, format)
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "", "Path to an evaluation YAML file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")
	_ = cmd.MarkFlagRequired("results")

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var manifestPath string
	var category string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect dataset manifest records",
		Long: `Inspect records from a parquet or jsonl manifest written by "roadsort manifest".

Prints per-category counts, then each record's path, label and dimensions.`,
		Example: `  # Inspect first 5 records interactively
  roadsort eval inspect --manifest manifest.parquet --limit 5 --interactive

  # Only partially covered images
  roadsort eval inspect --manifest manifest.jsonl --category partial --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath == "" {
				return fmt.Errorf("--manifest is required")
			}
			return executeInspect(cmd.Context(), cmd.OutOrStdout(), os.Stdin, manifestPath, category, limit, interactive)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Path to parquet or jsonl manifest (required)")
	cmd.Flags().StringVar(&category, "category", "", "Only show this category")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each record (press Enter to continue)")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	var provider string
	var model string
	var format string

	cmd := &cobra.Command{
		Use:   "predict IMAGE...",
		Short: "Suggest a road-condition category for images",
		Args:  cobra.MinimumNArgs(1),
		Example: `  roadsort predict traffic_screenshots/cam12_0800.png
  roadsort predict --provider gemini --format json frames/*.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if provider == "" {
				provider = cfg.Provider.Name
			}
			if model == "" {
				model = cfg.Provider.Model
			}
			svc := labeling.NewService(cfg.Provider.Temperature)
			return executePredict(cmd.Context(), cmd.OutOrStdout(), svc, args, provider, model, format)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (ollama, openai, or gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")

	return cmd
}
