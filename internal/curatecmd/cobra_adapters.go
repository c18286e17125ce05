package curatecmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohammedmostain/road-surface-classification/internal/cleanup"
	"github.com/Mohammedmostain/road-surface-classification/internal/config"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/review"
	"github.com/Mohammedmostain/road-surface-classification/internal/split"
)

func runInteractive(cmd *cobra.Command, cfg *config.Config, mode review.Mode, category dataset.Category) error {
	keys, err := review.NewKeyMap(cfg.Keys)
	if err != nil {
		return err
	}

	lock, err := dataset.AcquireLock(cfg.DatasetDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Error("Failed to release dataset lock", "error", err)
		}
	}()

	sess, err := review.NewFromConfig(cfg, mode, category)
	if err != nil {
		return err
	}

	prompt := isTerminal(os.Stdin)
	if !prompt {
		slog.Info("Standard input is not a terminal, reading commands without prompts")
	}
	return executeSession(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), sess, keys, prompt)
}

// NewSortCmd creates the sort command
func NewSortCmd() *cobra.Command {
	var sourceDir string
	var datasetDir string
	var noAugment bool

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Label unsorted frames one at a time",
		Long: `Walk the source directory and assign each frame to a category.

Assigned frames are moved into the dataset together with four augmentation
variants (flip, two rotations, brightness) unless augmentation is disabled.
Frames that cannot be decoded are skipped or deleted per review.on_decode_error.`,
		Example: `  # Sort traffic_screenshots into labeled_dataset
  roadsort sort

  # Sort another folder without generating variants
  roadsort sort --source frames/cam12 --no-augment`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if sourceDir != "" {
				cfg.SourceDir = sourceDir
			}
			if datasetDir != "" {
				cfg.DatasetDir = datasetDir
			}
			if noAugment {
				cfg.Augmentation.Enabled = false
				cfg.Augmentation.KeepOriginal = true
			}
			return runInteractive(cmd, cfg, review.ModeSort, "")
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source", "", "Directory of unsorted frames (defaults to source_dir)")
	cmd.Flags().StringVar(&datasetDir, "dataset", "", "Labeled dataset root (defaults to dataset_dir)")
	cmd.Flags().BoolVar(&noAugment, "no-augment", false, "Move frames without generating variants")

	return cmd
}

// NewReviewCmd creates the review command
func NewReviewCmd() *cobra.Command {
	var datasetDir string
	var category string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Step through labeled images to fix or delete them",
		Long: `Walk every category directory of the labeled dataset.

Pressing a category key moves the image there, x deletes it and Enter keeps
it. Variants are not regenerated on a reassign; run "roadsort clean" and
re-sort if they must follow the original.`,
		Example: `  roadsort review
  roadsort review --category partial`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if datasetDir != "" {
				cfg.DatasetDir = datasetDir
			}

			var c dataset.Category
			if category != "" {
				parsed, err := dataset.ParseCategory(category)
				if err != nil {
					return err
				}
				c = parsed
			}
			return runInteractive(cmd, cfg, review.ModeReview, c)
		},
	}

	cmd.Flags().StringVar(&datasetDir, "dataset", "", "Labeled dataset root (defaults to dataset_dir)")
	cmd.Flags().StringVar(&category, "category", "", "Only review this category")

	return cmd
}

// NewCleanCmd creates the clean command
func NewCleanCmd() *cobra.Command {
	var root string
	var markers []string
	var dryRun bool
	var imagesOnly bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete augmentation variants, leaving only originals",
		Long: `Recursively delete every file whose name contains one of the cleanup markers.

Running clean twice is safe: the second pass finds nothing to delete.`,
		Example: `  # Preview what would be removed
  roadsort clean --dry-run

  # Clean the holdout set with custom markers
  roadsort clean --root test_dataset --markers flip,rot1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if root == "" {
				root = cfg.DatasetDir
			}
			if len(markers) == 0 {
				markers = cfg.Cleanup.Markers
			}

			opts := cleanup.Options{
				Markers: markers,
				DryRun:  dryRun || cfg.Cleanup.DryRun,
			}
			if imagesOnly {
				opts.Exts = cfg.Extensions
			}
			return executeClean(cmd.OutOrStdout(), root, opts, asJSON)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Directory to clean (defaults to dataset_dir)")
	cmd.Flags().StringSliceVar(&markers, "markers", nil, "Name markers identifying variants (defaults to cleanup.markers)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report matches without deleting")
	cmd.Flags().BoolVar(&imagesOnly, "images-only", false, "Only match files with a configured image extension")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

// NewSplitCmd creates the split command
func NewSplitCmd() *cobra.Command {
	var datasetDir string
	var testDir string
	var ratio float64
	var seed uint64
	var dryRun bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Move a seeded fraction of each category into a holdout set",
		Long: `Select round(ratio x originals) originals per category with a seeded shuffle,
move them into the same category of the test dataset, and delete their
variants from the training dataset.`,
		Example: `  roadsort split --ratio 0.2 --seed 123
  roadsort split --test-dir unseen --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if datasetDir == "" {
				datasetDir = cfg.DatasetDir
			}
			if testDir == "" {
				testDir = cfg.TestDir
			}
			if !cmd.Flags().Changed("ratio") {
				ratio = cfg.Split.Ratio
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Split.Seed
			}

			return executeSplit(cmd.OutOrStdout(),
				dataset.Layout{Root: datasetDir},
				dataset.Layout{Root: testDir},
				split.Options{
					Ratio:   ratio,
					Seed:    seed,
					Markers: cfg.Cleanup.Markers,
					Exts:    cfg.Extensions,
					DryRun:  dryRun,
				}, asJSON)
		},
	}

	cmd.Flags().StringVar(&datasetDir, "dataset", "", "Training dataset root (defaults to dataset_dir)")
	cmd.Flags().StringVar(&testDir, "test-dir", "", "Holdout dataset root (defaults to test_dir)")
	cmd.Flags().Float64Var(&ratio, "ratio", 0.2, "Fraction of originals to hold out per category")
	cmd.Flags().Uint64Var(&seed, "seed", 123, "Seed for the selection")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the selection without moving files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

// NewManifestCmd creates the manifest command
func NewManifestCmd() *cobra.Command {
	var datasetDir string
	var output string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Export the labeled dataset as a parquet or jsonl manifest",
		Long: `Write one record per image with its category, class index, variant suffix and
dimensions. Class indexes follow alphabetical directory order, matching the
classifier's training loader.`,
		Example: `  roadsort manifest --output manifest.parquet
  roadsort manifest --dataset test_dataset --output test.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if datasetDir == "" {
				datasetDir = cfg.DatasetDir
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			return executeManifest(cmd.OutOrStdout(), dataset.Layout{Root: datasetDir}, cfg.Extensions, cfg.Cleanup.Markers, output)
		},
	}

	cmd.Flags().StringVar(&datasetDir, "dataset", "", "Labeled dataset root (defaults to dataset_dir)")
	cmd.Flags().StringVarP(&output, "output", "o", "manifest.parquet", "Manifest path (.parquet or .jsonl)")

	return cmd
}
