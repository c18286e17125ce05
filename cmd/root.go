package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Mohammedmostain/road-surface-classification/internal/config"
)

func NewRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "roadsort",
		Short: "Road-condition image dataset curation toolkit",
		Long: `Roadsort curates a labeled traffic-camera image dataset for a road-condition
classifier with three classes: clear_road, partially_covered and fully_covered.

It sorts raw frames into category folders with augmentation, reviews and fixes
existing labels, removes generated variants, carves out a holdout set, exports
a training manifest, and evaluates vision models against the labels.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ApplyEnv()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			level := parseLevel(cfg.LogLevel)
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			cmd.SetContext(config.NewContext(cmd.Context(), cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("ROADSORT_CONFIG"), "Config file (.yaml or .toml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	addCurateCmds(cmd)
	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
