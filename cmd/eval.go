package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Mohammedmostain/road-surface-classification/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Vision model evaluation tools",
		Long: `Evaluation tools for measuring how well a vision LLM labels road conditions.

Runs a model over the labeled (or holdout) dataset, reports precision, recall,
F1 and a confusion matrix, and inspects dataset manifests.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())

	return cmd
}
