package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Mohammedmostain/road-surface-classification/internal/curatecmd"
	"github.com/Mohammedmostain/road-surface-classification/internal/evalcmd"
)

func addCurateCmds(root *cobra.Command) {
	root.AddCommand(curatecmd.NewSortCmd())
	root.AddCommand(curatecmd.NewReviewCmd())
	root.AddCommand(curatecmd.NewCleanCmd())
	root.AddCommand(curatecmd.NewSplitCmd())
	root.AddCommand(curatecmd.NewManifestCmd())
	root.AddCommand(evalcmd.NewPredictCmd())
}
