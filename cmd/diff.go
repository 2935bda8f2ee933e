package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sutaburosu/fledlint/internal/domain"
	m "github.com/sutaburosu/fledlint/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before-report> <after-report>",
		Short: "Diff two saved lint reports",
		Long: `Show a unified diff between the violation listings of two saved report
files, so a branch can be compared against its base without re-running the
check on both trees.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				Before: m.Path(args[0]),
				After:  m.Path(args[1]),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
