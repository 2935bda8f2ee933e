package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available lint rules",
		Long:  "List every lint rule with its suppression marker and a short description.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.ListRules(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
