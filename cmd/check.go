package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sutaburosu/fledlint/internal/controller"
	"github.com/sutaburosu/fledlint/internal/domain"
	m "github.com/sutaburosu/fledlint/internal/model"
)

var checkParallelFlag int
var checkRuleNames []string
var checkInteractive bool

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "check [paths...]",
		Short:         "Check C++ sources for style violations",
		Long:          checkLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := parsePaths(args)
			if len(paths) == 0 {
				paths = []m.Path{"."}
			}

			threads := viper.GetInt(checkParallelConfigKey)
			if threads < 1 {
				threads = 1
			}

			wf := workflow
			if checkInteractive {
				interactiveUI := controller.NewUI(cmd, true, verboseFlag)
				wf = domain.NewWorkflow(sourceFSAdapter, reportStore, resultCache, interactiveUI)
			}

			err := wf.Check(cmd.Context(), domain.CheckArgs{
				Paths:     paths,
				Exclude:   viper.GetStringSlice(excludeConfigKey),
				RuleNames: checkRuleNames,
				Threads:   uint(threads),
				UseCache:  !viper.GetBool(noCacheFlagName),
				Reports:   m.Path(viper.GetString(outputFlagName)),
			})
			if err != nil && !errors.Is(err, domain.ErrViolationsFound) {
				// Real failures still get printed; violations were already
				// shown by the UI and only need the exit code.
				cmd.PrintErrln("Error:", err)
			}

			return err
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&checkParallelFlag, checkParallelFlagName, "p", viper.GetInt(checkParallelConfigKey), "number of parallel workers for checking files")
	bindFlagToConfig(cmd.Flags().Lookup(checkParallelFlagName), checkParallelConfigKey)
	cmd.Flags().StringArrayVarP(&checkRuleNames, checkRuleFlagName, "r", nil, "run only this rule (can be repeated; default: all rules)")
	cmd.Flags().BoolVarP(&checkInteractive, interactiveFlagName, "i", false, "browse results in an interactive pager")
}
