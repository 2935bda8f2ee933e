// Package cmd provides the root command and CLI setup for fledlint.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sutaburosu/fledlint/internal/adapter"
	"github.com/sutaburosu/fledlint/internal/controller"
	"github.com/sutaburosu/fledlint/internal/domain"
	m "github.com/sutaburosu/fledlint/internal/model"
)

var sourceFSAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var resultCache adapter.ResultCache
var ui controller.UI
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// noCacheFlag disables incremental caching when set.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag enables per-file progress output and debug logging.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	resultCache = adapter.NewResultCache()

	// The UI and workflow depend on post-parse flag values, so they are
	// rebuilt once flags are in.
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		configureLogger(viper.GetString(logFilenameKey), verboseFlag)

		ui = controller.NewUI(rootCmd, false, verboseFlag)
		workflow = domain.NewWorkflow(sourceFSAdapter, reportStore, resultCache, ui)
	}
}

const pathArgsHelp = `Paths may be files or directories; directories are scanned recursively.
With no paths the current directory is scanned.`

const rootLongDescription = `fledlint checks C++ sources against the FastLED style rules: bare using
declarations, bare heap allocation, direct std:: usage, global ctype calls,
Arduino pin-mode macros, and fl::span construction from pointer pairs.

` + pathArgsHelp

const checkLongDescription = `Check C++ sources for style violations (default: current directory).

` + pathArgsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fledlint",
		Short: "C++ style checker for FastLED-style codebases",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for lint reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable cached incremental runs (re-check everything)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files whose path contains this substring (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "print per-file progress and debug logs")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
