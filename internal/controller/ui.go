// Package controller provides output adapters for displaying lint results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	m "github.com/sutaburosu/fledlint/internal/model"
)

// RuleInfo describes a single lint rule for display purposes.
type RuleInfo struct {
	Name        string
	Marker      string
	Description string
}

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeCheck StartMode = iota
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithCheckMode sets the UI to check execution mode.
func WithCheckMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCheck
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// UI defines the interface for displaying lint reports.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayReport(ctx context.Context, report *m.RunReport) error
	DisplayRules(ctx context.Context, rules []RuleInfo) error
	DisplayDiff(ctx context.Context, diff string) error
	DisplayConcurrencyInfo(ctx context.Context, threads int, files int)
	DisplayCheckedFileInfo(ctx context.Context, path m.Path, violations int)
}

// NewUI picks the pager TUI when interactive display is wanted and stdout is
// a terminal, and the plain printer otherwise.
func NewUI(cmd *cobra.Command, interactive bool, verbose bool) UI {
	if interactive && IsTTY(os.Stdout) {
		return NewTUI(os.Stdout)
	}

	return NewSimpleUI(cmd, verbose)
}

// IsTTY reports whether the given file is attached to a terminal.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
