package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/sutaburosu/fledlint/internal/controller"
	m "github.com/sutaburosu/fledlint/internal/model"
)

const diffContextLines = 3

// Diff loads two saved reports and displays a unified diff of their
// violations. Timestamps and file counts are left out so two runs over an
// unchanged tree diff clean.
func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	before, err := w.LoadReportFile(args.Before)
	if err != nil {
		slog.Error("failed to load report", "path", args.Before, "error", err)
		return fmt.Errorf("load %s: %w", args.Before, err)
	}

	after, err := w.LoadReportFile(args.After)
	if err != nil {
		slog.Error("failed to load report", "path", args.After, "error", err)
		return fmt.Errorf("load %s: %w", args.After, err)
	}

	diff, err := renderReportDiff(before, after, string(args.Before), string(args.After))
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}

	if err := w.DisplayDiff(ctx, diff); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// renderReportDiff produces a unified diff between the flattened violation
// listings of two reports. It returns the empty string when the listings
// are identical.
func renderReportDiff(before, after *m.RunReport, fromFile, toFile string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(flattenReport(before)),
		B:        difflib.SplitLines(flattenReport(after)),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  diffContextLines,
	})
}

// flattenReport renders a report as one line per violation, in report
// order. The format matches what SimpleUI prints for a check run.
func flattenReport(report *m.RunReport) string {
	var b strings.Builder

	for _, file := range report.Files {
		for _, violation := range file.Violations {
			fmt.Fprintf(&b, "%s:%d: [%s] %s\n", file.Path, violation.Line, violation.Rule, violation.Message)
		}
	}

	return b.String()
}
