package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/sutaburosu/fledlint/internal/model"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd     *cobra.Command
	verbose bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, verbose bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, verbose: verbose}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayReport prints every violation in path:line form, followed by a
// per-rule summary table.
func (s *SimpleUI) DisplayReport(ctx context.Context, report *m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if report.Total() == 0 {
		s.printf("No violations found in %d file(s)\n", report.FilesChecked)
		return nil
	}

	for _, file := range report.Files {
		for _, violation := range file.Violations {
			s.printf("%s:%d: [%s] %s\n", file.Path, violation.Line, violation.Rule, violation.Message)
		}
	}

	s.printf("\n%s", renderSummaryTable(report))

	return nil
}

func renderSummaryTable(report *m.RunReport) string {
	counts := report.CountByRule()

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}

	sort.Strings(names)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Violations"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, name := range names {
		table.Append([]string{name, fmt.Sprintf("%d", counts[name])})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Files %d/%d", len(report.Files), report.FilesChecked),
		fmt.Sprintf("%d", report.Total()),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayRules prints the available rules as a table.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []RuleInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Suppression", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, rule := range rules {
		marker := rule.Marker
		if marker == "" {
			marker = "(none)"
		}

		table.Append([]string{rule.Name, marker, rule.Description})
	}

	table.Render()

	s.printf("%s", tableBuffer.String())

	return nil
}

// DisplayDiff prints a unified diff between two reports.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.printf("Reports are identical\n")
		return nil
	}

	s.printf("%s", diff)

	return nil
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, files int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Checking %d file(s) with %d worker(s)\n", files, threads)
}

// DisplayCheckedFileInfo shows per-file progress when verbose output is on.
func (s *SimpleUI) DisplayCheckedFileInfo(ctx context.Context, path m.Path, violations int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if !s.verbose {
		return
	}

	s.printf("Checked %s -> %d violation(s)\n", path, violations)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
