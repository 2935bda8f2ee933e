package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/sutaburosu/fledlint/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	fileStyle    = lipgloss.NewStyle().Bold(true)
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	lineNoStyle  = lipgloss.NewStyle().Faint(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output *os.File
}

// NewTUI creates a new TUI.
func NewTUI(output *os.File) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (t *TUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op, DisplayReport blocks instead).
func (t *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayReport shows the report in a scrollable pager. When the output is
// not a terminal it falls back to plain text.
func (t *TUI) DisplayReport(ctx context.Context, report *m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title := fmt.Sprintf("fledlint: %d violation(s) in %d of %d file(s)",
		report.Total(), len(report.Files), report.FilesChecked)
	content := renderReportLines(report)

	if report.Total() == 0 || !IsTTY(t.output) {
		_, err := fmt.Fprintf(t.output, "%s\n%s", title, content)
		return err
	}

	model := newPagerModel(title, content)

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func renderReportLines(report *m.RunReport) string {
	var b strings.Builder

	for _, file := range report.Files {
		b.WriteString(fileStyle.Render(string(file.Path)))
		b.WriteString("\n")

		for _, violation := range file.Violations {
			fmt.Fprintf(&b, "  %s %s %s\n",
				lineNoStyle.Render(fmt.Sprintf("%5d", violation.Line)),
				ruleStyle.Render(violation.Rule),
				violation.Message)
		}
	}

	return b.String()
}

// DisplayRules shows the rules in the same pager.
func (t *TUI) DisplayRules(ctx context.Context, rules []RuleInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	for _, rule := range rules {
		b.WriteString(ruleStyle.Render(rule.Name))

		if rule.Marker != "" {
			fmt.Fprintf(&b, " %s", lineNoStyle.Render("(suppress: "+rule.Marker+")"))
		}

		fmt.Fprintf(&b, "\n  %s\n", rule.Description)
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayDiff shows the report diff with added and removed lines colorized.
func (t *TUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		_, err := fmt.Fprintln(t.output, "Reports are identical")
		return err
	}

	var b strings.Builder

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			b.WriteString(addedStyle.Render(strings.TrimSuffix(line, "\n")))
			b.WriteString("\n")
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			b.WriteString(removedStyle.Render(strings.TrimSuffix(line, "\n")))
			b.WriteString("\n")
		default:
			b.WriteString(line)
		}
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayConcurrencyInfo shows concurrency settings.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, threads int, files int) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(t.output, "Checking %d file(s) with %d worker(s)\n", files, threads)
}

// DisplayCheckedFileInfo is silent in TUI mode, the pager shows everything.
func (t *TUI) DisplayCheckedFileInfo(ctx context.Context, _ m.Path, _ int) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// pagerModel is the Bubble Tea model wrapping a viewport over the report.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{
		title:   title,
		content: content,
	}
}

func (p pagerModel) Init() tea.Cmd {
	return nil
}

func (p pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(p.headerView())
		footerHeight := lipgloss.Height(p.footerView())
		verticalMargin := headerHeight + footerHeight

		if !p.ready {
			p.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			p.viewport.SetContent(p.content)
			p.ready = true
		} else {
			p.viewport.Width = msg.Width
			p.viewport.Height = msg.Height - verticalMargin
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)

	return p, cmd
}

func (p pagerModel) View() string {
	if !p.ready {
		return "\n  loading..."
	}

	return fmt.Sprintf("%s\n%s\n%s", p.headerView(), p.viewport.View(), p.footerView())
}

func (p pagerModel) headerView() string {
	return titleStyle.Render(p.title)
}

func (p pagerModel) footerView() string {
	return infoStyle.Render(fmt.Sprintf("%3.f%% | q: quit", p.viewport.ScrollPercent()*100))
}
