package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sutaburosu/fledlint/internal/adapter"
	"github.com/sutaburosu/fledlint/internal/controller"
	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/rules"
	"github.com/sutaburosu/fledlint/pkg"
)

// ErrViolationsFound is returned by Check when the run produced at least one
// violation. The CLI maps it to a non-zero exit code without printing a
// second error message.
var ErrViolationsFound = errors.New("violations found")

// CheckArgs contains the arguments for running a lint check.
type CheckArgs struct {
	Paths     []m.Path
	Exclude   []string
	RuleNames []string
	Threads   uint
	UseCache  bool
	Reports   m.Path
}

// ViewArgs contains the arguments for viewing a saved report.
type ViewArgs struct {
	Reports m.Path
}

// DiffArgs contains the arguments for diffing two saved reports.
type DiffArgs struct {
	Before m.Path
	After  m.Path
}

// Workflow defines the top level operations behind the CLI commands.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) error
	View(ctx context.Context, args ViewArgs) error
	ListRules(ctx context.Context) error
	Diff(ctx context.Context, args DiffArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	adapter.ResultCache
	controller.UI
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	resultCache adapter.ResultCache,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		ResultCache:     resultCache,
		UI:              ui,
	}
}

// Check discovers source files, runs every selected rule over them, and
// displays plus optionally persists the merged report.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	selected, err := rules.Resolve(args.RuleNames)
	if err != nil {
		return err
	}

	checker := NewChecker(selected)

	if err := w.Start(ctx, controller.WithCheckMode()); err != nil {
		slog.Error("failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	files, err := w.collectFiles(checker, args)
	if err != nil {
		slog.Error("failed to collect files", "error", err)
		return fmt.Errorf("collect files: %w", err)
	}

	threads := int(args.Threads)
	if threads < 1 {
		threads = 1
	}

	w.DisplayConcurrencyInfo(ctx, threads, len(files))

	if args.UseCache && args.Reports != "" {
		// A missing or stale cache file is just a cold cache.
		if err := w.ResultCache.Load(args.Reports); err != nil {
			slog.Debug("cache load failed", "reports", args.Reports, "error", err)
		}
	}

	report, err := w.checkFiles(ctx, checker, files, threads, args.UseCache)
	if err != nil {
		return err
	}

	if args.Reports != "" {
		if err := w.SaveReport(args.Reports, report); err != nil {
			slog.Error("failed to save report", "reports", args.Reports, "error", err)
			return fmt.Errorf("save report: %w", err)
		}

		if args.UseCache {
			if err := w.ResultCache.Save(args.Reports); err != nil {
				slog.Debug("cache save failed", "reports", args.Reports, "error", err)
			}
		}
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		slog.Error("failed to display report", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	if report.Total() > 0 {
		return ErrViolationsFound
	}

	return nil
}

func (w *workflow) checkFiles(
	ctx context.Context,
	checker *Checker,
	files []m.Path,
	threads int,
	useCache bool,
) (*m.RunReport, error) {
	startedAt := time.Now()
	signature := checker.Signature()

	spill, err := pkg.NewFileSpill[m.FileReport]()
	if err != nil {
		return nil, fmt.Errorf("create spill: %w", err)
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Error("failed to close spill", "path", spill.Path(), "error", err)
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for _, path := range files {
		currentPath := path

		group.Go(func() error {
			fileReport, err := w.checkOneFile(groupCtx, checker, currentPath, signature, useCache)
			if err != nil {
				return err
			}

			w.DisplayCheckedFileInfo(groupCtx, currentPath, len(fileReport.Violations))

			return spill.Append(fileReport)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &m.RunReport{
		StartedAt:    startedAt,
		Rules:        rules.Names(checker.Rules()),
		FilesChecked: len(files),
	}

	err = spill.Range(func(_ uint64, item m.FileReport) error {
		report.Add(item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect reports: %w", err)
	}

	report.Sort()

	return report, nil
}

func (w *workflow) checkOneFile(
	ctx context.Context,
	checker *Checker,
	path m.Path,
	signature string,
	useCache bool,
) (m.FileReport, error) {
	if err := ctx.Err(); err != nil {
		return m.FileReport{}, err
	}

	hash, err := w.HashFile(path)
	if err != nil {
		return m.FileReport{}, fmt.Errorf("hash %s: %w", path, err)
	}

	if useCache {
		if cached, ok := w.Lookup(path, hash, signature); ok {
			slog.Debug("cache hit", "path", path)
			return m.FileReport{Path: path, Violations: cached}, nil
		}
	}

	content, err := w.ReadFile(path)
	if err != nil {
		return m.FileReport{}, fmt.Errorf("read %s: %w", path, err)
	}

	fileReport := checker.CheckFile(m.NewSourceFile(path, content))
	w.Store(path, hash, signature, fileReport.Violations)

	return fileReport, nil
}

// collectFiles expands the argument paths into the sorted list of files at
// least one rule applies to. Directories are walked recursively.
func (w *workflow) collectFiles(checker *Checker, args CheckArgs) ([]m.Path, error) {
	var files []m.Path

	seen := make(map[m.Path]bool)

	keep := func(path m.Path) {
		if seen[path] {
			return
		}

		if excluded(path, args.Exclude) || !checker.Relevant(path) {
			return
		}

		seen[path] = true
		files = append(files, path)
	}

	for _, root := range args.Paths {
		info, err := w.FileInfo(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			keep(root)
			continue
		}

		err = w.Walk(root, true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() {
				keep(m.Path(path))
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

// excluded reports whether any exclude pattern occurs in the normalized
// path. Patterns are plain substrings, not globs.
func excluded(path m.Path, patterns []string) bool {
	normalized := path.Normalized()

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		if strings.Contains(normalized, pattern) {
			return true
		}
	}

	return false
}

// View loads a previously saved report and displays it.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		slog.Error("failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	report, err := w.LoadReport(args.Reports)
	if err != nil {
		slog.Error("failed to load report", "reports", args.Reports, "error", err)
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// ListRules displays every available rule with its suppression marker.
func (w *workflow) ListRules(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Close(ctx)

	infos := make([]controller.RuleInfo, 0, len(rules.All()))

	for _, rule := range rules.All() {
		infos = append(infos, controller.RuleInfo{
			Name:        rule.Name(),
			Marker:      rule.Marker(),
			Description: rule.Describe(),
		})
	}

	return w.DisplayRules(ctx, infos)
}
