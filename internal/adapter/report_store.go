package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/sutaburosu/fledlint/internal/model"
)

// reportFileName is the file written inside the reports directory.
const reportFileName = "report.yaml"

// ReportStore persists run reports so later invocations can view or diff
// them without re-scanning.
type ReportStore interface {
	SaveReport(dir m.Path, report *m.RunReport) error
	LoadReport(dir m.Path) (*m.RunReport, error)
	// LoadReportFile loads a report from an explicit file path rather than
	// a reports directory. Used by the diff command.
	LoadReportFile(path m.Path) (*m.RunReport, error)
}

type yamlReportStore struct{}

// NewReportStore creates a YAML-backed ReportStore.
func NewReportStore() ReportStore {
	return &yamlReportStore{}
}

func (s *yamlReportStore) SaveReport(dir m.Path, report *m.RunReport) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func (s *yamlReportStore) LoadReport(dir m.Path) (*m.RunReport, error) {
	return s.LoadReportFile(m.Path(filepath.Join(string(dir), reportFileName)))
}

func (s *yamlReportStore) LoadReportFile(path m.Path) (*m.RunReport, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report m.RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}

	return &report, nil
}
