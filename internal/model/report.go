package model

import (
	"sort"
	"time"
)

// Violation is a single style finding on one line of one file.
type Violation struct {
	Line    int    `yaml:"line"`
	Rule    string `yaml:"rule"`
	Message string `yaml:"message"`
}

// FileReport holds the ordered violations for a single source file.
// Violations appear in line order, then in rule order within a line.
type FileReport struct {
	Path       Path        `yaml:"path"`
	Violations []Violation `yaml:"violations"`
}

// RunReport is the merged result of one checker run. Files with zero
// violations are absent from Files.
type RunReport struct {
	StartedAt    time.Time    `yaml:"started_at"`
	Rules        []string     `yaml:"rules"`
	FilesChecked int          `yaml:"files_checked"`
	Files        []FileReport `yaml:"files,omitempty"`
}

// Add merges a per-file report into the run report, dropping empty ones.
func (r *RunReport) Add(file FileReport) {
	if len(file.Violations) == 0 {
		return
	}

	r.Files = append(r.Files, file)
}

// Sort orders files by path so reports are deterministic regardless of the
// order workers finished in.
func (r *RunReport) Sort() {
	sort.Slice(r.Files, func(i, j int) bool {
		return r.Files[i].Path < r.Files[j].Path
	})
}

// Total returns the number of violations across all files.
func (r *RunReport) Total() int {
	total := 0
	for _, file := range r.Files {
		total += len(file.Violations)
	}

	return total
}

// CountByRule returns the violation count per rule name.
func (r *RunReport) CountByRule() map[string]int {
	counts := make(map[string]int)

	for _, file := range r.Files {
		for _, violation := range file.Violations {
			counts[violation.Rule]++
		}
	}

	return counts
}
