// Package domain implements the lint checking workflow: file discovery,
// per-file scanning, rule evaluation, and report assembly.
package domain

import (
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/rules"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// projectNamespace is the namespace whose members may call ctype-style
// helpers without qualification.
const projectNamespace = "fl"

// Checker runs a fixed set of rules over single files. It is safe for
// concurrent use: the classifier is stateless between files and rules keep
// no per-file state.
type Checker struct {
	classifier *scanner.Classifier
	rules      []rules.Rule
}

// NewChecker creates a Checker for the given rules.
func NewChecker(ruleSet []rules.Rule) *Checker {
	return &Checker{
		classifier: scanner.New(scanner.WithTrackedNamespace(projectNamespace)),
		rules:      ruleSet,
	}
}

// Rules returns the rules this checker runs, in evaluation order.
func (c *Checker) Rules() []rules.Rule {
	return c.rules
}

// Signature identifies the active rule set. Cached results from a run with a
// different signature are not reused.
func (c *Checker) Signature() string {
	return strings.Join(rules.Names(c.rules), ",")
}

// Relevant reports whether at least one rule applies to the given path.
// Files for which it returns false are not read at all.
func (c *Checker) Relevant(path m.Path) bool {
	for _, rule := range c.rules {
		if rule.ShouldProcessFile(path) {
			return true
		}
	}

	return false
}

// CheckFile scans one file and evaluates every applicable rule on every
// line. Violations come out in line order, then in rule order within a line.
func (c *Checker) CheckFile(file m.SourceFile) m.FileReport {
	applicable := make([]rules.Rule, 0, len(c.rules))

	for _, rule := range c.rules {
		if rule.ShouldProcessFile(file.Path) {
			applicable = append(applicable, rule)
		}
	}

	report := m.FileReport{Path: file.Path}
	if len(applicable) == 0 {
		return report
	}

	state := c.classifier.BeginScan()

	for i, raw := range file.Lines {
		line := c.classifier.ClassifyLine(state, i+1, raw)
		if line.Skip {
			continue
		}

		for _, rule := range applicable {
			report.Violations = append(report.Violations, rule.Check(line, state)...)
		}
	}

	return report
}
