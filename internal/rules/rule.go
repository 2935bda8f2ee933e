// Package rules contains the per-pattern lint rules layered on top of the
// shared line scanner. Each rule is a pure predicate from a classified line
// plus the current scan state to zero or more violations; rules never mutate
// the state.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// Rule is one lint check.
type Rule interface {
	// Name is the stable identifier used for --rule selection, report
	// entries, and the cache signature.
	Name() string

	// Marker is the suppression comment text ("bare using" suppresses via
	// "// ok bare using"). Empty when the rule has no suppression.
	Marker() string

	// Describe returns a one-line human description.
	Describe() string

	// ShouldProcessFile decides whether a path is in this rule's scope,
	// based on extension and allow/deny-lists.
	ShouldProcessFile(path m.Path) bool

	// Check inspects one classified line. The returned violations carry
	// the line number and a human-readable message.
	Check(line scanner.Line, state *scanner.ScanState) []m.Violation
}

// All returns every rule in the fixed reporting order.
func All() []Rule {
	return []Rule{
		NewBareUsing(),
		NewBareAllocation(),
		NewStdNamespace(),
		NewCtypeGlobal(),
		NewArduinoMacro(),
		NewSpanFromPointer(),
	}
}

// Names returns the names of the given rules, sorted.
func Names(rules []Rule) []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name())
	}

	sort.Strings(names)

	return names
}

// Resolve maps user-supplied rule names onto rules. Unknown names fail with
// fuzzy-matched candidates so a typo like "aloc" suggests "bare-allocation".
// An empty selection resolves to every rule.
func Resolve(selected []string) ([]Rule, error) {
	all := All()
	if len(selected) == 0 {
		return all, nil
	}

	byName := make(map[string]Rule, len(all))
	names := make([]string, 0, len(all))

	for _, rule := range all {
		byName[rule.Name()] = rule
		names = append(names, rule.Name())
	}

	resolved := make([]Rule, 0, len(selected))

	for _, name := range selected {
		rule, ok := byName[name]
		if !ok {
			if candidates := fuzzyCandidates(name, names); len(candidates) > 0 {
				return nil, fmt.Errorf("unknown rule %q (did you mean %s?)", name, strings.Join(candidates, ", "))
			}

			return nil, fmt.Errorf("unknown rule %q (available: %s)", name, strings.Join(names, ", "))
		}

		resolved = append(resolved, rule)
	}

	return resolved, nil
}

func fuzzyCandidates(name string, names []string) []string {
	matches := fuzzy.Find(name, names)

	candidates := make([]string, 0, len(matches))
	for _, match := range matches {
		candidates = append(candidates, match.Str)
	}

	return candidates
}
