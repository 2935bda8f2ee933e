package rules

import (
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// fl::span has container constructors, so span<T>(c.data(), c.size()) is
// just a longer spelling of span<T>(c).
var reSpanDataSize = regexp.MustCompile(
	`span<[^>]+>\s*\(` +
		`[^)]*\.data\(\)` +
		`[^)]*\.size\(\)` +
		`[^)]*\)`,
)

// SpanFromPointer flags span construction from an explicit data/size pair
// when the container overload suffices.
type SpanFromPointer struct {
	suppress *regexp.Regexp
}

// NewSpanFromPointer creates the span-from-pointer rule.
func NewSpanFromPointer() *SpanFromPointer {
	return &SpanFromPointer{suppress: suppressionPattern("span from pointer", false)}
}

func (r *SpanFromPointer) Name() string   { return "span-from-pointer" }
func (r *SpanFromPointer) Marker() string { return "span from pointer" }

func (r *SpanFromPointer) Describe() string {
	return "span<T>(c.data(), c.size()) where span<T>(c) suffices"
}

func (r *SpanFromPointer) ShouldProcessFile(p m.Path) bool {
	normalized := p.Normalized()

	if !hasExtension(normalized, ".cpp", ".h", ".hpp", ".ino") {
		return false
	}

	return !inThirdParty(normalized)
}

func (r *SpanFromPointer) Check(line scanner.Line, _ *scanner.ScanState) []m.Violation {
	code := line.Code

	// Cheap substring guards before the regex.
	if !strings.Contains(code, "span<") {
		return nil
	}

	if !strings.Contains(code, ".data()") || !strings.Contains(code, ".size()") {
		return nil
	}

	if r.suppress.MatchString(line.Raw) {
		return nil
	}

	if !reSpanDataSize.MatchString(code) {
		return nil
	}

	return []m.Violation{{
		Line: line.Number,
		Rule: r.Name(),
		Message: "use span<T>(container) instead of span<T>(container.data(), container.size()): " +
			strings.TrimSpace(line.Raw) +
			" (or add '// ok span from pointer')",
	}}
}
