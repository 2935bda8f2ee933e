package rules

import (
	"path"
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// In unity builds all .cpp.hpp files are concatenated into a single
// translation unit. A bare 'using X::Y;' or 'using namespace X;' at file or
// named-namespace scope leaks names into every other translation unit.
//
// Type aliases ('using A = B;') and any 'using' inside a class body,
// function body, or anonymous namespace are fine.

// Matches 'using namespace X;' or 'using X::Y;' (at least one '::').
// 'using A = B;' cannot match because the qualified name must run straight
// into the terminating semicolon.
var reBareUsingDecl = regexp.MustCompile(
	`^\s*using\s+(?:namespace\s+\w+(?:\s*::\s*\w+)*|\w+(?:\s*::\s*\w+)+)\s*;`,
)

// Files exempt for backward compatibility.
var bareUsingExcludedBasenames = map[string]struct{}{
	"FastLED.h": {},
}

// BareUsing flags bare using-declarations and using-directives at
// file/namespace scope in headers under src/fl/.
type BareUsing struct {
	suppress *regexp.Regexp
}

// NewBareUsing creates the bare-using rule.
func NewBareUsing() *BareUsing {
	return &BareUsing{suppress: suppressionPattern("bare using", true)}
}

func (r *BareUsing) Name() string   { return "bare-using" }
func (r *BareUsing) Marker() string { return "bare using" }

func (r *BareUsing) Describe() string {
	return "bare 'using' at file/namespace scope in headers leaks names across the unity build"
}

// ShouldProcessFile limits the rule to header-like files under src/fl/.
func (r *BareUsing) ShouldProcessFile(p m.Path) bool {
	normalized := p.Normalized()

	if !strings.Contains(normalized, "/src/fl/") && !strings.HasPrefix(normalized, "src/fl/") {
		return false
	}

	if inThirdParty(normalized) {
		return false
	}

	if _, excluded := bareUsingExcludedBasenames[path.Base(normalized)]; excluded {
		return false
	}

	return hasExtension(normalized, ".h", ".hpp")
}

// Check flags a bare using declaration when the scan position is at file or
// named-namespace scope after the line's own braces were processed.
func (r *BareUsing) Check(line scanner.Line, state *scanner.ScanState) []m.Violation {
	if line.IsPreprocessor {
		return nil
	}

	if !reBareUsingDecl.MatchString(line.Code) {
		return nil
	}

	if !state.AtNamespaceScope() {
		return nil
	}

	if r.suppress.MatchString(line.Raw) {
		return nil
	}

	return []m.Violation{{
		Line: line.Number,
		Rule: r.Name(),
		Message: "bare 'using' at file/namespace scope leaks into other translation units: " +
			strings.TrimSpace(line.Raw) +
			" (move it into a function/class scope, or add '// ok bare using')",
	}}
}
