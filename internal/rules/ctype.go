package rules

import (
	"fmt"
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// C standard library character functions with fl:: equivalents. The global
// versions are locale-dependent and pull in libc tables on some embedded
// targets.
var ctypeFunctions = []string{
	"isspace",
	"isdigit",
	"isalpha",
	"isalnum",
	"isupper",
	"islower",
	"tolower",
	"toupper",
}

var reCtypeCall = regexp.MustCompile(`\b(` + strings.Join(ctypeFunctions, "|") + `)\s*\(`)

// CtypeGlobal flags bare or ::-qualified ctype calls. Calls qualified with
// fl:: are fine, and so are bare calls made inside the fl namespace itself,
// where the unqualified name already resolves to the fl:: overload.
type CtypeGlobal struct {
	suppress *regexp.Regexp
}

// NewCtypeGlobal creates the ctype-global rule.
func NewCtypeGlobal() *CtypeGlobal {
	return &CtypeGlobal{suppress: suppressionPattern("ctype", false)}
}

func (r *CtypeGlobal) Name() string   { return "ctype-global" }
func (r *CtypeGlobal) Marker() string { return "ctype" }

func (r *CtypeGlobal) Describe() string {
	return "global C ctype function; use the fl:: variant"
}

func (r *CtypeGlobal) ShouldProcessFile(p m.Path) bool {
	normalized := p.Normalized()

	if !hasExtension(normalized, ".cpp", ".h", ".hpp", ".ino") {
		return false
	}

	if inThirdParty(normalized) {
		return false
	}

	// The definition file for the fl:: variants calls through to the
	// global ones.
	return !strings.HasSuffix(normalized, "fl/stl/cctype.h")
}

func (r *CtypeGlobal) Check(line scanner.Line, state *scanner.ScanState) []m.Violation {
	if line.IsPreprocessor {
		return nil
	}

	matches := reCtypeCall.FindAllStringSubmatchIndex(line.Code, -1)
	if len(matches) == 0 {
		return nil
	}

	if r.suppress.MatchString(line.Raw) {
		return nil
	}

	var violations []m.Violation

	for _, match := range matches {
		start := match[0]
		name := line.Code[match[2]:match[3]]

		if qualifier, qualified := scopeQualifier(line.Code, start); qualified {
			// fl::isspace is the sanctioned call; any other qualifier
			// (::, std::, o.isspace member calls excepted below) is not.
			if qualifier == "fl" {
				continue
			}
		} else if state.InTrackedNamespace() {
			// A bare call inside namespace fl already resolves to the
			// fl:: overload.
			continue
		}

		if start > 0 && line.Code[start-1] == '.' {
			// Member call on some object, not the global function.
			continue
		}

		violations = append(violations, m.Violation{
			Line: line.Number,
			Rule: r.Name(),
			Message: fmt.Sprintf("use fl::%s() instead of %s() or ::%s(): %s",
				name, name, name, strings.TrimSpace(line.Raw)),
		})
	}

	return violations
}

// scopeQualifier extracts the identifier before a '::' immediately preceding
// position idx. It returns ("", true) for an explicit global-scope '::' with
// no identifier, and ("", false) when the call is unqualified.
func scopeQualifier(code string, idx int) (string, bool) {
	if idx < 2 || code[idx-1] != ':' || code[idx-2] != ':' {
		return "", false
	}

	end := idx - 2
	start := end

	for start > 0 && isWordByte(code[start-1]) {
		start--
	}

	return code[start:end], true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
