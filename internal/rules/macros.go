package rules

import (
	"fmt"
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// Arduino platform headers define these macros in the global namespace.
// They collide with Windows headers and other libraries, so library code
// must not reference them directly.
var bannedArduinoMacros = []string{"INPUT", "OUTPUT", "DEFAULT"}

var (
	reBannedMacro = regexp.MustCompile(`\b(` + strings.Join(bannedArduinoMacros, "|") + `)\b`)

	// Scoped enum references like RxDeviceType::DEFAULT are values, not
	// macro uses.
	reScopedEnumRef = regexp.MustCompile(`::\s*(?:` + strings.Join(bannedArduinoMacros, "|") + `)\b`)

	// Enum member definitions like "DEFAULT = 0," or "OUTPUT,".
	reEnumMemberDef = regexp.MustCompile(`^\s*(?:` + strings.Join(bannedArduinoMacros, "|") + `)\s*(?:=\s*\w+)?\s*[,}]`)
)

// ArduinoMacro flags direct use of the INPUT/OUTPUT/DEFAULT macros outside
// the platform definition headers. This rule has no suppression marker.
type ArduinoMacro struct{}

// NewArduinoMacro creates the arduino-macro rule.
func NewArduinoMacro() *ArduinoMacro { return &ArduinoMacro{} }

func (r *ArduinoMacro) Name() string   { return "arduino-macro" }
func (r *ArduinoMacro) Marker() string { return "" }

func (r *ArduinoMacro) Describe() string {
	return "banned Arduino macro (INPUT, OUTPUT, DEFAULT) pollutes the global namespace"
}

// ShouldProcessFile limits the rule to library sources; the platform headers
// are the ones defining these macros and are exempt.
func (r *ArduinoMacro) ShouldProcessFile(p m.Path) bool {
	normalized := p.Normalized()

	if !hasExtension(normalized, ".cpp", ".h", ".hpp", ".ino") {
		return false
	}

	if !strings.Contains(normalized, "/src/") && !strings.HasPrefix(normalized, "src/") {
		return false
	}

	if strings.Contains(normalized, "/platforms/") || strings.HasPrefix(normalized, "src/platforms/") {
		return false
	}

	return !inThirdParty(normalized)
}

func (r *ArduinoMacro) Check(line scanner.Line, _ *scanner.ScanState) []m.Violation {
	if line.IsPreprocessor {
		return nil
	}

	code := line.Code

	match := reBannedMacro.FindStringSubmatch(code)
	if match == nil {
		return nil
	}

	if reScopedEnumRef.MatchString(code) {
		return nil
	}

	if reEnumMemberDef.MatchString(code) {
		return nil
	}

	return []m.Violation{{
		Line: line.Number,
		Rule: r.Name(),
		Message: fmt.Sprintf(
			"banned Arduino macro '%s' used: %s (these macros conflict with Windows headers; use platform APIs or local constants)",
			match[1], strings.TrimSpace(line.Raw)),
	}}
}
