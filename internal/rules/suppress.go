package rules

import (
	"regexp"
	"strings"
)

// suppressionPattern compiles the line-local suppression marker for a rule:
// a comment containing "ok <marker>" or "okay <marker>". Suppression is
// matched against the raw line because the marker lives inside a comment,
// and it cancels only that line's violations.
func suppressionPattern(marker string, caseInsensitive bool) *regexp.Regexp {
	words := strings.Fields(marker)
	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}

	expr := `//\s*ok(?:ay)?\s+` + strings.Join(words, `\s+`)
	if caseInsensitive {
		expr = `(?i)` + expr
	}

	return regexp.MustCompile(expr)
}

// hasExtension reports whether the normalized path ends with one of the
// given suffixes.
func hasExtension(normalized string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(normalized, suffix) {
			return true
		}
	}

	return false
}

// inThirdParty reports whether the path passes through a vendored directory.
// Third-party code is never linted.
func inThirdParty(normalized string) bool {
	return strings.Contains(normalized, "third_party") || strings.Contains(normalized, "thirdparty")
}
