package scanner

import (
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
)

// ScanState is the mutable structural state carried across one file scan.
// It is created by Classifier.BeginScan, threaded through ClassifyLine, and
// discarded after the file's last line. Rules read it but never mutate it.
type ScanState struct {
	inBlockComment bool
	braceDepth     int
	scopes         []m.ScopeKind
	tracked        *namespaceTracker
}

// InBlockComment reports whether the scan position is inside an unterminated
// block comment.
func (s *ScanState) InBlockComment() bool { return s.inBlockComment }

// BraceDepth returns the net count of braces opened so far.
func (s *ScanState) BraceDepth() int { return s.braceDepth }

// ScopeDepth returns the number of entries on the scope stack.
func (s *ScanState) ScopeDepth() int { return len(s.scopes) }

// AtNamespaceScope reports whether the current position is at file scope or
// nested only in named namespaces and extern "C" regions. A single local
// scope (class body, function body, anonymous namespace) anywhere on the
// stack makes everything inside it local, regardless of further namespace
// nesting beneath it.
func (s *ScanState) AtNamespaceScope() bool {
	for _, kind := range s.scopes {
		if kind != m.ScopeNamespace {
			return false
		}
	}

	return true
}

// InTrackedNamespace reports whether the scan position is inside the
// namespace configured via WithTrackedNamespace, at any nesting depth.
// Always false when no namespace is tracked.
func (s *ScanState) InTrackedNamespace() bool {
	return s.tracked != nil && s.tracked.depth > 0
}

var (
	reNamedNamespaceOpener = regexp.MustCompile(`^(?:inline\s+)?namespace\s+(\w+(?:\s*::\s*\w+)*)$`)
	reAnonNamespaceOpener  = regexp.MustCompile(`^(?:inline\s+)?namespace$`)
	reExternCOpener        = regexp.MustCompile(`^extern\s*"[^"]*"$`)
	reClassLikeOpener      = regexp.MustCompile(`^(?:template\s*<.*>\s*)?(?:class|struct|enum|union)\b`)
)

// classifyOpener decides which ScopeKind a specific `{` introduces, given the
// trimmed code text between the previous `{`, `}`, or `;` and the brace.
// Named namespaces and extern "C" stay namespace scope; everything else,
// including anonymous namespaces and class-like bodies, is local.
func classifyOpener(opener string) (m.ScopeKind, string) {
	if match := reNamedNamespaceOpener.FindStringSubmatch(opener); match != nil {
		return m.ScopeNamespace, match[1]
	}

	if reAnonNamespaceOpener.MatchString(opener) {
		return m.ScopeLocal, ""
	}

	if reExternCOpener.MatchString(opener) {
		return m.ScopeNamespace, ""
	}

	if reClassLikeOpener.MatchString(opener) {
		return m.ScopeLocal, ""
	}

	return m.ScopeLocal, ""
}

// updateScopes walks the masked code portion left to right, pushing one scope
// per `{` and popping one per `}`. Popping an empty stack is a no-op so
// unbalanced input cannot crash a scan.
func updateScopes(state *ScanState, code string) {
	segStart := 0

	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '{':
			kind, name := classifyOpener(strings.TrimSpace(code[segStart:i]))
			state.scopes = append(state.scopes, kind)
			state.braceDepth++

			if state.tracked != nil {
				state.tracked.open(kind, name, state.braceDepth)
			}

			segStart = i + 1
		case '}':
			if len(state.scopes) > 0 {
				state.scopes = state.scopes[:len(state.scopes)-1]
			}

			if state.braceDepth > 0 {
				state.braceDepth--
			}

			if state.tracked != nil {
				state.tracked.close(state.braceDepth)
			}

			segStart = i + 1
		case ';':
			segStart = i + 1
		}
	}
}

// namespaceTracker counts nested openings of one specific named namespace.
// A stack of brace-depth snapshots taken at each open tells it when that
// namespace closes, even through intervening nested scopes.
type namespaceTracker struct {
	name   string
	depth  int
	depths []int
}

// open records a brace opening. depthAfter is the brace depth including the
// brace just opened, so the namespace closes when depth returns below it.
func (t *namespaceTracker) open(kind m.ScopeKind, name string, depthAfter int) {
	if kind != m.ScopeNamespace || name != t.name {
		return
	}

	t.depth++
	t.depths = append(t.depths, depthAfter-1)
}

// close records a brace closing at the given resulting depth.
func (t *namespaceTracker) close(depthAfter int) {
	if len(t.depths) == 0 {
		return
	}

	if depthAfter == t.depths[len(t.depths)-1] {
		t.depths = t.depths[:len(t.depths)-1]
		t.depth--
	}
}
