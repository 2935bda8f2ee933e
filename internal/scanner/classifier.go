// Package scanner implements the line-oriented C++ lexical scanner shared by
// the lint rules. It classifies each line as comment, preprocessor directive,
// or code, masks string-literal and comment content, and tracks brace depth
// and namespace nesting across a file.
//
// It is a heuristic classifier, not a parser: there is no tokenizer, no AST,
// and no preprocessor expansion. Malformed input never produces an error,
// only a best-effort classification.
package scanner

import (
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
)

// Line is the classification of a single source line.
type Line struct {
	// Number is the 1-based line number within the file.
	Number int

	// Raw is the unmodified line text. Suppression markers are matched
	// against Raw because they live inside comments.
	Raw string

	// Code is the line with comment and string/char-literal content
	// replaced by spaces. Delimiters are kept so columns line up with Raw.
	Code string

	// Skip is true when Code is blank: the line is entirely comment,
	// whitespace, or empty, and no rule can match it.
	Skip bool

	// IsPreprocessor is true when the code portion starts a preprocessor
	// directive. Such lines still participate in brace counting.
	IsPreprocessor bool
}

// Classifier drives one or more file scans. It is stateless between files;
// all per-file state lives in ScanState.
type Classifier struct {
	trackedNamespace string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTrackedNamespace makes every ScanState produced by BeginScan track
// nesting of the given named namespace, exposed via
// ScanState.InTrackedNamespace. Rules use this to treat bare identifiers
// inside the project namespace as equivalent to qualified calls.
func WithTrackedNamespace(name string) Option {
	return func(c *Classifier) {
		c.trackedNamespace = name
	}
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BeginScan returns a zeroed state for scanning one file: not inside a block
// comment, zero brace depth, empty scope stack.
func (c *Classifier) BeginScan() *ScanState {
	state := &ScanState{}
	if c.trackedNamespace != "" {
		state.tracked = &namespaceTracker{name: c.trackedNamespace}
	}

	return state
}

var rePreprocessor = regexp.MustCompile(
	`^\s*#\s*(?:define|undef|ifdef|ifndef|if|elif|else|endif|pragma|error|warning|include)\b`,
)

// ClassifyLine processes one raw line, updating state and returning the
// line's classification. Lines must be fed in file order.
func (c *Classifier) ClassifyLine(state *ScanState, number int, raw string) Line {
	code := maskLine(state, raw)
	isPreprocessor := rePreprocessor.MatchString(code)

	updateScopes(state, code)

	return Line{
		Number:         number,
		Raw:            raw,
		Code:           code,
		Skip:           strings.TrimSpace(code) == "",
		IsPreprocessor: isPreprocessor,
	}
}

// ScanFile classifies every line of a file. Callers that need per-line state
// (scope predicates at the moment of a match) should use ClassifyLine
// directly instead.
func (c *Classifier) ScanFile(file m.SourceFile) []Line {
	state := c.BeginScan()
	lines := make([]Line, 0, len(file.Lines))

	for i, raw := range file.Lines {
		lines = append(lines, c.ClassifyLine(state, i+1, raw))
	}

	return lines
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// maskLine blanks out comment interiors, line-comment tails, and the content
// of string and character literals, leaving everything else (including the
// quote delimiters) in place. It consumes and updates the block-comment flag.
//
// Scanning resumes after a `*/` that closes a block comment mid-line, so code
// following the closer is still visible to the rules.
func maskLine(state *ScanState, raw string) string {
	buf := []byte(raw)
	n := len(buf)
	i := 0

	for i < n {
		if state.inBlockComment {
			if buf[i] == '*' && i+1 < n && buf[i+1] == '/' {
				state.inBlockComment = false
				buf[i], buf[i+1] = ' ', ' '
				i += 2

				continue
			}

			buf[i] = ' '
			i++

			continue
		}

		switch buf[i] {
		case '/':
			if i+1 < n && buf[i+1] == '/' {
				// Line comment: blank the rest of the line.
				for j := i; j < n; j++ {
					buf[j] = ' '
				}

				i = n
			} else if i+1 < n && buf[i+1] == '*' {
				state.inBlockComment = true
				buf[i], buf[i+1] = ' ', ' '
				i += 2
			} else {
				i++
			}
		case '"':
			i = maskQuoted(buf, i+1, '"')
		case '\'':
			// A quote directly after an identifier character is a C++14
			// digit separator (1'000'000), not a character literal.
			if i > 0 && isIdentByte(buf[i-1]) {
				i++
				continue
			}

			i = maskQuoted(buf, i+1, '\'')
		default:
			i++
		}
	}

	return string(buf)
}

// maskQuoted blanks literal content from i up to the closing quote, honoring
// backslash escapes. An unterminated literal is blanked to end of line; the
// state does not carry into the next line (strings are assumed single-line,
// matching the per-line heuristic of the original checkers).
func maskQuoted(buf []byte, i int, quote byte) int {
	n := len(buf)

	for i < n {
		if buf[i] == '\\' && i+1 < n {
			buf[i], buf[i+1] = ' ', ' '
			i += 2

			continue
		}

		if buf[i] == quote {
			return i + 1
		}

		buf[i] = ' '
		i++
	}

	return i
}
