package rules

import (
	"fmt"
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// Files that legitimately need bare allocation: the memory infrastructure
// the rest of the codebase is told to use instead.
var allocationWhitelistSuffixes = []string{
	"fl/stl/allocator.h",
	"fl/stl/allocator.cpp.hpp",
	"fl/stl/malloc.h",
	"fl/stl/malloc.cpp.hpp",
	"fl/stl/new.h",
	"fl/stl/unique_ptr.h",
	"fl/stl/shared_ptr.h",
	"fl/stl/shared_ptr.cpp.hpp",
	"fl/stl/scoped_ptr.h",
	"fl/stl/weak_ptr.h",
	"fl/scoped_array.h",
	"fl/stl/detail/string_holder.cpp.hpp",
	"fl/memory.h",
	"fl/memory.cpp.hpp",
}

var (
	// 'new Type' but not placement new or 'operator new' (filtered separately).
	reNewAlloc = regexp.MustCompile(`\bnew\s+[A-Za-z_:]`)

	// 'delete' as a standalone keyword; identifiers like delete_request
	// never match because '_' is a word character.
	reDeleteKeyword = regexp.MustCompile(`\bdelete\b`)

	reAllocCall = regexp.MustCompile(`\b(malloc|calloc|realloc)\s*\(`)
	reFreeCall  = regexp.MustCompile(`\bfree\s*\(`)

	// Deleted special member functions: '= delete;' or '= delete' at end.
	reDeletedFunction = regexp.MustCompile(`=\s*delete\s*(?:[;{]|$)`)
)

// BareAllocation flags bare new/delete/malloc/calloc/realloc/free. The
// sanctioned alternatives are fl::make_unique, fl::make_shared, and the
// fl::malloc/fl::free wrappers.
type BareAllocation struct {
	suppress *regexp.Regexp
}

// NewBareAllocation creates the bare-allocation rule.
func NewBareAllocation() *BareAllocation {
	return &BareAllocation{suppress: suppressionPattern("bare allocation", false)}
}

func (r *BareAllocation) Name() string   { return "bare-allocation" }
func (r *BareAllocation) Marker() string { return "bare allocation" }

func (r *BareAllocation) Describe() string {
	return "bare heap allocation; use fl::make_unique/fl::make_shared or fl::malloc/fl::free"
}

func (r *BareAllocation) ShouldProcessFile(p m.Path) bool {
	normalized := p.Normalized()

	if !hasExtension(normalized, ".cpp", ".h", ".hpp", ".ino") {
		return false
	}

	if inThirdParty(normalized) {
		return false
	}

	for _, suffix := range allocationWhitelistSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			return false
		}
	}

	return true
}

// qualifiedCall reports whether the match starting at idx is preceded by a
// member or scope accessor ('.', '::'), meaning it is not the bare C
// function. String contents are already masked, so only real code counts.
func qualifiedCall(code string, idx int) bool {
	if idx == 0 {
		return false
	}

	prev := code[idx-1]

	return prev == '.' || prev == ':'
}

func (r *BareAllocation) Check(line scanner.Line, _ *scanner.ScanState) []m.Violation {
	if r.suppress.MatchString(line.Raw) {
		return nil
	}

	code := line.Code
	if strings.Contains(code, "operator new") || strings.Contains(code, "operator delete") {
		return nil
	}

	if reDeletedFunction.MatchString(strings.TrimRight(code, " \t")) {
		return nil
	}

	stripped := strings.TrimSpace(line.Raw)

	if reNewAlloc.MatchString(code) {
		return r.violation(line, fmt.Sprintf(
			"bare 'new': %s (use fl::make_unique<T>() or fl::make_shared<T>(), or add '// ok bare allocation')",
			stripped))
	}

	if reDeleteKeyword.MatchString(code) {
		return r.violation(line, fmt.Sprintf(
			"bare 'delete': %s (use fl::unique_ptr or fl::shared_ptr for automatic cleanup, or add '// ok bare allocation')",
			stripped))
	}

	for _, match := range reAllocCall.FindAllStringSubmatchIndex(code, -1) {
		if qualifiedCall(code, match[0]) {
			continue
		}

		name := code[match[2]:match[3]]

		return r.violation(line, fmt.Sprintf(
			"bare '%s': %s (use fl::make_unique<T>()/fl::make_shared<T>(), or fl::%s() if raw memory is required, or add '// ok bare allocation')",
			name, stripped, name))
	}

	for _, match := range reFreeCall.FindAllStringIndex(code, -1) {
		if qualifiedCall(code, match[0]) {
			continue
		}

		return r.violation(line, fmt.Sprintf(
			"bare 'free': %s (use fl::unique_ptr/fl::shared_ptr, or fl::free() if raw memory is required, or add '// ok bare allocation')",
			stripped))
	}

	return nil
}

func (r *BareAllocation) violation(line scanner.Line, message string) []m.Violation {
	return []m.Violation{{Line: line.Number, Rule: r.Name(), Message: message}}
}
