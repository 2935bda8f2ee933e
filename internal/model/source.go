// Package model defines the data structures shared by the lint checkers.
package model

import "strings"

// Path represents a file system path.
type Path string

// Normalized returns the path with backslashes replaced by forward slashes so
// allow/deny-list matching behaves the same on every platform.
func (p Path) Normalized() string {
	return strings.ReplaceAll(string(p), "\\", "/")
}

// SourceFile is one file handed to the checkers: the path plus the
// already-read content split into lines. The checkers never touch the
// filesystem themselves.
type SourceFile struct {
	Path  Path
	Lines []string
}

// NewSourceFile splits content into lines. A trailing newline does not
// produce an extra empty line.
func NewSourceFile(path Path, content []byte) SourceFile {
	text := strings.TrimSuffix(string(content), "\n")

	var lines []string
	if text != "" || len(content) > 0 {
		lines = strings.Split(text, "\n")
	}

	return SourceFile{Path: path, Lines: lines}
}

// ScopeKind classifies one brace-delimited region on the scope stack.
type ScopeKind int

const (
	// ScopeNamespace marks a named namespace or extern "C" region.
	// Declarations here are visible to other translation units in a
	// unity-style build.
	ScopeNamespace ScopeKind = iota

	// ScopeLocal marks class/struct/enum/union bodies, anonymous
	// namespaces, function bodies, and any other generic block.
	ScopeLocal
)

func (k ScopeKind) String() string {
	if k == ScopeNamespace {
		return "namespace"
	}

	return "local"
}
