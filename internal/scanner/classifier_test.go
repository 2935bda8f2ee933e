package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/sutaburosu/fledlint/internal/model"
)

func scanLines(t *testing.T, c *Classifier, code string) (*ScanState, []Line) {
	t.Helper()

	state := c.BeginScan()
	raw := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	lines := make([]Line, 0, len(raw))

	for i, text := range raw {
		lines = append(lines, c.ClassifyLine(state, i+1, text))
	}

	return state, lines
}

func TestClassifyLine_Masking(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain code untouched",
			raw:  "int x = 1;",
			want: "int x = 1;",
		},
		{
			name: "line comment blanked",
			raw:  "int x = 1; // trailing",
			want: "int x = 1;            ",
		},
		{
			name: "string content blanked but delimiters kept",
			raw:  `call("new Foo", x);`,
			want: `call("       ", x);`,
		},
		{
			name: "escaped quote inside string",
			raw:  `s = "a\"b";`,
			want: `s = "    ";`,
		},
		{
			name: "char literal blanked",
			raw:  "if (c == 'x') {",
			want: "if (c == ' ') {",
		},
		{
			name: "digit separator is not a char literal",
			raw:  "int big = 1'000'000;",
			want: "int big = 1'000'000;",
		},
		{
			name: "inline block comment blanked with resume",
			raw:  "int a; /* note */ int b;",
			want: "int a;            int b;",
		},
		{
			name: "block comment opener inside line comment ignored",
			raw:  "// implementations in viz/*.cpp.hpp",
			want: "                                   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			state := c.BeginScan()

			line := c.ClassifyLine(state, 1, tt.raw)

			assert.Equal(t, tt.want, line.Code)
			assert.Len(t, line.Code, len(tt.raw), "masking must preserve positions")
		})
	}
}

func TestClassifyLine_BlockCommentTracking(t *testing.T) {
	t.Run("multi line comment skips structural updates", func(t *testing.T) {
		state, lines := scanLines(t, New(), "/* start\nnamespace fl {\nend */\nint x;\n")

		assert.True(t, lines[0].Skip)
		assert.True(t, lines[1].Skip, "line inside block comment is comment")
		assert.True(t, lines[2].Skip)
		assert.False(t, lines[3].Skip)
		assert.Equal(t, 0, state.BraceDepth())
	})

	t.Run("code after closing marker is scanned", func(t *testing.T) {
		_, lines := scanLines(t, New(), "/* comment\nstill comment */ int x = 1;\n")

		require.Len(t, lines, 2)
		assert.False(t, lines[1].Skip)
		assert.Contains(t, lines[1].Code, "int x = 1;")
	})

	t.Run("unterminated block comment swallows rest of file", func(t *testing.T) {
		state, lines := scanLines(t, New(), "/* never closed\nint x;\nint y;\n")

		for _, line := range lines {
			assert.True(t, line.Skip)
		}

		assert.True(t, state.InBlockComment())
	})
}

func TestClassifyLine_Preprocessor(t *testing.T) {
	c := New()

	tests := []struct {
		raw  string
		want bool
	}{
		{"#include <stdint.h>", true},
		{"  #pragma once", true},
		{"# define FOO 1", true},
		{"#ifdef FASTLED_TESTING", true},
		{"int x = 1;", false},
		{"    // #define in comment", false},
	}

	for _, tt := range tests {
		state := c.BeginScan()
		line := c.ClassifyLine(state, 1, tt.raw)
		assert.Equal(t, tt.want, line.IsPreprocessor, "raw=%q", tt.raw)
	}
}

func TestScanState_ScopeStack(t *testing.T) {
	t.Run("named namespace keeps namespace scope", func(t *testing.T) {
		state, _ := scanLines(t, New(), "namespace fl {\n")

		assert.Equal(t, 1, state.ScopeDepth())
		assert.True(t, state.AtNamespaceScope())
	})

	t.Run("anonymous namespace is local", func(t *testing.T) {
		state, _ := scanLines(t, New(), "namespace {\n")

		assert.False(t, state.AtNamespaceScope())
	})

	t.Run("extern C is namespace scope", func(t *testing.T) {
		state, _ := scanLines(t, New(), "extern \"C\" {\n")

		assert.True(t, state.AtNamespaceScope())
	})

	t.Run("class body is local even inside namespace", func(t *testing.T) {
		state, _ := scanLines(t, New(), "namespace fl {\nclass Foo {\n")

		assert.Equal(t, 2, state.ScopeDepth())
		assert.False(t, state.AtNamespaceScope())
	})

	t.Run("struct with inheritance is local", func(t *testing.T) {
		state, _ := scanLines(t, New(), "struct pair_xy : public vec2<int> {\n")

		assert.False(t, state.AtNamespaceScope())
	})

	t.Run("function body is local", func(t *testing.T) {
		state, _ := scanLines(t, New(), "namespace fl {\nvoid f() {\n")

		assert.False(t, state.AtNamespaceScope())
	})

	t.Run("closing braces pop back to namespace scope", func(t *testing.T) {
		state, _ := scanLines(t, New(), "namespace fl {\nvoid f() {\n}\n")

		assert.True(t, state.AtNamespaceScope())
		assert.Equal(t, 1, state.BraceDepth())
	})

	t.Run("multiple braces on one line handled left to right", func(t *testing.T) {
		state, _ := scanLines(t, New(), "namespace fl { namespace detail {\n")

		assert.Equal(t, 2, state.ScopeDepth())
		assert.True(t, state.AtNamespaceScope())
	})

	t.Run("unbalanced closers never panic", func(t *testing.T) {
		state, _ := scanLines(t, New(), "}\n}\n}\n")

		assert.Equal(t, 0, state.BraceDepth())
		assert.Equal(t, 0, state.ScopeDepth())
		assert.True(t, state.AtNamespaceScope())
	})
}

func TestScanState_TrackedNamespace(t *testing.T) {
	c := New(WithTrackedNamespace("fl"))

	t.Run("inside tracked namespace", func(t *testing.T) {
		state, _ := scanLines(t, c, "namespace fl {\n")

		assert.True(t, state.InTrackedNamespace())
	})

	t.Run("other namespaces are not tracked", func(t *testing.T) {
		state, _ := scanLines(t, c, "namespace other {\n")

		assert.False(t, state.InTrackedNamespace())
	})

	t.Run("survives nested non matching scopes", func(t *testing.T) {
		state, _ := scanLines(t, c, "namespace fl {\nnamespace detail {\nstruct S {\n}\n}\n")

		assert.True(t, state.InTrackedNamespace())
	})

	t.Run("closes when matching brace closes", func(t *testing.T) {
		state, _ := scanLines(t, c, "namespace fl {\nvoid f() {\n}\n}\n")

		assert.False(t, state.InTrackedNamespace())
	})

	t.Run("nested reopening counts depth", func(t *testing.T) {
		state, _ := scanLines(t, c, "namespace fl {\nnamespace fl {\n}\n")

		assert.True(t, state.InTrackedNamespace())
	})

	t.Run("untracked classifier reports false", func(t *testing.T) {
		state, _ := scanLines(t, New(), "namespace fl {\n")

		assert.False(t, state.InTrackedNamespace())
	})
}

func TestScanFile(t *testing.T) {
	file := m.NewSourceFile("src/fl/demo.h", []byte("namespace fl {\nint x; // note\n}\n"))

	lines := New().ScanFile(file)

	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, "int x;        ", lines[1].Code)
}

func TestClassifyLine_Idempotence(t *testing.T) {
	src := "namespace fl {\n/* c */ int x; // t\nclass Foo { };\n}\n"

	_, first := scanLines(t, New(), src)
	_, second := scanLines(t, New(), src)

	assert.Equal(t, first, second)
}
