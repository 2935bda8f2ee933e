package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/rules"
)

func TestCheckerRelevant(t *testing.T) {
	checker := NewChecker(rules.All())

	tests := []struct {
		name string
		path m.Path
		want bool
	}{
		{"fl header", "src/fl/vector.h", true},
		{"cpp outside fl", "src/noise.cpp", true},
		{"readme", "README.md", false},
		{"python script", "ci/lint.py", false},
		{"third party header", "src/third_party/lib/x.h", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.Relevant(tt.path))
		})
	}
}

func TestCheckerSignature(t *testing.T) {
	full := NewChecker(rules.All())
	assert.Equal(t, "arduino-macro,bare-allocation,bare-using,ctype-global,span-from-pointer,std-namespace", full.Signature())

	subset, err := rules.Resolve([]string{"bare-using"})
	require.NoError(t, err)
	assert.Equal(t, "bare-using", NewChecker(subset).Signature())
}

func TestCheckerCheckFile(t *testing.T) {
	checker := NewChecker(rules.All())

	t.Run("violations come out in line order", func(t *testing.T) {
		content := []byte("#pragma once\n" +
			"\n" +
			"using namespace std;\n" +
			"\n" +
			"int* make() {\n" +
			"    return new int[8];\n" +
			"}\n")

		report := checker.CheckFile(m.NewSourceFile("src/fl/demo.h", content))

		require.Len(t, report.Violations, 2)
		assert.Equal(t, 3, report.Violations[0].Line)
		assert.Equal(t, "bare-using", report.Violations[0].Rule)
		assert.Equal(t, 6, report.Violations[1].Line)
		assert.Equal(t, "bare-allocation", report.Violations[1].Rule)
	})

	t.Run("two rules on one line keep reporting order", func(t *testing.T) {
		content := []byte("int* p = new int; float f = std::sqrt(2.0f);\n")

		report := checker.CheckFile(m.NewSourceFile("src/fl/demo.h", content))

		require.Len(t, report.Violations, 2)
		assert.Equal(t, "bare-allocation", report.Violations[0].Rule)
		assert.Equal(t, "std-namespace", report.Violations[1].Rule)
	})

	t.Run("comment only lines are skipped", func(t *testing.T) {
		content := []byte("// using namespace std;\n" +
			"/* int* p = new int; */\n")

		report := checker.CheckFile(m.NewSourceFile("src/fl/demo.h", content))
		assert.Empty(t, report.Violations)
	})

	t.Run("irrelevant file yields empty report", func(t *testing.T) {
		report := checker.CheckFile(m.NewSourceFile("notes.txt", []byte("using namespace std;\n")))
		assert.Empty(t, report.Violations)
	})

	t.Run("clean file yields empty report", func(t *testing.T) {
		content := []byte("#pragma once\n" +
			"namespace fl {\n" +
			"inline int twice(int v) { return v * 2; }\n" +
			"}  // namespace fl\n")

		report := checker.CheckFile(m.NewSourceFile("src/fl/clean.h", content))
		assert.Empty(t, report.Violations)
	})
}
