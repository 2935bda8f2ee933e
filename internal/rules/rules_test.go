package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// runRule scans inline code the way the checker does and returns the rule's
// violations. The default path passes most rules' file filters.
func runRule(t *testing.T, rule Rule, path m.Path, code string) []m.Violation {
	t.Helper()

	if !rule.ShouldProcessFile(path) {
		return nil
	}

	classifier := scanner.New(scanner.WithTrackedNamespace("fl"))
	state := classifier.BeginScan()

	var violations []m.Violation

	for i, raw := range strings.Split(strings.TrimSuffix(code, "\n"), "\n") {
		line := classifier.ClassifyLine(state, i+1, raw)
		if line.Skip {
			continue
		}

		violations = append(violations, rule.Check(line, state)...)
	}

	return violations
}

const headerPath = m.Path("/project/src/fl/test.h")

func TestBareUsing(t *testing.T) {
	rule := NewBareUsing()

	tests := []struct {
		name string
		code string
		want int
	}{
		{"using declaration at file scope", "using fl::ByteStreamPtr;\n", 1},
		{"using namespace at file scope", "using namespace std;\n", 1},
		{"using inside named namespace", "namespace fl {\nusing platforms::condition_variable;\n}\n", 1},
		{"using inside class body", "class Foo {\n  using Base::member;\n};\n", 0},
		{"using inside function body", "void foo() {\n  using fl::swap;\n  swap(a, b);\n}\n", 0},
		{"using inside anonymous namespace", "namespace {\nusing fl::third_party::hexwave::HexWave;\n}\n", 0},
		{"type alias", "using GammaKey = fl::ufixed_point<4, 12>;\n", 0},
		{"type alias in namespace", "namespace fl {\nusing mutex = platforms::mutex;\n}\n", 0},
		{"suppressed with ok", "using fl::fract8;  // ok bare using\n", 0},
		{"suppressed with okay", "using fl::fract8;  // okay bare using\n", 0},
		{"suppression is case insensitive", "using fl::fract8;  // OK Bare Using\n", 0},
		{"nested namespaces still flagged", "namespace fl {\nnamespace simd {\nusing platforms::load_u8_16;\n}\n}\n", 1},
		{"struct body is local scope", "namespace fl {\nstruct Foo {\n  using Base::x;\n};\n}\n", 0},
		{"constructor inheritance in struct", "template <typename T> struct pair_xy : public vec2<T> {\n    using value_type = T;\n    using vec2<T>::vec2;\n};\n", 0},
		{"block comment opener inside line comment", "// implementations in viz/*.cpp.hpp\nnamespace fl {\nusing platforms::condition_variable;\n}\n", 1},
		{"using inside block comment", "/*\nusing namespace std;\n*/\n", 0},
		{"extern C block stays namespace scope", "extern \"C\" {\nusing fl::thing;\n}\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := runRule(t, rule, headerPath, tt.code)
			assert.Len(t, violations, tt.want)
		})
	}

	t.Run("reports line number of the declaration", func(t *testing.T) {
		violations := runRule(t, rule, headerPath, "namespace fl {\nusing platforms::mutex_impl;\n}\n")

		require.Len(t, violations, 1)
		assert.Equal(t, 2, violations[0].Line)
		assert.Equal(t, "bare-using", violations[0].Rule)
	})

	t.Run("file filter", func(t *testing.T) {
		assert.True(t, rule.ShouldProcessFile("/project/src/fl/audio/synth.cpp.hpp"))
		assert.False(t, rule.ShouldProcessFile("/project/src/platforms/wasm/ui.cpp.hpp"), "outside src/fl")
		assert.False(t, rule.ShouldProcessFile("/project/src/fl/test.cpp"), "headers only")
		assert.False(t, rule.ShouldProcessFile("/project/src/fl/third_party/hexwave.h"))
		assert.False(t, rule.ShouldProcessFile("/project/src/fl/FastLED.h"))
	})
}

func TestBareAllocation(t *testing.T) {
	rule := NewBareAllocation()
	path := m.Path("/project/src/fl/buffer.cpp")

	tests := []struct {
		name string
		code string
		want int
	}{
		{"bare new", "new Foo();\n", 1},
		{"bare delete", "delete ptr;\n", 1},
		{"bare malloc", "void* p = malloc(10);\n", 1},
		{"bare calloc", "void* p = calloc(4, 10);\n", 1},
		{"bare realloc", "p = realloc(p, 20);\n", 1},
		{"bare free", "free(p);\n", 1},
		{"qualified malloc exempt", "fl::malloc(10);\n", 0},
		{"qualified free exempt", "fl::free(p);\n", 0},
		{"member alloc exempt", "arena.malloc(10);\n", 0},
		{"custom free function exempt", "buffer_free(p);\n", 0},
		{"operator new overload exempt", "void* operator new(size_t n);\n", 0},
		{"deleted function exempt", "Foo(const Foo&) = delete;\n", 0},
		{"deleted function before comment", "Foo& operator=(const Foo&) = delete; // no copies\n", 0},
		{"new inside string literal", "log(\"test for new features\");\n", 0},
		{"new inside comment", "// new Foo() would leak\n", 0},
		{"new inside block comment", "/*\nnew Foo();\n*/\n", 0},
		{"suppressed", "Foo* f = new Foo();  // ok bare allocation\n", 0},
		{"identifier containing delete exempt", "delete_request(r);\n", 0},
		{"placement new not flagged", "new (buf) Foo();\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := runRule(t, rule, path, tt.code)
			assert.Len(t, violations, tt.want)
		})
	}

	t.Run("whitelisted allocator file skipped", func(t *testing.T) {
		assert.False(t, rule.ShouldProcessFile("/project/src/fl/stl/allocator.h"))
		assert.False(t, rule.ShouldProcessFile("/project/src/fl/memory.cpp.hpp"))
		assert.True(t, rule.ShouldProcessFile("/project/src/fl/buffer.cpp"))
	})
}

func TestStdNamespace(t *testing.T) {
	rule := NewStdNamespace()
	path := m.Path("/project/src/fl/str.cpp")

	tests := []struct {
		name string
		code string
		want int
	}{
		{"std vector flagged", "std::vector<int> v;\n", 1},
		{"fl equivalent fine", "fl::vector<int> v;\n", 0},
		{"std in comment fine", "// std::vector is not allowed here\n", 0},
		{"std in string fine", "log(\"std::vector\");\n", 0},
		{"memory order allowed", "std::atomic_thread_fence(std::memory_order_release);\n", 0},
		{"mixed allowed and not flagged", "std::atomic_thread_fence(std::memory_order_release); std::abort();\n", 1},
		{"suppressed", "std::lock_guard<std::mutex> lk(m);  // okay std namespace\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := runRule(t, rule, path, tt.code)
			assert.Len(t, violations, tt.want)
		})
	}

	t.Run("bridge files skipped", func(t *testing.T) {
		assert.False(t, rule.ShouldProcessFile("/p/src/platforms/stub/mutex_stub_stl.h"))
		assert.False(t, rule.ShouldProcessFile("/p/src/platforms/esp/32/semaphore_esp32.h"))
		assert.True(t, rule.ShouldProcessFile("/p/src/fl/mutex.h"))
	})
}

func TestCtypeGlobal(t *testing.T) {
	rule := NewCtypeGlobal()
	path := m.Path("/project/src/fl/str.cpp")

	tests := []struct {
		name string
		code string
		want int
	}{
		{"bare isspace flagged", "if (isspace(c)) {\n", 1},
		{"global qualified flagged", "if (::isdigit(c)) {\n", 1},
		{"fl qualified fine", "if (fl::isspace(c)) {\n", 0},
		{"member call fine", "if (str.tolower(c)) {\n", 0},
		{"identifier suffix fine", "if (myisspace(c)) {\n", 0},
		{"bare call inside fl namespace fine", "namespace fl {\nbool b = isspace(c);\n}\n", 0},
		{"bare call outside fl namespace flagged", "namespace fl {\n}\nbool b = isspace(c);\n", 1},
		{"two bare calls two violations", "if (isupper(c) || islower(c)) {\n", 2},
		{"suppressed", "tolower(c);  // ok ctype\n", 0},
		{"std qualified also flagged", "std::toupper(c);\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := runRule(t, rule, path, tt.code)
			assert.Len(t, violations, tt.want)
		})
	}

	t.Run("cctype definition file skipped", func(t *testing.T) {
		assert.False(t, rule.ShouldProcessFile("/project/src/fl/stl/cctype.h"))
	})
}

func TestArduinoMacro(t *testing.T) {
	rule := NewArduinoMacro()
	path := m.Path("/project/src/fl/pin.cpp")

	tests := []struct {
		name string
		code string
		want int
	}{
		{"bare INPUT flagged", "pinMode(pin, INPUT);\n", 1},
		{"bare OUTPUT flagged", "pinMode(pin, OUTPUT);\n", 1},
		{"scoped enum reference fine", "mode = RxDeviceType::DEFAULT;\n", 0},
		{"enum member definition fine", "    DEFAULT = 0,\n", 0},
		{"enum member without value fine", "    OUTPUT,\n", 0},
		{"preprocessor define fine", "#define INPUT 0\n", 0},
		{"ifdef fine", "#ifdef OUTPUT\n", 0},
		{"comment fine", "// DEFAULT is banned\n", 0},
		{"lowercase fine", "int input = 0;\n", 0},
		{"substring fine", "int INPUT_BUFFER = 0;\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := runRule(t, rule, path, tt.code)
			assert.Len(t, violations, tt.want)
		})
	}

	t.Run("platform headers skipped", func(t *testing.T) {
		assert.False(t, rule.ShouldProcessFile("/project/src/platforms/avr/pins.h"))
		assert.False(t, rule.ShouldProcessFile("/project/examples/Blink/Blink.ino"), "outside src/")
		assert.True(t, rule.ShouldProcessFile("/project/src/fl/pin.cpp"))
	})
}

func TestSpanFromPointer(t *testing.T) {
	rule := NewSpanFromPointer()
	path := m.Path("/project/src/fl/audio.cpp")

	tests := []struct {
		name string
		code string
		want int
	}{
		{"data size pair flagged", "process(fl::span<const int>(vec.data(), vec.size()));\n", 1},
		{"member buffer flagged", "draw(span<CRGB>(mBuffer.data(), mBuffer.size()));\n", 1},
		{"container constructor fine", "process(fl::span<const int>(vec));\n", 0},
		{"data only fine", "use(vec.data());\n", 0},
		{"suppressed", "span<u8>(b.data(), b.size());  // ok span from pointer\n", 0},
		{"in comment fine", "// span<T>(v.data(), v.size()) is verbose\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := runRule(t, rule, path, tt.code)
			assert.Len(t, violations, tt.want)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("empty selection returns all rules", func(t *testing.T) {
		rules, err := Resolve(nil)
		require.NoError(t, err)
		assert.Len(t, rules, 6)
	})

	t.Run("exact names resolve", func(t *testing.T) {
		rules, err := Resolve([]string{"bare-using", "std-namespace"})
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "bare-using", rules[0].Name())
	})

	t.Run("unknown name suggests candidates", func(t *testing.T) {
		_, err := Resolve([]string{"aloc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bare-allocation")
	})

	t.Run("nonsense name lists available rules", func(t *testing.T) {
		_, err := Resolve([]string{"zzz"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown rule")
	})
}

func TestSuppressionIsLineLocal(t *testing.T) {
	rule := NewBareAllocation()
	code := "Foo* a = new Foo();  // ok bare allocation\nFoo* b = new Foo();\n"

	violations := runRule(t, rule, "/project/src/fl/x.cpp", code)

	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Line)
}
