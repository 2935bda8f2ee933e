package rules

import (
	"regexp"
	"strings"

	m "github.com/sutaburosu/fledlint/internal/model"
	"github.com/sutaburosu/fledlint/internal/scanner"
)

// Bridge files MUST use std:: because they implement the fl:: to std::
// mapping. They are skipped entirely.
var stdBridgeFileSuffixes = []string{
	"platforms/stub/mutex_stub_stl.h",
	"platforms/stub/mutex_stub_noop.h",
	"platforms/esp/32/mutex_esp32.h",
	"platforms/arm/rp/mutex_rp.h",
	"platforms/arm/stm32/mutex_stm32.h",
	"platforms/arm/stm32/mutex_stm32_rtos.h",
	"platforms/arm/d21/mutex_samd.h",
	"platforms/arm/nrf52/mutex_nrf52.h",
	"platforms/stub/condition_variable_stub.h",
	"platforms/esp/32/condition_variable_esp32.h",
	"platforms/esp/32/condition_variable_esp32.cpp.hpp",
	"platforms/stub/thread_stub_stl.h",
	"platforms/stub/thread_stub_noop.h",
	"platforms/stub/semaphore_stub_stl.h",
	"platforms/stub/semaphore_stub_noop.h",
	"platforms/esp/32/semaphore_esp32.h",
	"platforms/arm/d21/semaphore_samd.h",
	"platforms/arm/d21/semaphore_samd.cpp.hpp",
	"platforms/arm/rp/semaphore_rp.h",
	"platforms/arm/rp/semaphore_rp.cpp.hpp",
	"platforms/arm/stm32/semaphore_stm32.h",
	"platforms/arm/stm32/semaphore_stm32.cpp.hpp",
	"platforms/stub/platform_time.cpp.hpp",
	"platforms/apple/run_example.hpp",
	"platforms/apple/run_unit_test.hpp",
	"platforms/posix/run_example.hpp",
	"platforms/posix/run_unit_test.hpp",
	"platforms/win/run_example.hpp",
	"platforms/win/run_unit_test.hpp",
}

// std:: symbols allowed everywhere because fl:: has no equivalent.
var allowedStdSymbols = map[string]struct{}{
	"std::atomic_thread_fence":  {},
	"std::memory_order_acquire": {},
	"std::memory_order_release": {},
	"std::memory_order_seq_cst": {},
	"std::memory_order_relaxed": {},
	"std::memory_order_acq_rel": {},
	"std::memory_order_consume": {},
}

var reStdSymbol = regexp.MustCompile(`std::\w+`)

// StdNamespace flags std:: usage; library code uses the fl:: equivalents so
// embedded targets without a full C++ runtime still build.
type StdNamespace struct {
	suppress *regexp.Regexp
}

// NewStdNamespace creates the std-namespace rule.
func NewStdNamespace() *StdNamespace {
	return &StdNamespace{suppress: suppressionPattern("std namespace", false)}
}

func (r *StdNamespace) Name() string   { return "std-namespace" }
func (r *StdNamespace) Marker() string { return "std namespace" }

func (r *StdNamespace) Describe() string {
	return "std:: usage outside bridge files; use the fl:: equivalents"
}

func (r *StdNamespace) ShouldProcessFile(p m.Path) bool {
	normalized := p.Normalized()

	if !hasExtension(normalized, ".cpp", ".h", ".hpp", ".ino") {
		return false
	}

	if inThirdParty(normalized) {
		return false
	}

	for _, suffix := range stdBridgeFileSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			return false
		}
	}

	return true
}

func (r *StdNamespace) Check(line scanner.Line, _ *scanner.ScanState) []m.Violation {
	if !strings.Contains(line.Code, "std::") {
		return nil
	}

	if r.suppress.MatchString(line.Raw) {
		return nil
	}

	// A line whose std:: symbols are all on the allow-list passes.
	allAllowed := true

	for _, symbol := range reStdSymbol.FindAllString(line.Code, -1) {
		if _, ok := allowedStdSymbols[symbol]; !ok {
			allAllowed = false
			break
		}
	}

	if allAllowed {
		return nil
	}

	return []m.Violation{{
		Line: line.Number,
		Rule: r.Name(),
		Message: "std:: namespace usage (use the fl:: equivalent, or add '// ok std namespace'): " +
			strings.TrimSpace(line.Raw),
	}}
}
