// Package assert is the engine's contract-violation channel.
//
// Containers and handles report misuse (duplicate keys, out-of-range indexes,
// missing keys, foreign allocator blocks) through That instead of returning
// errors. What happens next depends on the process-wide Mode:
//
//   - ModePanic: the handler runs, then That panics with the *Failure.
//   - ModeReport: the handler runs and That returns false; the caller falls
//     through to its documented no-op or zero result.
//   - ModeDisabled: nothing is reported; That still returns the condition so
//     callers degrade the same way as in ModeReport.
//
// Callers must not rely on the degraded behavior for correctness.
package assert

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// Mode selects how failed assertions are surfaced.
type Mode uint32

const (
	ModePanic Mode = iota
	ModeReport
	ModeDisabled
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModePanic:
		return "panic"
	case ModeReport:
		return "report"
	case ModeDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("mode(%d)", uint32(m))
	}
}

// ParseMode maps a configuration name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "panic":
		return ModePanic, nil
	case "report":
		return ModeReport, nil
	case "disabled", "off":
		return ModeDisabled, nil
	default:
		return ModePanic, fmt.Errorf("assert: unknown mode %q", s)
	}
}

// Failure describes one failed assertion.
type Failure struct {
	Expression string
	File       string
	Function   string
	Line       int
}

// Error implements error so a recovered panic value can be wrapped.
func (f *Failure) Error() string {
	return fmt.Sprintf("assertion failed: %s (%s:%d %s)", f.Expression, f.File, f.Line, f.Function)
}

// Handler receives every reported failure.
type Handler func(f *Failure)

var (
	mode atomic.Uint32

	handlerMu sync.RWMutex
	handler   Handler = stderrHandler
)

// SetMode changes the process-wide mode and returns the previous one.
func SetMode(m Mode) Mode {
	return Mode(mode.Swap(uint32(m)))
}

// CurrentMode returns the process-wide mode.
func CurrentMode() Mode {
	return Mode(mode.Load())
}

// SetHandler installs h as the failure handler and returns the previous one.
// A nil h restores the stderr handler.
func SetHandler(h Handler) Handler {
	if h == nil {
		h = stderrHandler
	}
	handlerMu.Lock()
	prev := handler
	handler = h
	handlerMu.Unlock()
	return prev
}

// That reports a failure when cond is false and returns cond.
//
//	if !assert.That(idx < m.Capacity(), "index is out of range") {
//	    return
//	}
func That(cond bool, expr string) bool {
	if cond {
		return true
	}
	fail(expr, 2)
	return false
}

// Thatf is That with a formatted expression. The message is only rendered on
// failure.
func Thatf(cond bool, format string, args ...any) bool {
	if cond {
		return true
	}
	fail(fmt.Sprintf(format, args...), 2)
	return false
}

// NoEntry reports an unreachable code path.
func NoEntry(expr string) {
	fail(expr, 2)
}

func fail(expr string, skip int) {
	m := CurrentMode()
	if m == ModeDisabled {
		return
	}

	f := &Failure{Expression: expr, File: "?", Function: "?"}
	if pc, file, line, ok := runtime.Caller(skip); ok {
		f.File = file
		f.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			f.Function = fn.Name()
		}
	}

	handlerMu.RLock()
	h := handler
	handlerMu.RUnlock()
	h(f)

	if m == ModePanic {
		panic(f)
	}
}

func stderrHandler(f *Failure) {
	fmt.Fprintf(os.Stderr, "ASSERTION FAILED: %s\n  at %s:%d (%s)\n", f.Expression, f.File, f.Line, f.Function)
}
