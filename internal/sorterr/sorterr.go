// Package sorterr implements the error taxonomy of §7: invalid-argument and
// allocation-failure are returned synchronously before any work starts;
// internal-invariant marks a programming defect detected mid-sort.
package sorterr

import (
	"fmt"
	"runtime"
)

// Category classifies a SortError per the taxonomy in §7.
type Category string

const (
	CategoryArgument   Category = "INVALID_ARGUMENT"
	CategoryAllocation Category = "ALLOCATION_FAILURE"
	CategoryInvariant  Category = "INTERNAL_INVARIANT"
)

// SortError is a consistent error shape carrying enough context to diagnose
// a failure without re-running the sort.
type SortError struct {
	Category Category
	Code     string
	Message  string
	Context  map[string]any
	Caller   string
}

func (e *SortError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

func newError(category Category, code, message string, context map[string]any) *SortError {
	caller := "unknown"

	if pc, _, _, ok := runtime.Caller(2); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &SortError{Category: category, Code: code, Message: message, Context: context, Caller: caller}
}

// InvalidArgument reports a caller-supplied argument that fails validation
// before any work starts: n too large to allocate scratch, a non-power-of-
// two or out-of-range K, or a treebits value outside {2..16}.
func InvalidArgument(code, message string, context map[string]any) *SortError {
	return newError(CategoryArgument, code, message, context)
}

// AllocationFailure reports that scratch arrays or the job queue could not
// be allocated.
func AllocationFailure(code, message string, context map[string]any) *SortError {
	return newError(CategoryAllocation, code, message, context)
}

// InternalInvariant reports a corrupt internal state detected by the
// loser tree, bucket permutation, or splitter-tree index arithmetic. These
// are programming defects, not recoverable user errors: callers built with
// the sortdebug tag get a panic with this error as the diagnostic (see
// Assert in assert_debug.go / assert_release.go); release builds get the error
// value back.
func InternalInvariant(code, message string, context map[string]any) *SortError {
	return newError(CategoryInvariant, code, message, context)
}

// InvalidK reports that K is not one of the supported power-of-two fan-ins.
func InvalidK(k int) *SortError {
	return InvalidArgument("INVALID_K", fmt.Sprintf("K=%d is not a supported power of two in [2,64]", k),
		map[string]any{"k": k})
}

// InvalidTreebits reports a classifier treebits value outside {2..16}.
func InvalidTreebits(b int) *SortError {
	return InvalidArgument("INVALID_TREEBITS", fmt.Sprintf("treebits=%d outside [2,16]", b),
		map[string]any{"treebits": b})
}

// BufferMismatch reports that strings/shadow/lcp lengths disagree.
func BufferMismatch(nStrings, nShadow, nLCP int) *SortError {
	return InvalidArgument("BUFFER_LENGTH_MISMATCH",
		fmt.Sprintf("strings=%d shadow=%d lcp=%d must all be equal", nStrings, nShadow, nLCP),
		map[string]any{"strings": nStrings, "shadow": nShadow, "lcp": nLCP})
}

// TooManyRuns reports that the parallel merge driver was asked to combine
// more than 64 non-empty runs in one job.
func TooManyRuns(n int) *SortError {
	return InvalidArgument("TOO_MANY_RUNS", fmt.Sprintf("%d non-empty runs exceeds the K=64 ceiling", n),
		map[string]any{"runs": n})
}
