package registry

import (
	"time"

	"github.com/orizon-lang/pss/internal/strview"
)

// RunResult is the outcome of running one contestant once, the same
// Duration/Success/Err split the compiler's own test framework reports
// per test case.
type RunResult struct {
	Name     string
	Duration time.Duration
	Success  bool
	Err      error
}

// Run sorts a private copy of str under the named contestant, timing
// the call. The caller's str is never mutated.
func Run(name string, str []strview.Str) RunResult {
	e, ok := Get(name)
	if !ok {
		return RunResult{Name: name, Err: unknownContestantError(name)}
	}

	cp := make([]strview.Str, len(str))
	copy(cp, str)
	lcp := make([]uint64, len(str))

	start := time.Now()
	err := e.Fn(cp, lcp)
	elapsed := time.Since(start)

	return RunResult{Name: name, Duration: elapsed, Success: err == nil, Err: err}
}

// StressTest runs every registered contestant once against independent
// copies of str and returns one RunResult per contestant, in List
// order. Intended for cross-variant equivalence checks: every
// Success result should produce an identically ordered, identically
// LCP-annotated output given the same input.
func StressTest(str []strview.Str) []RunResult {
	all := List()
	results := make([]RunResult, len(all))

	for i, e := range all {
		results[i] = Run(e.Name, str)
	}

	return results
}

type unknownContestantError string

func (e unknownContestantError) Error() string {
	return "registry: unknown contestant " + string(e)
}
