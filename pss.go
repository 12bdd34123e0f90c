// Package pss is a parallel super scalar string sample sort library:
// it sorts byte-string slices in place and, on request, produces the
// LCP (longest common prefix) array between consecutive sorted
// strings as a side product of the sort itself rather than a separate
// pass. Sort and SortWithLCP use the library's default algorithm;
// SortNamed dispatches to any contestant registered in
// internal/registry, letting callers pick a specific mergesort K, a
// specific sample-sort classifier, or a specific parallel-merge worker
// count for benchmarking.
package pss

import (
	"github.com/orizon-lang/pss/internal/registry"
	"github.com/orizon-lang/pss/internal/samplesort"
	"github.com/orizon-lang/pss/internal/sorterr"
	"github.com/orizon-lang/pss/internal/strview"
)

// DefaultContestant is the name SortWithLCP dispatches to.
const DefaultContestant = "samplesort-simple"

// Sort sorts strings in place using the default algorithm, discarding
// LCP information.
func Sort(strings [][]byte) error {
	lcp := make([]uint64, len(strings))
	return SortWithLCP(strings, lcp)
}

// SortWithLCP sorts strings in place and fills lcp[1:len(strings)]
// with each string's LCP against its sorted predecessor; lcp[0] is
// left untouched, the same reserved-position-zero convention used
// throughout this library. len(lcp) must equal len(strings).
func SortWithLCP(strings [][]byte, lcp []uint64) error {
	return SortNamed(DefaultContestant, strings, lcp)
}

// SortNamed sorts strings in place using the registered contestant
// called name (see ListContestants), filling lcp the same way
// SortWithLCP does.
func SortNamed(name string, strings [][]byte, lcp []uint64) error {
	if len(lcp) != len(strings) {
		return sorterr.BufferMismatch(len(strings), len(strings), len(lcp))
	}

	e, ok := registry.Get(name)
	if !ok {
		return sorterr.InvalidArgument("UNKNOWN_CONTESTANT", "no contestant registered under this name",
			map[string]any{"name": name})
	}

	str := make([]strview.Str, len(strings))
	for i, s := range strings {
		str[i] = strview.Str(s)
	}

	if err := e.Fn(str, lcp); err != nil {
		return err
	}

	for i, s := range str {
		strings[i] = []byte(s)
	}

	return nil
}

// Contestant describes one registered algorithm variant.
type Contestant = registry.Entry

// ListContestants returns every registered algorithm variant, sorted
// by name.
func ListContestants() []Contestant { return registry.List() }

// samplesortConfigFromTuning builds a samplesort.Config from the
// library's live tuning knobs (see SetTuning), carrying over the one
// field tuning.Config doesn't track: the classifier variant a given
// contestant was registered under.
func samplesortConfigFromTuning(variant samplesort.ClassifierVariant) samplesort.Config {
	t := Tuning()

	return samplesort.Config{
		Treebits:           t.Treebits,
		SmallsortThreshold: t.SmallsortThreshold,
		Samples:            t.SampleOversampleFactor,
		Variant:            variant,
	}
}
