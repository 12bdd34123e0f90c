package pss

import (
	"github.com/orizon-lang/pss/internal/losertree"
	"github.com/orizon-lang/pss/internal/mergesort"
	"github.com/orizon-lang/pss/internal/parallelmerge"
	"github.com/orizon-lang/pss/internal/registry"
	"github.com/orizon-lang/pss/internal/samplesort"
	"github.com/orizon-lang/pss/internal/strview"
)

// init registers every algorithm variant this library ships, then
// freezes the registry: by the time any caller can reach SortNamed or
// ListContestants, the set of names is fixed, matching the assumption
// registry.Freeze documents.
func init() {
	for _, k := range []int{4, 16, 32, 64} {
		registerMergesort(k)
	}

	registerSamplesort("samplesort-simple", samplesort.VariantSimple)
	registerSamplesort("samplesort-unrolled", samplesort.VariantUnrolled)
	registerSamplesort("samplesort-interleaved", samplesort.VariantInterleaved)
	registerSamplesort("samplesort-binsearch", samplesort.VariantBinarySearch)

	for _, w := range []int{1, 2, 4, 8} {
		registerParallelMerge(w)
	}

	registry.Freeze()
}

func registerMergesort(k int) {
	name := mergesortName(k)
	registry.Register(name, "1.0.0", "mergesort", func(str []strview.Str, lcp []uint64) error {
		scratch := make([]strview.Str, len(str))
		scratchLCP := make([]uint64, len(str))

		return mergesort.Sort(str, lcp, scratch, scratchLCP, k)
	})
}

func mergesortName(k int) string {
	switch k {
	case 4:
		return "mergesort-k4"
	case 16:
		return "mergesort-k16"
	case 32:
		return "mergesort-k32"
	default:
		return "mergesort-k64"
	}
}

func registerSamplesort(name string, variant samplesort.ClassifierVariant) {
	registry.Register(name, "1.0.0", "samplesort", func(str []strview.Str, lcp []uint64) error {
		return samplesort.Sort(str, lcp, samplesortConfigFromTuning(variant))
	})
}

// registerParallelMerge registers a contestant that first sorts W
// roughly equal chunks of the input independently (each via the
// sequential mergesort, k=4) and then merges the resulting W sorted
// runs with the work-stealing parallel LCP-merge driver (C9) using W
// workers. W=1 sorts the whole input as one chunk with the sequential
// mergesort and returns without calling the merge driver.
func registerParallelMerge(workers int) {
	name := parallelMergeName(workers)

	registry.Register(name, "1.0.0", "parallelmerge", func(str []strview.Str, lcp []uint64) error {
		return parallelMergeSort(str, lcp, workers)
	})
}

func parallelMergeName(workers int) string {
	switch workers {
	case 1:
		return "parallelmerge-w1"
	case 2:
		return "parallelmerge-w2"
	case 4:
		return "parallelmerge-w4"
	default:
		return "parallelmerge-w8"
	}
}

func parallelMergeSort(str []strview.Str, lcp []uint64, workers int) error {
	n := len(str)
	if n == 0 {
		return nil
	}

	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	bounds := chunkBounds(n, workers)

	if err := sortChunksIndependently(str, lcp, bounds); err != nil {
		return err
	}

	if workers == 1 {
		return nil
	}

	runs := make([]*losertree.Run, 0, workers)
	for i := 0; i < workers; i++ {
		lo, hi := bounds[i], bounds[i+1]
		if lo == hi {
			continue
		}

		runs = append(runs, losertree.NewRun(str[lo:hi], lcp[lo:hi]))
	}

	out := make([]strview.Str, n)
	outLCP := make([]uint64, n)

	if err := parallelmerge.Merge(runs, out, outLCP, Tuning(), workers); err != nil {
		return err
	}

	// outLCP is a fresh buffer; Merge never writes position 0 of it (the
	// reserved convention), but copying it wholesale into lcp would still
	// stomp the caller's original lcp[0] with that fresh buffer's zero
	// value, so preserve it across the copy.
	reserved := lcp[0]
	copy(str, out)
	copy(lcp, outLCP)
	lcp[0] = reserved

	return nil
}

// sortChunksIndependently sorts each of the chunks named by bounds
// with the sequential mergesort, the within-run sort every parallel
// merge needs its input streams to already have performed.
func sortChunksIndependently(str []strview.Str, lcp []uint64, bounds []int) error {
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]
		if lo == hi {
			continue
		}

		chunk, chunkLCP := str[lo:hi], lcp[lo:hi]
		scratch := make([]strview.Str, len(chunk))
		scratchLCP := make([]uint64, len(chunk))

		if err := mergesort.Sort(chunk, chunkLCP, scratch, scratchLCP, 4); err != nil {
			return err
		}
	}

	return nil
}

// chunkBounds returns workers+1 boundaries splitting [0,n) into
// workers contiguous ranges, the first n%workers of which get one
// extra element — the same split mergesort.partition uses internally.
func chunkBounds(n, workers int) []int {
	bounds := make([]int, workers+1)
	base := n / workers
	rem := n % workers

	pos := 0
	for i := 0; i < workers; i++ {
		bounds[i] = pos

		size := base
		if i < rem {
			size++
		}

		pos += size
	}

	bounds[workers] = n

	return bounds
}
