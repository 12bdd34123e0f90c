package samplesort

import (
	"github.com/orizon-lang/pss/internal/inssort"
	"github.com/orizon-lang/pss/internal/mergesort"
	"github.com/orizon-lang/pss/internal/sorterr"
	"github.com/orizon-lang/pss/internal/splitter"
	"github.com/orizon-lang/pss/internal/strview"
)

// Config holds the tunables §4.7 leaves to the implementer.
type Config struct {
	// Treebits is the splitter tree depth B; V = 2^B - 1 splitters.
	Treebits int
	// SmallsortThreshold is the bucket size at or below which recursion
	// falls through to the base-case insertion sort instead of
	// resampling and re-splitting.
	SmallsortThreshold int
	// Samples is the oversampling factor: each recursive call samples
	// Samples * V strings to build its splitter tree.
	Samples int
	// Variant selects which of the four classifier implementations
	// classifies keys against the splitters; all four agree on every bucket
	// assignment, so this only affects which code path runs.
	Variant ClassifierVariant
}

// DefaultConfig matches the constants documented in SPEC_FULL.md's Open
// Question resolutions.
func DefaultConfig() Config {
	return Config{Treebits: 10, SmallsortThreshold: 1024, Samples: 16, Variant: VariantSimple}
}

// Sort sorts str[0:n) in place, filling lcp[1:n) with each string's LCP
// against its sorted predecessor (lcp[0] is left untouched).
func Sort(str []strview.Str, lcp []uint64, cfg Config) error {
	n := len(str)
	if len(lcp) != n {
		return sorterr.BufferMismatch(n, n, len(lcp))
	}

	sort(str, lcp, 0, cfg)

	return nil
}

// sort recursively sorts str[0:n) in place at the given shared-prefix
// depth.
func sort(str []strview.Str, lcp []uint64, depth int, cfg Config) {
	n := len(str)
	if n <= cfg.SmallsortThreshold {
		inssort.Sort(str, lcp, depth)
		return
	}

	v := (1 << uint(cfg.Treebits)) - 1

	m := cfg.Samples * v
	if m > n {
		m = n
	}
	if m < v {
		// Too few strings to build a full tree at this depth: fall
		// back to the base case rather than under-sampling.
		inssort.Sort(str, lcp, depth)
		return
	}

	samples := collectSamples(str, m)
	sortSamplesAtDepth(samples, depth, cfg)

	if Verbose {
		logger.Printf("depth=%d n=%d sampling %d strings for a treebits=%d splitter tree", depth, n, m, cfg.Treebits)
	}

	t, err := splitter.Build(samples, depth, cfg.Treebits)
	sorterr.Assert(err == nil, sorterr.InternalInvariant("SPLITTER_BUILD",
		"splitter tree construction failed after sample count was validated", map[string]any{"m": m, "v": v}))
	if err != nil {
		// Release-mode fallback when the assertion is compiled out:
		// degrade gracefully to the base case rather than sort with a
		// nil tree.
		inssort.Sort(str, lcp, depth)
		return
	}

	numBkts := 2*v + 1
	bktcache := make([]int, n)
	counts := BuildBucketCache(t, str, depth, bktcache, cfg.Variant)
	bktindex := PrefixSum(counts)

	Permute(str, bktcache, bktindex, counts)

	recurseBuckets(str, lcp, counts, t, depth, cfg, numBkts)
	fixupBoundaries(str, lcp, counts)
}

// collectSamples picks m evenly-spaced strings from str, without
// mutating str.
func collectSamples(str []strview.Str, m int) []strview.Str {
	n := len(str)
	samples := make([]strview.Str, m)

	for i := 0; i < m; i++ {
		samples[i] = str[i*n/m]
	}

	return samples
}

// sortSamplesAtDepth sorts the sample set by the bytes from depth onward
// (the only bytes that matter at this recursion level). Sample sets at
// or below the smallsort threshold go through the base-case insertion
// sort (C2) at depth; larger ones, which the default tuning produces
// (16 * 1023 samples against a threshold of 1024), go through the
// sequential K-way mergesort (C4).
func sortSamplesAtDepth(samples []strview.Str, depth int, cfg Config) {
	if len(samples) <= cfg.SmallsortThreshold {
		sampleLCP := make([]uint64, len(samples))
		inssort.Sort(samples, sampleLCP, depth)

		return
	}

	sampleLCP := make([]uint64, len(samples))
	scratch := make([]strview.Str, len(samples))
	scratchLCP := make([]uint64, len(samples))

	k := 4
	for k < 64 && len(samples)/k > cfg.SmallsortThreshold {
		k *= 2
	}

	if err := mergesort.Sort(samples, sampleLCP, scratch, scratchLCP, k); err != nil {
		// A bad k here would be an internal bug, not a caller error:
		// fall back to the always-correct base case.
		inssort.Sort(samples, sampleLCP, depth)
	}
}

// recurseBuckets dispatches each of the numBkts buckets per the
// recursion policy of §4.7.
func recurseBuckets(str []strview.Str, lcp []uint64, counts []int, t *splitter.Tree, depth int, cfg Config, numBkts int) {
	lo := 0

	for b := 0; b < numBkts; b++ {
		hi := lo + counts[b]
		if hi > lo {
			nextDepth := depth

			switch {
			case b == numBkts-1:
				// Greater-than tail: only the unclassified suffix is
				// shared, depth is unchanged.
			case b%2 == 1:
				// Equality bucket 2i+1 for rank i = b/2.
				rank := b / 2
				if t.LCP[rank]&splitter.HighBit != 0 || (rank == 0 && t.Splitter[0]&0xFF == 0) {
					// The splitter's key already hit a terminator; this
					// bucket is fully resolved. LCP[0] is a plain zero
					// sentinel without the flag, so rank 0 reads the
					// terminator off the zero-padded key's last byte.
					// Every string in the bucket is identical, so each
					// one's LCP with its predecessor is its full length.
					for k := lo + 1; k < hi; k++ {
						lcp[k] = uint64(len(str[k]))
					}

					lo = hi
					continue
				}

				nextDepth = depth + 8
			default:
				// Less-than bucket 2i for rank i = b/2.
				rank := b / 2
				nextDepth = depth + int(t.LCP[rank]&^splitter.HighBit)
			}

			sort(str[lo:hi], lcp[lo:hi], nextDepth, cfg)
		}

		lo = hi
	}
}

// fixupBoundaries fills in the LCP at the first position of every
// non-empty bucket after the first, relative to the last string of the
// previous non-empty bucket — the one position each recursive sort call
// leaves untouched, by the same [0]-is-reserved convention used
// throughout this module.
func fixupBoundaries(str []strview.Str, lcp []uint64, counts []int) {
	lo := 0

	prevLast := -1
	for _, c := range counts {
		hi := lo + c
		if c > 0 {
			if prevLast >= 0 {
				lcp[lo] = uint64(strview.CommonPrefix(str[prevLast], str[lo]))
			}
			prevLast = hi - 1
		}
		lo = hi
	}
}
