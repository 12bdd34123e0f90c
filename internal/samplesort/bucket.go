package samplesort

import (
	"github.com/orizon-lang/pss/internal/splitter"
	"github.com/orizon-lang/pss/internal/strview"
)

// BuildBucketCache classifies every string in str against t at the given
// depth using the selected classifier variant, filling bktcache[i] with
// str[i]'s bucket number, and returns the per-bucket counts (length
// 2V+1). All four variants are functionally identical; they exist to
// let the registry expose each as its own benchmarkable contestant.
func BuildBucketCache(t *splitter.Tree, str []strview.Str, depth int, bktcache []int, variant ClassifierVariant) []int {
	numBkts := 2*t.V + 1
	counts := make([]int, numBkts)

	switch variant {
	case VariantBinarySearch:
		for i, s := range str {
			key := strview.PackKey(s, depth)
			b := ClassifyBinarySearch(t, key)
			bktcache[i] = b
			counts[b]++
		}
	case VariantInterleaved:
		const r = 8

		keys := make([]uint64, r)
		out := make([]int, r)

		i := 0
		for i+r <= len(str) {
			for j := 0; j < r; j++ {
				keys[j] = strview.PackKey(str[i+j], depth)
			}

			ClassifyInterleaved(t, keys, out, r)

			for j := 0; j < r; j++ {
				bktcache[i+j] = out[j]
				counts[out[j]]++
			}

			i += r
		}

		for ; i < len(str); i++ {
			key := strview.PackKey(str[i], depth)
			b := ClassifySimple(t, key)
			bktcache[i] = b
			counts[b]++
		}
	case VariantUnrolled:
		for i, s := range str {
			key := strview.PackKey(s, depth)
			b := ClassifyUnrolled(t, key)
			bktcache[i] = b
			counts[b]++
		}
	default:
		for i, s := range str {
			key := strview.PackKey(s, depth)
			b := ClassifySimple(t, key)
			bktcache[i] = b
			counts[b]++
		}
	}

	return counts
}

// PrefixSum turns per-bucket counts into inclusive prefix sums: the
// result's entry i is the exclusive upper bound of bucket i (i.e. bucket
// i occupies [prefixSum[i-1], prefixSum[i]) with prefixSum[-1] == 0).
func PrefixSum(counts []int) []int {
	out := make([]int, len(counts))

	sum := 0
	for i, c := range counts {
		sum += c
		out[i] = sum
	}

	return out
}

// Permute performs the cyclic-leader in-place bucket permutation of C7,
// following `bingmann-sample_sortBSC.cpp`'s `classify_cache` permutation
// loop directly: the outer loop is bounded by n minus the last bucket's
// size (that bucket is already in place once every other one is), and
// each cycle's stride is the *post-chain* bucket left in permBkt once
// the inner swap loop closes the cycle — not the bucket str[i] started
// in, which the chain may have long since swapped away from.
//
// LCP values are not threaded through here: every bucket's sort
// recursion (or inssort's base case) recomputes lcp[1:n) for its own
// range from scratch, and fixupBoundaries fills the one position per
// bucket boundary that recursion leaves untouched, so there is nothing
// for Permute to carry — and carrying it would clobber the caller's
// reserved lcp[0].
func Permute(str []strview.Str, bktcache []int, bktindex []int, counts []int) {
	n := len(str)

	lastBktSize := 0
	for b := len(counts) - 1; b >= 0; b-- {
		if counts[b] > 0 {
			lastBktSize = counts[b]
			break
		}
	}

	for i := 0; i < n-lastBktSize; {
		permStr := str[i]
		permBkt := bktcache[i]

		for {
			bktindex[permBkt]--
			j := bktindex[permBkt]
			if j <= i {
				break
			}

			permStr, str[j] = str[j], permStr
			permBkt, bktcache[j] = bktcache[j], permBkt
		}

		str[i] = permStr
		i += counts[permBkt]
	}
}
