// Package mergesort implements the sequential K-way LCP mergesort (C4): a
// straightforward divide step down to the base case (C2), merged back up
// with the K-way LCP loser tree (C3).
package mergesort

import (
	"github.com/orizon-lang/pss/internal/inssort"
	"github.com/orizon-lang/pss/internal/losertree"
	"github.com/orizon-lang/pss/internal/sorterr"
	"github.com/orizon-lang/pss/internal/strview"
)

// Sort sorts strings[0:n) with lcp[1:n) set to each element's LCP against
// its sorted predecessor (lcp[0] is left untouched). shadow and shadowLCP
// are scratch buffers of the same length, used as merge staging during
// recursion; their contents on return are unspecified.
//
// K must be a supported loser-tree fan-in. Ranges of size at most 2K fall
// straight through to the base-case insertion sort.
func Sort(strings []strview.Str, lcp []uint64, shadow []strview.Str, shadowLCP []uint64, k int) error {
	n := len(strings)
	if len(shadow) != n || len(lcp) != n || len(shadowLCP) != n {
		return sorterr.BufferMismatch(n, len(shadow), len(lcp))
	}

	if _, err := losertree.New(k, nil); err != nil {
		return err
	}

	// sort's final merge step at this level (if recursion happens at
	// all) copies the loser tree's whole output over lcp, including the
	// one position — lcp[0] — the tree's own "started" guard never
	// writes. That copy leaves lcp[0] holding whatever scratchLCP[0]
	// happened to be rather than the caller's original value, so save
	// and restore it around the call.
	var reserved uint64
	if n > 0 {
		reserved = lcp[0]
	}

	sort(strings, lcp, shadow, shadowLCP, k)

	if n > 0 {
		lcp[0] = reserved
	}

	return nil
}

// sort recursively sorts out[0:n) in place. scratch is a same-length
// staging buffer: each recursion level merges its K already-sorted
// sub-ranges of out into scratch via the loser tree, then copies the
// merged run back over out — the ping-pong is confined to one merge step
// at a time rather than alternating a fixed pair of buffers by recursion
// depth, trading one linear copy per level for a simpler, unambiguous
// buffer-ownership contract.
func sort(out []strview.Str, outLCP []uint64, scratch []strview.Str, scratchLCP []uint64, k int) {
	n := len(out)
	if n <= 2*k {
		inssort.Sort(out, outLCP, 0)
		return
	}

	bounds := partition(n, k)

	runs := make([]*losertree.Run, 0, k)

	for i := 0; i < k; i++ {
		lo, hi := bounds[i], bounds[i+1]
		if lo == hi {
			continue
		}

		sort(out[lo:hi], outLCP[lo:hi], scratch[lo:hi], scratchLCP[lo:hi], k)
		runs = append(runs, losertree.NewRun(out[lo:hi], outLCP[lo:hi]))
	}

	tree, err := losertree.New(k, runs)
	sorterr.Assert(err == nil, sorterr.InternalInvariant("MERGE_TREE_BUILD",
		"loser tree construction failed after partitioning validated K", map[string]any{"k": k, "runs": len(runs)}))

	tree.WriteElementsToStream(scratch, scratchLCP, n)

	copy(out, scratch)
	copy(outLCP, scratchLCP)
}

// partition returns k+1 boundaries splitting [0,n) into k contiguous
// ranges; the first n%k ranges get one extra element.
func partition(n, k int) []int {
	bounds := make([]int, k+1)
	base := n / k
	rem := n % k

	pos := 0
	for i := 0; i < k; i++ {
		bounds[i] = pos
		size := base
		if i < rem {
			size++
		}
		pos += size
	}
	bounds[k] = n

	return bounds
}
