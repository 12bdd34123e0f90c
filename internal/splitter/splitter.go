// Package splitter builds the equidistant splitter tree (C5) used by the
// sample-sort classifier (C6) to route strings into 2v+1 buckets in
// O(log v) per string.
package splitter

import (
	"github.com/orizon-lang/pss/internal/sorterr"
	"github.com/orizon-lang/pss/internal/strview"
)

// HighBit flags, within an LCP entry, that the splitter's packed key
// contains a zero byte — the string terminates within the 8-byte key, so
// recursion into that splitter's equality bucket is already resolved and
// must not descend further (§4.7). Build sets it on LCP[1..V-1] only:
// LCP[0] and LCP[V] stay plain zero sentinels, even when the rank-0
// splitter's key contains a zero byte.
const HighBit uint64 = 1 << 63

// Tree is a fully built splitter tree: B levels, V = 2^B - 1 splitters.
type Tree struct {
	B int
	V int

	// Nodes holds the tree in level order for classifier navigation:
	// node 1 is the root, node i's children are 2i and 2i+1. Index 0 is
	// unused.
	Nodes []uint64

	// Splitter and LCP are indexed by in-order rank (0..V-1 for
	// Splitter, 0..V for LCP's sentinel pair), matching how the
	// classifier looks a leaf's rank up after descending the tree and
	// how the recursion policy indexes splitter_lcp by bucket rank.
	Splitter []uint64
	LCP      []uint64
}

// Build selects V = 2^b-1 splitters equidistantly from samples (already
// sorted ascending by their bytes from depth onward, len(samples) >= V)
// and lays out the navigation tree, the rank-ordered splitter values, and
// their LCP tags. depth is the number of leading bytes every sample is
// already known to share, so packed keys start from there.
func Build(samples []strview.Str, depth, b int) (*Tree, error) {
	if b < 2 || b > 16 {
		return nil, sorterr.InvalidTreebits(b)
	}

	v := (1 << uint(b)) - 1
	m := len(samples)

	if m < v {
		return nil, sorterr.InvalidArgument("TOO_FEW_SAMPLES",
			"sample count must be at least the splitter count", map[string]any{"samples": m, "v": v})
	}

	t := &Tree{
		B:        b,
		V:        v,
		Nodes:    make([]uint64, v+1),
		Splitter: make([]uint64, v),
		LCP:      make([]uint64, v+1),
	}

	rank := make([]int, v+1)
	next := 1
	assignRanks(1, v, rank, &next)

	for i := 1; i <= v; i++ {
		r := rank[i]
		idx := m * r / (v + 1)
		key := strview.PackKey(samples[idx], depth)
		t.Nodes[i] = key
		t.Splitter[r-1] = key
	}

	for r := 1; r < v; r++ {
		prefix := uint64(commonKeyPrefix(t.Splitter[r], t.Splitter[r-1]))

		if hasZeroByte(t.Splitter[r]) {
			prefix |= HighBit
		}

		t.LCP[r] = prefix
	}

	return t, nil
}

// assignRanks walks the implicit tree in-order, numbering nodes 1..v by
// their in-order (sorted) position — this is the rank(i) the equidistant
// selection formula needs. The recursion is bounded by v's bit length
// (at most 16 levels), negligible next to the sort itself.
func assignRanks(node, v int, rank []int, next *int) {
	if node > v {
		return
	}

	assignRanks(2*node, v, rank, next)
	rank[node] = *next
	*next++
	assignRanks(2*node+1, v, rank, next)
}

// commonKeyPrefix returns the number of leading matching bytes (0..8)
// between two big-endian packed keys.
func commonKeyPrefix(a, b uint64) int {
	n := 0
	for shift := 56; shift >= 0; shift -= 8 {
		if byte(a>>uint(shift)) != byte(b>>uint(shift)) {
			break
		}
		n++
	}
	return n
}

func hasZeroByte(key uint64) bool {
	for shift := 56; shift >= 0; shift -= 8 {
		if byte(key>>uint(shift)) == 0 {
			return true
		}
	}
	return false
}
