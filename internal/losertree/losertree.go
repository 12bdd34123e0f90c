// Package losertree implements the K-way LCP-aware loser tree (C3): the
// online tournament tree that merges K sorted, LCP-annotated runs while
// reusing already-known LCP values instead of rescanning shared prefixes.
package losertree

import (
	"github.com/orizon-lang/pss/internal/sorterr"
	"github.com/orizon-lang/pss/internal/strview"
)

// Run is one of the K sorted, LCP-annotated input streams. LCP[j] is the
// LCP between Strings[j-1] and Strings[j] (within this run); LCP[0] is
// never read, mirroring the reserved lcp[0] convention used everywhere
// else in this library.
type Run struct {
	Strings []strview.Str
	LCP     []uint64
	pos     int
}

// NewRun wraps a sorted, LCP-annotated slice pair as a merge input.
func NewRun(strings []strview.Str, lcp []uint64) *Run {
	return &Run{Strings: strings, LCP: lcp}
}

func (r *Run) head() (strview.Str, bool) {
	if r.pos >= len(r.Strings) {
		return nil, false
	}
	return r.Strings[r.pos], true
}

func (r *Run) advance() { r.pos++ }

// Remaining returns the not-yet-merged suffix of this run, for splitting.
func (r *Run) Remaining() (strings []strview.Str, lcp []uint64) {
	return r.Strings[r.pos:], r.LCP[r.pos:]
}

// validK reports whether k is one of the supported power-of-two fan-ins.
func validK(k int) bool {
	switch k {
	case 2, 4, 8, 16, 32, 64:
		return true
	default:
		return false
	}
}

type nodeInfo struct {
	run   int
	lcp   uint64
	empty bool
}

// Tree is the K-way LCP loser tree. It holds K-1 internal loser slots
// (nodes 1..K-1 of an implicit complete binary tree with leaves K..2K-1)
// plus the current overall winner.
type Tree struct {
	k       int
	runs    []*Run
	node    []nodeInfo // index 1..k-1 used
	root    int
	rootLCP uint64
	empty   bool
	started bool
}

// New builds a loser tree over the given runs. len(runs) must not exceed
// k; any shortfall is padded with permanently-empty runs (the pattern the
// parallel driver uses when a split round yields fewer non-empty streams
// than the chosen K). k must be a supported power of two.
func New(k int, runs []*Run) (*Tree, error) {
	if !validK(k) {
		return nil, sorterr.InvalidK(k)
	}

	if len(runs) > k {
		return nil, sorterr.InvalidArgument("TOO_MANY_RUNS_FOR_K",
			"more runs supplied than the tree's K", map[string]any{"runs": len(runs), "k": k})
	}

	padded := make([]*Run, k)
	copy(padded, runs)

	for i := len(runs); i < k; i++ {
		padded[i] = &Run{}
	}

	t := &Tree{k: k, runs: padded, node: make([]nodeInfo, k)}
	t.root, t.empty = t.build(1)

	return t, nil
}

func (t *Tree) build(p int) (winner int, empty bool) {
	if p >= t.k {
		run := p - t.k
		_, ok := t.runs[run].head()
		return run, !ok
	}

	lw, lEmpty := t.build(2 * p)
	rw, rEmpty := t.build(2*p + 1)

	var winnerRun, loserRun int
	var winnerEmpty, loserEmpty bool

	switch {
	case lEmpty && rEmpty:
		winnerRun, loserRun = lw, rw
		winnerEmpty, loserEmpty = true, true
	case lEmpty:
		winnerRun, loserRun = rw, lw
		winnerEmpty, loserEmpty = false, true
	case rEmpty:
		winnerRun, loserRun = lw, rw
		winnerEmpty, loserEmpty = false, true
	default:
		ls, _ := t.runs[lw].head()
		rs, _ := t.runs[rw].head()

		if strview.Compare(ls, rs) <= 0 {
			winnerRun, loserRun = lw, rw
		} else {
			winnerRun, loserRun = rw, lw
		}
	}

	var lcp uint64
	if !winnerEmpty && !loserEmpty {
		ws, _ := t.runs[winnerRun].head()
		ls, _ := t.runs[loserRun].head()
		lcp = uint64(strview.CommonPrefix(ws, ls))
	}

	t.node[p] = nodeInfo{run: loserRun, lcp: lcp, empty: loserEmpty}

	return winnerRun, winnerEmpty
}

// sliceFrom returns s[off:], or nil if off is past the end of s.
func sliceFrom(s strview.Str, off uint64) strview.Str {
	if off >= uint64(len(s)) {
		return nil
	}
	return s[off:]
}

// matchAgainstNode plays the carrier (the string currently propagating up
// from the just-refilled leaf) against the stored loser at a node, using
// the LCP-aware 3-case comparison of §4.2: both values' LCP is understood
// relative to the same reference string (the previously emitted overall
// winner), so a strict LCP inequality alone decides the match without
// touching either string; only a tie forces an actual byte scan, and even
// then only from the tied offset onward.
func matchAgainstNode(carrierEmpty bool, carrierLCP uint64, carrierStr strview.Str, node nodeInfo, loserStr strview.Str) (carrierWins bool, pairLCP uint64, winnerRefLCP uint64) {
	switch {
	case carrierEmpty && node.empty:
		return true, 0, 0
	case carrierEmpty:
		return false, 0, node.lcp
	case node.empty:
		return true, 0, carrierLCP
	case carrierLCP > node.lcp:
		return true, node.lcp, carrierLCP
	case carrierLCP < node.lcp:
		return false, carrierLCP, node.lcp
	default:
		extra := strview.CommonPrefix(sliceFrom(carrierStr, carrierLCP), sliceFrom(loserStr, carrierLCP))
		l := carrierLCP + uint64(extra)
		cb := strview.ByteAt(carrierStr, int(l))
		lb := strview.ByteAt(loserStr, int(l))

		if cb <= lb {
			return true, l, carrierLCP
		}
		return false, l, carrierLCP
	}
}

// refill replays the path from the just-emptied leaf to the root after
// emittedRun's head has been consumed.
func (t *Tree) refill(emittedRun int) {
	run := t.runs[emittedRun]
	run.advance()

	carrierRun := emittedRun

	var carrierLCP uint64
	var carrierEmpty bool

	if _, ok := run.head(); ok {
		carrierLCP = run.LCP[run.pos]
	} else {
		carrierEmpty = true
	}

	for p := (emittedRun + t.k) / 2; p >= 1; p /= 2 {
		node := t.node[p]

		carrierStr, _ := t.runs[carrierRun].head()
		loserStr, _ := t.runs[node.run].head()

		wins, pairLCP, refLCP := matchAgainstNode(carrierEmpty, carrierLCP, carrierStr, node, loserStr)

		if wins {
			t.node[p] = nodeInfo{run: node.run, lcp: pairLCP, empty: node.empty}
			carrierLCP = refLCP
		} else {
			t.node[p] = nodeInfo{run: carrierRun, lcp: pairLCP, empty: carrierEmpty}
			carrierRun = node.run
			carrierLCP = refLCP
			carrierEmpty = node.empty
		}
	}

	t.root = carrierRun
	t.rootLCP = carrierLCP
	t.empty = carrierEmpty
}

// WriteElementsToStream emits up to m strings (and their LCPs, except the
// very first string ever emitted by this tree, whose predecessor lies
// outside the tree's view) into out/outLCP, refilling from the winner's
// run as it goes. It returns the number of elements actually written,
// which is less than m once all runs are exhausted.
func (t *Tree) WriteElementsToStream(out []strview.Str, outLCP []uint64, m int) int {
	n := 0

	for n < m && !t.empty {
		s, _ := t.runs[t.root].head()
		out[n] = s

		if t.started {
			outLCP[n] = t.rootLCP
		}
		t.started = true

		t.refill(t.root)
		n++
	}

	return n
}

// GetRemaining snapshots the residual (not yet merged) portion of each
// input run, keyed by the run's original slot index. Used by the parallel
// LCP-merge driver (C9) when it voluntarily interrupts a merge to share
// work: the loser tree's internal cursors, advanced during emission, are
// exactly the new run starts.
func (t *Tree) GetRemaining() []*Run {
	out := make([]*Run, len(t.runs))
	copy(out, t.runs)
	return out
}
