// Package parallelmerge implements the parallel LCP-aware merge driver
// (C9): given W already-sorted, LCP-annotated runs, it binary-searches
// each run against a set of globally sorted splitter candidates to
// carve the merge into independent output ranges, then schedules one
// K-way loser-tree merge job per range across a work-stealing queue.
// A job that is still the longest thing in flight voluntarily stops
// and re-splits its own remaining streams once an idle worker shows up
// and the remaining length clears the sharing threshold, so a single
// unlucky large range can't stall the whole merge.
package parallelmerge

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/pss/internal/inssort"
	"github.com/orizon-lang/pss/internal/jobqueue"
	"github.com/orizon-lang/pss/internal/losertree"
	"github.com/orizon-lang/pss/internal/mergesort"
	"github.com/orizon-lang/pss/internal/sorterr"
	"github.com/orizon-lang/pss/internal/strview"
	"github.com/orizon-lang/pss/tuning"
)

// driver holds the state every job in a single Merge call shares: the
// queue jobs schedule onto, the tuning knobs, the running "length of
// the longest job in flight" used by the work-sharing check, and a
// pending-job counter that reaches zero exactly when the merge is
// fully done (every spawned job has itself spawned its children and
// returned).
type driver struct {
	q          jobqueue.JobQueue
	cfg        tuning.Config
	longestJob atomic.Int64
	pending    atomic.Int64
	nextWorker atomic.Int64
	done       chan struct{}
	closeOnce  sync.Once

	out    []strview.Str
	outLCP []uint64

	boundariesMu sync.Mutex
	boundaries   []int
}

// recordBoundary notes that a job's output range starts at offset
// within the full output array. Every such offset except 0 is a
// position whose LCP is relative to a predecessor outside that job's
// own view, exactly like the reserved [0] position each recursive
// sort/merge call leaves untouched — fixupBoundaries fills these in
// once every job has finished.
func (d *driver) recordBoundary(offset int) {
	if offset <= 0 {
		return
	}

	d.boundariesMu.Lock()
	d.boundaries = append(d.boundaries, offset)
	d.boundariesMu.Unlock()
}

// fixupBoundaries fills in the one LCP position every job's output
// range leaves untouched (its own position 0), relative to whatever
// precedes it in the full output.
func (d *driver) fixupBoundaries() {
	for _, off := range d.boundaries {
		if off > 0 && off < len(d.out) {
			d.outLCP[off] = uint64(strview.CommonPrefix(d.out[off-1], d.out[off]))
		}
	}
}

func (d *driver) enqueue(j jobqueue.Job) {
	d.pending.Add(1)
	w := int(d.nextWorker.Add(1)) % d.q.Workers()
	d.q.Enqueue(w, j)
}

func (d *driver) finish() {
	if d.pending.Add(-1) == 0 {
		d.closeOnce.Do(func() { close(d.done) })
	}
}

// Merge fans streams (already sorted, LCP-annotated runs whose total
// length must equal len(out)) into out/outLCP using workers goroutines.
// outLCP[0] is never written — the same reserved-position-zero
// convention used throughout this library — so callers must seed it
// themselves if they intend to copy outLCP wholesale into a buffer
// whose own position 0 needs to survive unchanged; every other
// position is filled.
func Merge(streams []*losertree.Run, out []strview.Str, outLCP []uint64, cfg tuning.Config, workers int) error {
	n := len(out)
	if len(outLCP) != n {
		return sorterr.BufferMismatch(n, len(out), len(outLCP))
	}

	total := 0
	nonEmpty := 0
	for _, r := range streams {
		strs, _ := r.Remaining()
		total += len(strs)
		if len(strs) > 0 {
			nonEmpty++
		}
	}

	if nonEmpty > 64 {
		return sorterr.TooManyRuns(nonEmpty)
	}

	if total != n {
		return sorterr.InvalidArgument("STREAM_LENGTH_MISMATCH",
			"sum of input stream lengths does not match output length",
			map[string]any{"streamTotal": total, "outputLength": n})
	}

	if workers < 1 {
		workers = 1
	}

	q := jobqueue.New(workers, 64)
	d := &driver{q: q, cfg: cfg, done: make(chan struct{}), out: out, outLCP: outLCP}
	d.longestJob.Store(int64(n))

	topo := jobqueue.DefaultTopology(workers)

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		node := nodeFor(topo, w)
		w := w

		g.Go(func() error {
			jobqueue.NumaLoop(q, node, w)
			return nil
		})
	}

	if n > 0 {
		d.pending.Add(1)
		q.Enqueue(0, &splitJob{d: d, streams: streams, out: out, outLCP: outLCP, offset: 0})
	} else {
		close(d.done)
	}

	<-d.done
	q.Close()

	if err := g.Wait(); err != nil {
		return err
	}

	d.fixupBoundaries()

	return nil
}

func nodeFor(topo []jobqueue.Node, w int) jobqueue.Node {
	for _, nd := range topo {
		for _, assigned := range nd.Workers {
			if assigned == w {
				return nd
			}
		}
	}

	return jobqueue.Node{Workers: []int{w}}
}

// splitJob is the top-level entry point: it carves the full input into
// per-range merge jobs and never does any merging itself.
type splitJob struct {
	d       *driver
	streams []*losertree.Run
	out     []strview.Str
	outLCP  []uint64
	offset  int
}

func (j *splitJob) Run() {
	// Merge seeds longestJob with the full output length before this job
	// runs. Once every merge job is enqueued it is reset to 0, so the
	// first merge job to reach its work-sharing check claims the
	// reference "longest job" slot with its own length.
	createJobsWithStandardSplitting(j.d, j.streams, j.out, j.outLCP, j.offset)
	j.d.longestJob.Store(0)
	j.d.finish()
}

// mergeJob drives one K-way loser-tree merge over a fixed output
// range, bailing out early to re-split if it's recognized as the
// longest job in flight, an idle worker exists, and the remaining
// length still clears the sharing threshold.
type mergeJob struct {
	d      *driver
	tree   *losertree.Tree
	out    []strview.Str
	outLCP []uint64
	length int
	offset int
}

func (j *mergeJob) Run() {
	consumed := j.length

	if !j.mergeToOutput() {
		consumed -= j.length

		createJobsWithStandardSplitting(j.d, j.tree.GetRemaining(), j.out, j.outLCP, j.offset+consumed)

		if j.d.longestJob.Load() == int64(j.length) {
			j.d.longestJob.Store(0)
		}
	}

	j.d.finish()
}

// mergeToOutput writes length elements in MergeBulkSize chunks,
// checking after every chunk whether this job should keep being
// treated as the reference "longest job" or whether it should
// interrupt itself to share work. Returns false (and updates j.out/
// j.outLCP/j.length to the unwritten remainder) if it bailed out.
func (j *mergeJob) mergeToOutput() bool {
	out, outLCP := j.out, j.outLCP
	length := j.length
	lastLength := length
	bulk := j.d.cfg.MergeBulkSize

	if bulk < 1 {
		bulk = 1
	}

	for length >= bulk {
		if j.d.longestJob.Load() == int64(lastLength) {
			j.d.longestJob.Store(int64(length))
		}

		if j.d.longestJob.Load() < int64(length) {
			j.d.longestJob.Store(int64(length))
		} else if j.d.q.HasIdle() && length > j.d.cfg.ShareWorkThreshold && j.d.longestJob.Load() == int64(length) {
			if Verbose {
				logger.Printf("offset=%d yielding with %d elements remaining to share with an idle worker", j.offset, length)
			}

			j.out, j.outLCP, j.length = out, outLCP, length

			return false
		}

		j.tree.WriteElementsToStream(out, outLCP, bulk)

		lastLength = length
		length -= bulk
		out = out[bulk:]
		outLCP = outLCP[bulk:]
	}

	j.tree.WriteElementsToStream(out, outLCP, length)

	return true
}

// createJobsWithStandardSplitting draws SplitSamplesPerRun evenly
// spaced samples from every stream, sorts the combined candidate set,
// and uses each surviving candidate as a splitter: every stream is
// binary-searched for that splitter's insertion point, the prefix up
// to that point is cut off into one merge job's input, and the
// splitter advances to the next range. The final range (past every
// splitter) collects whatever's left.
func createJobsWithStandardSplitting(d *driver, streams []*losertree.Run, out []strview.Str, outLCP []uint64, offset int) {
	numInputs := len(streams)
	if numInputs == 0 {
		return
	}

	s := d.cfg.SplitSamplesPerRun
	if s < 1 {
		s = 1
	}

	strs := make([][]strview.Str, numInputs)
	lcps := make([][]uint64, numInputs)
	splitters := make([]strview.Str, 0, s*numInputs)

	for i, r := range streams {
		strs[i], lcps[i] = r.Remaining()

		if len(strs[i]) == 0 {
			continue
		}

		stepWidth := len(strs[i]) / (s + 1)
		if stepWidth == 0 {
			stepWidth = 1
		}

		for n := 0; n < s; n++ {
			idx := (n + 1) * stepWidth
			if idx >= len(strs[i]) {
				idx = len(strs[i]) - 1
			}

			splitters = append(splitters, strs[i][idx])
		}
	}

	sortSplitters(splitters)

	output, outputLCP, cursor := out, outLCP, offset

	emit := func() {
		jobStreams := make([]*losertree.Run, 0, numInputs)
		jobLength := 0

		for i := range strs {
			if len(strs[i]) == 0 {
				continue
			}

			jobStreams = append(jobStreams, losertree.NewRun(strs[i], lcps[i]))
			jobLength += len(strs[i])
		}

		enqueueMerge(d, jobStreams, output[:jobLength], outputLCP[:jobLength], cursor)

		output = output[jobLength:]
		outputLCP = outputLCP[jobLength:]
		cursor += jobLength
	}

	for _, sp := range splitters {
		if len(sp) == 0 {
			continue
		}

		jobStreams := make([]*losertree.Run, 0, numInputs)
		jobLength := 0

		for i := range strs {
			if len(strs[i]) == 0 {
				continue
			}

			idx := splitIndex(strs[i], sp)
			if idx > 0 {
				jobStreams = append(jobStreams, losertree.NewRun(strs[i][:idx], lcps[i][:idx]))
				jobLength += idx
			}

			strs[i] = strs[i][idx:]
			lcps[i] = lcps[i][idx:]
		}

		enqueueMerge(d, jobStreams, output[:jobLength], outputLCP[:jobLength], cursor)

		output = output[jobLength:]
		outputLCP = outputLCP[jobLength:]
		cursor += jobLength
	}

	emit()
}

// splitIndex returns the number of leading elements of the sorted slice
// strs that are less than or equal to splitter, i.e. the index of the
// first element strictly greater than it, via the same
// clamp-then-binary-search shape as the original standard-splitting
// procedure.
func splitIndex(strs []strview.Str, splitter strview.Str) int {
	n := len(strs)

	if strview.Compare(splitter, strs[0]) < 0 {
		return 0
	}
	if strview.Compare(splitter, strs[n-1]) >= 0 {
		return n
	}

	l, r := 0, n-1
	for r-l > 1 {
		m := (l + r) / 2
		if strview.Compare(splitter, strs[m]) < 0 {
			r = m
		} else {
			l = m
		}
	}

	return r
}

// sortSplitters orders the splitter candidates (SplitSamplesPerRun *
// numInputs strings) with the sequential K-way LCP mergesort (C4, K=4).
func sortSplitters(splitters []strview.Str) {
	n := len(splitters)
	lcp := make([]uint64, n)
	scratch := make([]strview.Str, n)
	scratchLCP := make([]uint64, n)

	// All buffers have length n and K=4 is supported, so Sort cannot fail.
	_ = mergesort.Sort(splitters, lcp, scratch, scratchLCP, 4)
}

// kFor picks the smallest contestant loser-tree width from the
// standard family {2,4,8,16,32,64} that covers numStreams inputs.
func kFor(numStreams int) int {
	for _, k := range []int{2, 4, 8, 16, 32, 64} {
		if numStreams <= k {
			return k
		}
	}

	return 64
}

func enqueueMerge(d *driver, streams []*losertree.Run, out []strview.Str, outLCP []uint64, offset int) {
	if len(out) == 0 {
		return
	}

	d.recordBoundary(offset)

	k := kFor(len(streams))

	tree, err := losertree.New(k, streams)
	sorterr.Assert(err == nil, sorterr.InternalInvariant("MERGE_TREE_BUILD",
		"loser tree construction failed for a bounded contestant width", map[string]any{"k": k, "streams": len(streams)}))

	if err != nil {
		// Release-mode fallback when the assertion above compiles out:
		// merge sequentially in place via the base-case insertion sort
		// rather than drop data.
		fallbackMerge(streams, out, outLCP)

		return
	}

	d.enqueue(&mergeJob{d: d, tree: tree, out: out, outLCP: outLCP, length: len(out), offset: offset})
}

// fallbackMerge is the release-mode degradation path for an
// unreachable loser-tree construction failure: concatenate every
// stream's remaining elements and re-sort from scratch so the result
// is still correct, just not via the fast path.
func fallbackMerge(streams []*losertree.Run, out []strview.Str, outLCP []uint64) {
	pos := 0

	for _, r := range streams {
		strs, _ := r.Remaining()
		pos += copy(out[pos:], strs)
	}

	inssort.Sort(out, outLCP, 0)
}
