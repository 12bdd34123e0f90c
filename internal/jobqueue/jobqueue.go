// Package jobqueue implements the work-stealing job distribution the
// parallel LCP-merge driver (C9) schedules onto: one lock-free MPMC
// ring per worker, a shared overflow ring that takes a job when the
// target worker's ring is full, and an idle-worker counter a producer can poll
// before deciding whether splitting a job is worth the overhead.
package jobqueue

import (
	"runtime"
	"sync/atomic"
)

// Job is anything the driver schedules. Run does the work; it must not
// block on anything other than the data it was handed.
type Job interface {
	Run()
}

// JobQueue is the subset of *Queue a job producer depends on: enough to
// schedule work and consult idle occupancy, without exposing the
// consumer-side Dequeue/MarkIdle/MarkBusy/Closed methods only NumaLoop
// itself calls. Extracted so producer-side tests can substitute a mock
// and assert on HasIdle() being consulted without spinning up real
// workers.
type JobQueue interface {
	Workers() int
	Enqueue(worker int, j Job) bool
	HasIdle() bool
	Close()
}

// cell is a single slot in the ring, tagged with Dmitry Vyukov's
// sequence-number scheme so producers and consumers can make progress
// without a shared lock.
type cell struct {
	seq uint64
	_   [56]byte
	val Job
}

// ring is a bounded lock-free MPMC queue of Jobs.
type ring struct {
	_       [64]byte
	mask    uint64
	_       [64]byte
	enqueue uint64
	_       [64]byte
	dequeue uint64
	_       [64]byte
	cells   []cell
}

func newRing(capacity int) *ring {
	c := 2
	for c < capacity {
		c <<= 1
	}

	r := &ring{mask: uint64(c - 1), cells: make([]cell, c)}
	for i := range r.cells {
		r.cells[i].seq = uint64(i)
	}

	return r
}

func (r *ring) push(j Job) bool {
	for {
		pos := atomic.LoadUint64(&r.enqueue)
		c := &r.cells[pos&r.mask]
		seq := atomic.LoadUint64(&c.seq)

		switch diff := int64(seq) - int64(pos); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&r.enqueue, pos, pos+1) {
				c.val = j
				atomic.StoreUint64(&c.seq, pos+1)

				return true
			}
		case diff < 0:
			return false
		default:
			runtime.Gosched()
		}
	}
}

func (r *ring) pop() (Job, bool) {
	for {
		pos := atomic.LoadUint64(&r.dequeue)
		c := &r.cells[pos&r.mask]
		seq := atomic.LoadUint64(&c.seq)

		switch diff := int64(seq) - int64(pos+1); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&r.dequeue, pos, pos+1) {
				j := c.val
				c.val = nil
				atomic.StoreUint64(&c.seq, pos+r.mask+1)

				return j, true
			}
		case diff < 0:
			return nil, false
		default:
			runtime.Gosched()
		}
	}
}

// Queue fans jobs out across W per-worker rings plus one shared
// overflow ring, and tracks how many workers are currently idle so
// producers can decide whether a job is worth splitting before
// enqueuing it: splitting a job nobody is waiting for just adds
// overhead.
type Queue struct {
	workers []*ring
	overflow *ring
	idle    atomic.Int64
	closed  atomic.Bool
}

// New builds a Queue sized for w workers, each with ring capacity capacity
// (rounded up to a power of two) plus a shared overflow ring of the
// same capacity.
func New(w, capacity int) *Queue {
	if w < 1 {
		w = 1
	}

	q := &Queue{workers: make([]*ring, w), overflow: newRing(capacity)}
	for i := range q.workers {
		q.workers[i] = newRing(capacity)
	}

	return q
}

// Workers reports how many per-worker rings this queue owns.
func (q *Queue) Workers() int { return len(q.workers) }

// Enqueue offers j to worker i's own ring first, then falls back to
// the shared overflow ring if that worker's ring is full.
func (q *Queue) Enqueue(i int, j Job) bool {
	if i >= 0 && i < len(q.workers) && q.workers[i].push(j) {
		return true
	}

	return q.overflow.push(j)
}

// HasIdle reports whether any worker is currently idle — the hint a
// merge job consults before paying the cost of splitting itself to
// share work, per §6's SHARE_WORK_THRESHOLD policy.
func (q *Queue) HasIdle() bool { return q.idle.Load() > 0 }

// MarkIdle and MarkBusy bracket a worker's steal-attempt loop so
// HasIdle reflects live occupancy rather than a stale snapshot.
func (q *Queue) MarkIdle() { q.idle.Add(1) }
func (q *Queue) MarkBusy() { q.idle.Add(-1) }

// Dequeue pops from worker i's own ring, then the overflow ring, then
// attempts to steal from every other worker's ring in turn. Returns
// false only once nothing is found anywhere.
func (q *Queue) Dequeue(i int) (Job, bool) {
	if i >= 0 && i < len(q.workers) {
		if j, ok := q.workers[i].pop(); ok {
			return j, true
		}
	}

	if j, ok := q.overflow.pop(); ok {
		return j, true
	}

	for off := 1; off < len(q.workers); off++ {
		victim := (i + off) % len(q.workers)
		if victim == i {
			continue
		}

		if j, ok := q.workers[victim].pop(); ok {
			return j, true
		}
	}

	return nil, false
}

// Close marks the queue as drained; workers observe this via Closed
// once Dequeue has returned false on a full sweep, so they know to
// stop polling rather than spin forever.
func (q *Queue) Close() { q.closed.Store(true) }

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool { return q.closed.Load() }
