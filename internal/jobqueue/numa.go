package jobqueue

import "runtime"

// Node describes one NUMA node's worker assignment: which OS
// processors belong to it and which worker indices within a Queue are
// pinned to it. This is a deliberately narrow slice of the runtime's
// own NUMANode concept — just enough to route workers to processors,
// not the full topology/bandwidth/migration model the compiler
// runtime tracks for its own allocator.
type Node struct {
	ID        int
	Processors []int
	Workers   []int
}

// DefaultTopology assigns GOMAXPROCS workers round-robin across n
// nodes when the platform doesn't expose real NUMA distances; callers
// on a NUMA-aware host should build Nodes from their own topology
// query instead and pass that to NumaLoop.
func DefaultTopology(n int) []Node {
	if n < 1 {
		n = 1
	}

	procs := runtime.GOMAXPROCS(0)
	nodes := make([]Node, n)

	for i := 0; i < procs; i++ {
		node := i % n
		nodes[node].ID = node
		nodes[node].Processors = append(nodes[node].Processors, i)
		nodes[node].Workers = append(nodes[node].Workers, i)
	}

	return nodes
}

// NumaLoop runs the steal/execute loop for worker index w, pinned to
// node's processor set, until the queue closes and a full sweep finds
// nothing left. It locks the calling goroutine to its OS thread for
// the lifetime of the loop so PinToNode's affinity setting actually
// sticks.
func NumaLoop(q *Queue, node Node, w int) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if SupportsPinning() {
		_ = PinToNode(node.Processors)
	}

	if Verbose {
		logger.Printf("worker %d starting, pinned to node %d (%d processors)", w, node.ID, len(node.Processors))
	}

	for {
		job, ok := q.Dequeue(w)
		if !ok {
			if q.Closed() {
				if Verbose {
					logger.Printf("worker %d exiting, queue closed and drained", w)
				}

				return
			}

			q.MarkIdle()
			runtime.Gosched()
			q.MarkBusy()

			continue
		}

		job.Run()
	}
}
