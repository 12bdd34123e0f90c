//go:build linux

package jobqueue

import "golang.org/x/sys/unix"

// PinToNode pins the calling OS thread to the processors listed for a
// NUMA node, following the same "build-tagged unix syscall, generic
// fallback elsewhere" split the runtime's zero-copy transport code
// uses for platform-specific fast paths. The caller must already be
// locked to its OS thread (runtime.LockOSThread) since affinity is a
// per-thread, not per-goroutine, kernel property.
func PinToNode(processors []int) error {
	var set unix.CPUSet

	set.Zero()
	for _, p := range processors {
		set.Set(p)
	}

	return unix.SchedSetaffinity(0, &set)
}

// SupportsPinning reports whether PinToNode can do real pinning on
// this platform.
func SupportsPinning() bool { return true }
