//go:build sortdebug

package sorterr

// Assert panics with err when ok is false. Only compiled into builds
// tagged sortdebug, matching §7's "fatal abort with a diagnostic in debug
// builds" for internal-invariant violations (loser-tree tournament,
// bucket permutation, or splitter-tree index arithmetic finding a
// corrupt state).
func Assert(ok bool, err *SortError) {
	if !ok {
		panic(err)
	}
}
