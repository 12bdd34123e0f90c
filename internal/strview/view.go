// Package strview implements the StringPtr view (C1): a borrowed window
// over caller-owned byte-string pointers, a same-shaped shadow buffer for
// ping-pong recursion, and the per-string LCP array. The sorts in this
// module work on plain []Str and []uint64 slices and do not use View or
// CacheView; they use Str and the byte helpers below.
package strview

// Str is a single NUL-terminated byte string. In Go there is no need for an
// explicit terminator byte: the slice length already bounds the string, and
// PackKey below zero-pads past that bound to reproduce the same lexical
// ordering the terminator gives in the source implementation.
type Str = []byte

// View bundles strings, a same-length shadow buffer, and the LCP array that
// the sort algorithms mutate freely. It owns none of the backing storage;
// the caller guarantees strings, shadow and lcp all outlive the call.
type View struct {
	front  []Str
	back   []Str
	lcp    []uint64
	active bool // true: front is the live (output) side
}

// New wraps caller-owned strings/shadow/lcp into a View. front and shadow
// must have identical length; lcp must have the same length too.
func New(strings, shadow []Str, lcp []uint64) *View {
	return &View{front: strings, back: shadow, lcp: lcp, active: true}
}

// Size returns n, the number of strings in the view.
func (v *View) Size() int { return len(v.Live()) }

// Live returns the slice currently holding the authoritative (sorted so
// far, or input) strings.
func (v *View) Live() []Str {
	if v.active {
		return v.front
	}
	return v.back
}

// Shadow returns the slice currently playing the role of scratch buffer.
func (v *View) Shadow() []Str {
	if v.active {
		return v.back
	}
	return v.front
}

// LCP returns the LCP array. lcp[0] is reserved for caller use and is
// never read or written by any algorithm in this module.
func (v *View) LCP() []uint64 { return v.lcp }

// Flip swaps which side is live, without touching contents.
func (v *View) Flip() { v.active = !v.active }

// Active reports which side (true = front) is currently live, so sibling
// recursions can agree on where their outputs must land.
func (v *View) Active() bool { return v.active }

// Sub returns a view over the sub-range [lo,hi) of the receiver, sharing
// backing storage and preserving the active flag.
func (v *View) Sub(lo, hi int) *View {
	return &View{
		front:  v.front[lo:hi],
		back:   v.back[lo:hi],
		lcp:    v.lcp[lo:hi],
		active: v.active,
	}
}

// CacheView extends View with a per-string distinguishing-character cache:
// cache[j] == s[j][lcp[j]] when lcp[j] < len(s[j]), else 0. It has no
// shadow side, only a single strings slice plus LCP and cache. The
// parallel LCP-merge driver (C9) does not use it: its loser-tree runs
// carry strings and LCPs only, with no character cache.
type CacheView struct {
	Strings []Str
	LCP     []uint64
	Cache   []byte
}

// NewCacheView builds a CacheView and fills the cache from strings/lcp.
func NewCacheView(strings []Str, lcp []uint64) *CacheView {
	cv := &CacheView{Strings: strings, LCP: lcp, Cache: make([]byte, len(strings))}
	cv.Refresh()
	return cv
}

// Refresh recomputes Cache[j] for all j from Strings/LCP. Call after any
// external mutation of Strings or LCP.
func (cv *CacheView) Refresh() {
	for j, s := range cv.Strings {
		l := cv.LCP[j]
		if l < uint64(len(s)) {
			cv.Cache[j] = s[l]
		} else {
			cv.Cache[j] = 0
		}
	}
}

// Empty reports whether the run behind this cache view has no strings left.
func (cv *CacheView) Empty() bool { return len(cv.Strings) == 0 }

// Sub returns the sub-run [lo,hi) of the receiver.
func (cv *CacheView) Sub(lo, hi int) *CacheView {
	return &CacheView{
		Strings: cv.Strings[lo:hi],
		LCP:     cv.LCP[lo:hi],
		Cache:   cv.Cache[lo:hi],
	}
}

// ByteAt returns the byte of s at offset off, or 0 past the end of s — the
// zero-padding convention that keeps unsigned-integer key comparison
// aligned with lexicographic string comparison.
func ByteAt(s Str, off int) byte {
	if off < len(s) {
		return s[off]
	}
	return 0
}

// PackKey loads the 8 bytes of s starting at depth into a big-endian
// unsigned integer, zero-padding past the end of s. Big-endian packing
// means unsigned integer comparison of two keys agrees with lexicographic
// comparison of the underlying bytes, including the zero-padding acting as
// an implicit string terminator.
func PackKey(s Str, depth int) uint64 {
	var key uint64

	for i := 0; i < 8; i++ {
		key = key<<8 | uint64(ByteAt(s, depth+i))
	}

	return key
}

// CommonPrefix returns the length of the shared leading byte sequence of a
// and b.
func CommonPrefix(a, b Str) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	return i
}

// Compare returns -1, 0, +1 as a is less than, equal to, or greater than b,
// lexicographically over bytes with a shorter-is-smaller tie-break
// (matching NUL-terminated C string comparison semantics).
func Compare(a, b Str) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
