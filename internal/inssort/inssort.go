// Package inssort implements the LCP-aware insertion sort (C2): the base
// case for both the sequential mergesort and sample sort recursions.
package inssort

import "github.com/orizon-lang/pss/internal/strview"

// Sort sorts str[0:n) in place and fills lcp[1:n) with the LCP of each
// string against its sorted predecessor. lcp[0] is preserved. depth is the
// number of leading bytes already known to be shared by every string in
// str (inherited from the caller's recursion), so comparisons start past
// that offset instead of re-scanning it.
//
// This is Bingmann's three-case insertion sort: track cur_lcp, the LCP
// already recorded between each pair of adjacent sorted strings, and
// new_lcp, the LCP so far established between the key being inserted and
// its current insertion point. Case 1 (cur_lcp < new_lcp) means the
// predecessor is already known to be smaller on bytes already resolved —
// stop without comparing further. Case 2 (cur_lcp == new_lcp) extends the
// comparison byte by byte. Case 3 (cur_lcp > new_lcp) means the
// predecessor's own predecessor agreed with it on more bytes than the new
// key does, so the new key is smaller — keep shifting.
func Sort(str []strview.Str, lcp []uint64, depth int) {
	n := len(str)
	if n <= 1 {
		return
	}

	for j := 0; j < n; j++ {
		newStr := str[j]
		newLCP := depth

		i := j
		for i > 0 {
			prevLCP := newLCP
			curStr := str[i-1]
			curLCP := int(lcp[i])

			if curLCP < newLCP {
				break // case 1
			} else if curLCP == newLCP {
				// case 2: extend the comparison from offset newLCP
				for newLCP < len(newStr) && newLCP < len(curStr) && newStr[newLCP] == curStr[newLCP] {
					newLCP++
				}

				if byteAt(newStr, newLCP) >= byteAt(curStr, newLCP) {
					lcp[i] = uint64(newLCP)
					newLCP = prevLCP
					break
				}
			}
			// case 3 (curLCP > newLCP), or case 2 with the new key smaller:
			// predecessor is larger, shift it up and keep going

			str[i] = curStr
			if i+1 < n {
				lcp[i+1] = uint64(curLCP)
			}
			i--
		}

		str[i] = newStr
		if i+1 < n {
			lcp[i+1] = uint64(newLCP)
		}
	}
}

// byteAt returns s[off], or 0 if off is past the end of s — the same
// zero-as-terminator convention used throughout the merge/classify paths,
// so a shorter string that is a strict prefix of a longer one compares as
// smaller.
func byteAt(s strview.Str, off int) byte {
	if off < len(s) {
		return s[off]
	}
	return 0
}
