// Command pss-smoke is a parallel-string-sorting smoke test: for a
// handful of string-count scales it generates random alphanumeric
// strings with a deterministic linear-congruential generator, sorts
// them with every registered contestant, and checks sortedness and the
// LCP array; it does not check that the output is a permutation of the
// input. It exits non-zero on the first failure,
// mirroring the pass/fail-per-scale shape of the upstream project's
// own sorting smoke test.
package main

import (
	"fmt"
	"os"

	"github.com/orizon-lang/pss"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// lcgRandom is a minimal linear-congruential generator, deterministic
// across platforms and Go versions (unlike math/rand's algorithm,
// which the standard library reserves the right to change).
type lcgRandom struct{ state uint64 }

func newLCGRandom(seed uint64) *lcgRandom { return &lcgRandom{state: seed} }

func (r *lcgRandom) next() uint64 {
	r.state = r.state*0x5deece66d + 0xb
	return r.state
}

func fillRandom(rng *lcgRandom, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[(rng.next()/100)%uint64(len(alphabet))]
	}

	return b
}

func generate(nstrings, nchars int) [][]byte {
	rng := newLCGRandom(1234567)
	out := make([][]byte, nstrings)

	for i := range out {
		slen := nchars + int((rng.next()>>8)%uint64(nchars/4+1))
		out[i] = fillRandom(rng, slen)
	}

	return out
}

func checkSorted(strs [][]byte) error {
	for i := 1; i < len(strs); i++ {
		if string(strs[i-1]) > string(strs[i]) {
			return fmt.Errorf("not sorted at index %d: %q > %q", i, strs[i-1], strs[i])
		}
	}

	return nil
}

func checkLCP(strs [][]byte, lcp []uint64) error {
	for i := 1; i < len(strs); i++ {
		want := uint64(commonPrefix(strs[i-1], strs[i]))
		if lcp[i] != want {
			return fmt.Errorf("lcp[%d] = %d, want %d", i, lcp[i], want)
		}
	}

	return nil
}

func commonPrefix(a, b []byte) int {
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

func testScale(nstrings int) error {
	input := generate(nstrings, 16)

	for _, c := range pss.ListContestants() {
		strs := make([][]byte, len(input))
		for i, s := range input {
			strs[i] = append([]byte(nil), s...)
		}

		lcp := make([]uint64, len(strs))

		if err := pss.SortNamed(c.Name, strs, lcp); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}

		if err := checkSorted(strs); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}

		if err := checkLCP(strs, lcp); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}

	return nil
}

func main() {
	scales := []int{16, 256, 65550, 1024 * 1024}

	for _, n := range scales {
		if err := testScale(n); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL nstrings=%d: %v\n", n, err)
			os.Exit(1)
		}

		fmt.Printf("PASS nstrings=%d contestants=%d\n", n, len(pss.ListContestants()))
	}
}
