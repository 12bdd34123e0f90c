// Command pss is the CLI driver for the parallel string sample sort
// library: it enumerates and invokes the registered contestants by
// name, reads tuning overrides from flags, and sorts newline-delimited
// byte strings from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/orizon-lang/pss"
	"github.com/orizon-lang/pss/tuning"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "help", "-h", "--help":
		usage()
	case "list":
		must(runList(args))
	case "sort":
		must(runSort(args))
	case "bench":
		must(runBench(args))
	default:
		fmt.Fprintf(os.Stderr, "pss: unknown subcommand %q\n\n", sub)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`pss - parallel string sample sort CLI

Usage:
  pss list                 List every registered contestant.
  pss sort [flags]          Sort newline-delimited strings from stdin.
  pss bench [flags]         Stress-test every contestant and report timings.
  pss help                  Show this message.`)
}

func must(err error) {
	if err != nil {
		log.Fatalf("pss: %v", err)
	}
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	_ = fs.Parse(args)

	for _, c := range pss.ListContestants() {
		fmt.Printf("%-24s %-8s family=%s\n", c.Name, c.Version.String(), c.Family)
	}

	return nil
}

func runSort(args []string) error {
	fs := flag.NewFlagSet("sort", flag.ExitOnError)
	contestant := fs.String("contestant", pss.DefaultContestant, "registered contestant name (see `pss list`)")
	showLCP := fs.Bool("lcp", false, "print each line's LCP with its predecessor, tab-separated")
	cfg := tuning.FlagSet(fs)
	_ = fs.Parse(args)

	pss.SetTuning(*cfg)

	lines, err := readLines(os.Stdin)
	if err != nil {
		return err
	}

	strs := make([][]byte, len(lines))
	for i, l := range lines {
		strs[i] = []byte(l)
	}

	lcp := make([]uint64, len(strs))
	if err := pss.SortNamed(*contestant, strs, lcp); err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for i, s := range strs {
		if *showLCP && i > 0 {
			fmt.Fprintf(w, "%d\t%s\n", lcp[i], s)
		} else {
			fmt.Fprintf(w, "%s\n", s)
		}
	}

	return nil
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	n := fs.Int("n", 100000, "number of random strings to generate")
	length := fs.Int("length", 16, "length of each random string")
	seed := fs.Int64("seed", 1234567, "random seed")
	cfg := tuning.FlagSet(fs)
	_ = fs.Parse(args)

	pss.SetTuning(*cfg)

	rng := rand.New(rand.NewSource(*seed))
	str := make([][]byte, *n)

	for i := range str {
		str[i] = randomBytes(rng, *length)
	}

	contestants := pss.ListContestants()
	names := make([]string, len(contestants))

	for i, c := range contestants {
		names[i] = c.Name
	}

	sort.Strings(names)

	for _, name := range names {
		cp := make([][]byte, len(str))
		for i, s := range str {
			cp[i] = append([]byte(nil), s...)
		}

		lcp := make([]uint64, len(cp))
		start := time.Now()

		err := pss.SortNamed(name, cp, lcp)

		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-24s FAILED: %v\n", name, err)
			continue
		}

		fmt.Printf("%-24s %s\n", name, elapsed)
	}

	return nil
}

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}

	return b
}

func readLines(f *os.File) ([]string, error) {
	var lines []string

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		lines = append(lines, strings.Clone(sc.Text()))
	}

	return lines, sc.Err()
}
