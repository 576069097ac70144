package correct

import (
	"testing"

	"github.com/ocrforge/correctocr/pkg/decode"
	"github.com/ocrforge/correctocr/pkg/dictionary"
)

func entries(ss ...string) []decode.KBestEntry {
	out := make([]decode.KBestEntry, len(ss))
	for i, s := range ss {
		out[i] = decode.KBestEntry{Candidate: s, LogProb: -float64(i)}
	}
	return out
}

// Scenario 6 from spec.md §8.
func TestBinScenario6(t *testing.T) {
	d := dictionary.New([]string{"the", "thc"}, true)
	bin := Bin("the", entries("the", "thc"), d)
	if bin != 1 {
		t.Fatalf("bin = %d, want 1", bin)
	}
}

// Scenario 7 from spec.md §8.
func TestBinScenario7(t *testing.T) {
	d := dictionary.New([]string{"Wagon"}, true)
	bin := Bin("Wagor", entries("Wagor", "Vagor", "Wagon"), d)
	if bin != 3 {
		t.Fatalf("bin = %d, want 3", bin)
	}
}

func TestBinTotalityOverAllReachableTuples(t *testing.T) {
	// Exhaustively construct every reachable (P1..P4) combination and
	// confirm each maps to exactly one bin in 1..9 (spec.md §8 "Binner
	// totality"). P1 forces P2 == P3 (spec.md §8 "Binner consistency"),
	// so tuples violating that are skipped as unreachable.
	for _, p1 := range []bool{true, false} {
		for _, p2 := range []bool{true, false} {
			for _, p3 := range []bool{true, false} {
				for _, p4 := range []bool{true, false} {
					if p1 && p2 != p3 {
						continue
					}
					bin := binFromPredicates(predicates{p1: p1, p2: p2, p3: p3, p4: p4})
					if bin < 1 || bin > 9 {
						t.Fatalf("predicates %+v produced out-of-range bin %d", predicates{p1, p2, p3, p4}, bin)
					}
				}
			}
		}
	}
}

// binFromPredicates exposes the bin table directly against a predicates
// value, for exhaustively testing spec.md §4.4's table independent of
// how a particular (original, kbest, dictionary) triple produces it.
func binFromPredicates(p predicates) int {
	switch {
	case p.p1 && p.p2:
		return 1
	case p.p1 && !p.p2 && !p.p4:
		return 2
	case p.p1 && !p.p2 && p.p4:
		return 3
	case !p.p1 && !p.p2 && p.p3:
		return 4
	case !p.p1 && !p.p2 && !p.p3 && !p.p4:
		return 5
	case !p.p1 && !p.p2 && !p.p3 && p.p4:
		return 6
	case !p.p1 && p.p2 && p.p3:
		return 7
	case !p.p1 && p.p2 && !p.p3 && !p.p4:
		return 8
	default:
		return 9
	}
}

func TestBinEmptyKBestIsBin5Or8(t *testing.T) {
	// No candidates at all: top candidate is "", never equal to a
	// non-empty original, and never in the dictionary.
	d := dictionary.New([]string{"cat"}, true)
	bin := Bin("dog", nil, d)
	if bin != 5 {
		t.Fatalf("bin = %d, want 5", bin)
	}
	bin = Bin("cat", nil, d)
	if bin != 8 {
		t.Fatalf("bin = %d, want 8", bin)
	}
}
