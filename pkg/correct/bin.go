// Package correct implements the heuristic binner and per-bin correction
// policy that turns decoder output and a dictionary into a final token
// decision (spec.md §4.4).
package correct

import (
	"github.com/ocrforge/correctocr/pkg/decode"
	"github.com/ocrforge/correctocr/pkg/dictionary"
	"github.com/ocrforge/correctocr/pkg/token"
)

// predicates holds the four boolean predicates a token's (original,
// k-best, dictionary) triple is classified by (spec.md §4.4).
type predicates struct {
	p1 bool // top candidate equals original
	p2 bool // original is in dictionary
	p3 bool // top candidate is in dictionary
	p4 bool // some lower-ranked candidate is in dictionary
}

func evaluate(original string, kbest []decode.KBestEntry, d *dictionary.Dictionary) predicates {
	var top string
	if len(kbest) > 0 {
		top = kbest[0].Candidate
	}

	p := predicates{
		p1: top == original,
		p2: d.Contains(original),
		p3: d.Contains(top),
	}
	for i := 1; i < len(kbest); i++ {
		if d.Contains(kbest[i].Candidate) {
			p.p4 = true
			break
		}
	}
	return p
}

// Bin classifies a token by the exact table in spec.md §4.4. The table
// is total: every reachable (P1..P4) tuple maps to one of nine bins, and
// the binner consistency invariant P1 ⇒ (P2 ⇔ P3) holds because P1 means
// the top candidate and the original are the same string, so dictionary
// membership of one implies membership of the other.
func Bin(original string, kbest []decode.KBestEntry, d *dictionary.Dictionary) token.Bin {
	p := evaluate(original, kbest, d)

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
	default: // !p1 && p2 && !p3 && p4
		return 9
	}
}
