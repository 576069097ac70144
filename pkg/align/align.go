// Package align computes global character alignments between noisy OCR
// output and human-corrected gold text, and tallies the resulting
// per-character misreads that pkg/hmm trains on (spec.md §4.1).
package align

import (
	"github.com/dustin/go-humanize"
)

// Pair is one aligned column: a gold character and a noisy character, at
// least one of which may be the gap symbol alphabet.Gap. (g, ε) is a
// deletion (the OCR dropped a gold character); (ε, n) is an insertion (the
// OCR introduced a character with no gold counterpart). (ε, ε) never
// occurs.
type Pair struct {
	Gold  rune
	Noisy rune
}

// Alignment is an ordered sequence of aligned columns, gold-to-noisy.
type Alignment []Pair

// Gold reconstructs G by dropping the gap symbol from the gold column.
func (a Alignment) Gold() string {
	rs := make([]rune, 0, len(a))
	for _, p := range a {
		if p.Gold != gapRune {
			rs = append(rs, p.Gold)
		}
	}
	return string(rs)
}

// Noisy reconstructs N by dropping the gap symbol from the noisy column.
func (a Alignment) Noisy() string {
	rs := make([]rune, 0, len(a))
	for _, p := range a {
		if p.Noisy != gapRune {
			rs = append(rs, p.Noisy)
		}
	}
	return string(rs)
}

// gapRune is the alignment placeholder. Defined locally (rather than
// importing pkg/alphabet) to keep this package free of a dependency it
// doesn't otherwise need; the value must stay in sync with
// alphabet.Gap — enforced by TestGapRuneMatchesAlphabet.
const gapRune rune = 0

// Scoring holds the fixed Needleman-Wunsch scores from spec.md §4.1.
// There is exactly one Scoring value in normal use (DefaultScoring); the
// type exists so tests can exercise the traceback tie-break rule with
// degenerate scores without touching production code paths.
type Scoring struct {
	Match    int
	Mismatch int
	Gap      int
}

// DefaultScoring is the scoring scheme mandated by spec.md §4.1: match
// +2, mismatch -1, gap -1.
var DefaultScoring = Scoring{Match: 2, Mismatch: -1, Gap: -1}

func (s Scoring) score(g, n rune) int {
	if g == n {
		return s.Match
	}
	return s.Mismatch
}

// Options configures an alignment run.
type Options struct {
	// Scoring is the match/mismatch/gap scoring scheme. Zero value uses
	// DefaultScoring.
	Scoring Scoring
	// AnchorLength is the minimum exact-match run length used to chunk
	// large inputs (spec.md §4.1, default 5).
	AnchorLength int
	// CellBudget is the largest |G|*|N| the aligner will run full
	// Needleman-Wunsch over before switching to anchor chunking. Zero
	// means unlimited.
	CellBudget int
}

// DefaultOptions mirrors spec.md's stated defaults: anchor length 5, no
// cell budget (whole documents aligned as single strings unless the
// caller opts into chunking).
func DefaultOptions() Options {
	return Options{Scoring: DefaultScoring, AnchorLength: 5, CellBudget: 0}
}

func (o Options) normalized() Options {
	if o.Scoring == (Scoring{}) {
		o.Scoring = DefaultScoring
	}
	if o.AnchorLength <= 0 {
		o.AnchorLength = 5
	}
	return o
}

// Result is the aligner's output: the full alignment plus the misread
// tally derived from it.
type Result struct {
	Alignment Alignment
	Counts    MisreadCount
}

// Align computes the optimal global alignment between gold and noisy
// strings under opts, chunking on exact-match anchors when the DP table
// would exceed opts.CellBudget. Align never fails: empty inputs produce
// an empty or all-gap/all-insertion alignment (spec.md §4.1 "Failures").
func Align(gold, noisy string, opts Options) Result {
	opts = opts.normalized()
	g := []rune(gold)
	n := []rune(noisy)

	if len(g) == 0 && len(n) == 0 {
		return Result{Alignment: nil, Counts: MisreadCount{}}
	}

	var chunks [][2][]rune
	if opts.CellBudget > 0 && len(g)*len(n) > opts.CellBudget {
		chunks = chunkOnAnchors(g, n, opts.AnchorLength)
	} else {
		chunks = [][2][]rune{{g, n}}
	}

	var full Alignment
	counts := MisreadCount{}
	for _, c := range chunks {
		a := needlemanWunsch(c[0], c[1], opts.Scoring)
		full = append(full, a...)
		counts.addAlignment(a)
	}
	return Result{Alignment: full, Counts: counts}
}

// needlemanWunsch aligns g against n with the given scoring, breaking
// ties diagonal > up > left (spec.md §4.1 — "part of the contract", must
// survive refactors). The tie-break is resolved against the globally
// optimal path, not each cell's local predecessor in isolation: a local
// per-cell choice can pick a direction that is individually tied but
// whose resulting alignment places the preferred operation later than an
// equally-scored alternative (spec.md §8 scenario 2, G="rn" N="m",
// requires (r,m),(n,ε) over the equally-scored (r,ε),(n,m)). This is
// resolved by pairing the usual prefix-optimal table h with a
// suffix-optimal table, then walking forward from (0,0) and at each step
// taking whichever available move still lies on an optimal path,
// checking diagonal before up before left.
func needlemanWunsch(g, n []rune, sc Scoring) Alignment {
	rows, cols := len(g)+1, len(n)+1
	if rows == 1 && cols == 1 {
		return nil
	}

	h := make([][]int, rows)
	for i := range h {
		h[i] = make([]int, cols)
	}
	for i := 1; i < rows; i++ {
		h[i][0] = h[i-1][0] + sc.Gap
	}
	for j := 1; j < cols; j++ {
		h[0][j] = h[0][j-1] + sc.Gap
	}
	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			diagScore := h[i-1][j-1] + sc.score(g[i-1], n[j-1])
			upScore := h[i-1][j] + sc.Gap
			leftScore := h[i][j-1] + sc.Gap
			h[i][j] = max3(diagScore, upScore, leftScore)
		}
	}

	suffix := make([][]int, rows)
	for i := range suffix {
		suffix[i] = make([]int, cols)
	}
	for i := rows - 2; i >= 0; i-- {
		suffix[i][cols-1] = suffix[i+1][cols-1] + sc.Gap
	}
	for j := cols - 2; j >= 0; j-- {
		suffix[rows-1][j] = suffix[rows-1][j+1] + sc.Gap
	}
	for i := rows - 2; i >= 0; i-- {
		for j := cols - 2; j >= 0; j-- {
			diagScore := suffix[i+1][j+1] + sc.score(g[i], n[j])
			upScore := suffix[i+1][j] + sc.Gap
			leftScore := suffix[i][j+1] + sc.Gap
			suffix[i][j] = max3(diagScore, upScore, leftScore)
		}
	}

	return forwardTraceback(g, n, sc, h, suffix)
}

func max3(a, b, c int) int {
	best := a
	if b > best {
		best = b
	}
	if c > best {
		best = c
	}
	return best
}

// forwardTraceback reconstructs the alignment by walking from (0,0)
// toward (len(g),len(n)), at each cell taking the first of
// diagonal/up/left (in that order) whose combined prefix score (h),
// step score and suffix score still sums to the global optimum. Walking
// forward, rather than backward from the end, is what makes an earliest-
// occurring diagonal win a tie over a later one (see needlemanWunsch).
func forwardTraceback(g, n []rune, sc Scoring, h, suffix [][]int) Alignment {
	rows, cols := len(h), len(h[0])
	optimal := h[rows-1][cols-1]
	i, j := 0, 0
	out := make(Alignment, 0, len(g)+len(n))

	for i < rows-1 || j < cols-1 {
		switch {
		case i < rows-1 && j < cols-1 && h[i][j]+sc.score(g[i], n[j])+suffix[i+1][j+1] == optimal:
			out = append(out, Pair{Gold: g[i], Noisy: n[j]})
			i++
			j++
		case i < rows-1 && h[i][j]+sc.Gap+suffix[i+1][j] == optimal:
			out = append(out, Pair{Gold: g[i], Noisy: gapRune})
			i++
		case j < cols-1 && h[i][j]+sc.Gap+suffix[i][j+1] == optimal:
			out = append(out, Pair{Gold: gapRune, Noisy: n[j]})
			j++
		default:
			// Only reachable if h and suffix disagree on the optimum,
			// which would mean a defective scoring table; defend against
			// it rather than looping forever.
			if i < rows-1 {
				out = append(out, Pair{Gold: g[i], Noisy: gapRune})
				i++
			} else {
				out = append(out, Pair{Gold: gapRune, Noisy: n[j]})
				j++
			}
		}
	}
	return out
}

// CellBudgetDiagnostic renders a human-readable explanation of why an
// alignment was chunked, for callers that want to log the decision
// (spec.md explicitly places logging out of the core's scope, so this is
// a pure string builder, not a logger).
func CellBudgetDiagnostic(goldLen, noisyLen, budget int) string {
	cells := goldLen * noisyLen
	return "alignment cell count " + humanize.Comma(int64(cells)) +
		" exceeds budget " + humanize.Comma(int64(budget)) +
		"; chunking on anchors"
}
