package decode

import (
	"math"

	"github.com/ocrforge/correctocr/pkg/hmm"
)

// cell is one (time, state, rank) entry of the k-best Viterbi lattice
// (spec.md §4.3.1's δ[t,s,r]). prevState/prevRank are the backpointer;
// prefix is the gold string implied by the path ending here, kept
// incrementally rather than reconstructed by a backward walk since state
// indices map 1:1 onto alphabet symbols.
type cell struct {
	score     float64
	prefix    string
	prevState int
	prevRank  int
}

// viterbiKBest runs k-best Viterbi over obs (spec.md §4.3.1). It returns
// the full (time, state, rank) lattice; callers read table[len(obs)-1] to
// gather the global top-k endpoints.
func viterbiKBest(obs []rune, h *hmm.HMM, k int) [][][]cell {
	n := h.Alphabet.Len()
	t := len(obs)
	table := make([][][]cell, t)
	if t == 0 || n == 0 {
		return table
	}

	obsIdx := make([]int, t)
	for i, r := range obs {
		obsIdx[i] = h.Alphabet.Index(r)
	}

	table[0] = make([][]cell, n)
	for s := 0; s < n; s++ {
		score := hmm.LogOf(h.Pi[s]) + h.EmissionLogProb(s, obsIdx[0])
		table[0][s] = []cell{{
			score:     score,
			prefix:    string(h.Alphabet.Symbol(s)),
			prevState: -1,
			prevRank:  -1,
		}}
	}

	for ti := 1; ti < t; ti++ {
		table[ti] = make([][]cell, n)
		for s := 0; s < n; s++ {
			lb := newLeaderboard(k)
			for sp := 0; sp < n; sp++ {
				transition := hmm.LogOf(h.A[sp][s])
				for rp, prev := range table[ti-1][sp] {
					if math.IsInf(prev.score, -1) {
						continue
					}
					score := prev.score + transition + h.EmissionLogProb(s, obsIdx[ti])
					prefix := prev.prefix + string(h.Alphabet.Symbol(s))
					lb.offer(score, prefix, backLink{state: sp, rank: rp})
				}
			}
			ranked := lb.entries()
			cells := make([]cell, len(ranked))
			for r, e := range ranked {
				bl := e.payload.(backLink)
				cells[r] = cell{score: e.score, prefix: e.prefix, prevState: bl.state, prevRank: bl.rank}
			}
			table[ti][s] = cells
		}
	}

	return table
}

type backLink struct {
	state int
	rank  int
}
