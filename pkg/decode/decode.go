// Package decode implements k-best Viterbi decoding of a noisy token
// against a trained HMM, plus substitution-rule expansion of the
// resulting candidate list (spec.md §4.3).
package decode

import (
	"math"
	"sort"

	"github.com/ocrforge/correctocr/pkg/hmm"
	"github.com/ocrforge/correctocr/pkg/rules"
)

// KBestEntry is one ranked decoding candidate.
type KBestEntry struct {
	Candidate string
	LogProb   float64
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithRules attaches a substitution rule set whose hypotheses are merged
// into every Decode call's result (spec.md §4.3.2).
func WithRules(rs *rules.Set) Option {
	return func(d *Decoder) { d.rules = rs }
}

// Decoder runs k-best Viterbi decoding against a fixed HMM.
type Decoder struct {
	hmm   *hmm.HMM
	k     int
	rules *rules.Set
}

// New builds a Decoder. k is the number of candidates returned per call
// and must be positive.
func New(h *hmm.HMM, k int, opts ...Option) *Decoder {
	d := &Decoder{hmm: h, k: k}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the top-k gold-string candidates for token, highest
// log-probability first, with a deterministic lexicographic tie-break
// (spec.md §4.3.1, §8). If token admits fewer than k distinct paths the
// result is padded with ("", -Inf) entries (spec.md §9); the exact
// behavior for this case is unspecified upstream, so this package
// mandates the padding convention.
func (d *Decoder) Decode(token string) []KBestEntry {
	best := d.bestByCandidate([]rune(token))
	d.mergeSubstitutions(token, best)

	out := make([]KBestEntry, 0, len(best))
	for candidate, score := range best {
		out = append(out, KBestEntry{Candidate: candidate, LogProb: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LogProb != out[j].LogProb {
			return out[i].LogProb > out[j].LogProb
		}
		return out[i].Candidate < out[j].Candidate
	})

	if len(out) > d.k {
		out = out[:d.k]
	}
	for len(out) < d.k {
		out = append(out, KBestEntry{Candidate: "", LogProb: math.Inf(-1)})
	}
	return out
}

// bestByCandidate runs k-best Viterbi over obs and collapses the lattice's
// final column into a map of distinct candidate strings to their best
// score, deduplicating paths that reconverge on the same gold string.
func (d *Decoder) bestByCandidate(obs []rune) map[string]float64 {
	best := make(map[string]float64)
	if len(obs) == 0 {
		return best
	}
	table := viterbiKBest(obs, d.hmm, d.k)
	last := table[len(obs)-1]
	for _, cells := range last {
		for _, c := range cells {
			if cur, ok := best[c.prefix]; !ok || c.score > cur {
				best[c.prefix] = c.score
			}
		}
	}
	return best
}
