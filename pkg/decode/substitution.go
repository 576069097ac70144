package decode

import (
	"github.com/ocrforge/correctocr/pkg/align"
)

// mergeSubstitutions folds the substitution rule set's hypotheses for
// token into best (spec.md §4.3.2). Each hypothesis w' is scored as a
// fixed hidden-state path (its own characters) emitting the observed
// token w — not re-decoded from scratch, since that would score w'
// producing itself rather than w' producing w. Lengths can differ
// between w' and w, so the two are first aligned with the same
// Needleman-Wunsch machinery pkg/align uses for training (spec.md
// §4.3.2: "treating insertions/deletions by the ε-gap scoring reused
// from §4.1").
func (d *Decoder) mergeSubstitutions(token string, best map[string]float64) {
	if d.rules == nil || d.rules.Empty() {
		return
	}
	for _, hypothesis := range d.rules.Expand(token) {
		score, ok := d.scoreHypothesis(hypothesis, token)
		if !ok {
			continue
		}
		if cur, exists := best[hypothesis]; !exists || score > cur {
			best[hypothesis] = score
		}
	}
}

// scoreHypothesis returns the log-probability of the HMM emitting
// token's characters along the hidden-state path implied by
// hypothesis's characters (spec.md §4.3.2's "joint probability of w'
// producing w"). hypothesis supplies the states (via Pi/A), token
// supplies the observations (via B); a deletion (state with no aligned
// observation) contributes only the state's transition, and an
// insertion (observation with no aligned state) is emitted by the most
// recent state, or, when it precedes every state, scored with the same
// uniform fallback the decoder already uses for characters outside the
// alphabet.
func (d *Decoder) scoreHypothesis(hypothesis, token string) (float64, bool) {
	if hypothesis == "" || token == "" {
		return 0, false
	}

	pairs := align.Align(hypothesis, token, align.DefaultOptions()).Alignment

	score := 0.0
	state := -1
	haveState := false
	for _, pair := range pairs {
		if pair.Gold != 0 {
			idx := d.hmm.Alphabet.Index(pair.Gold)
			if !haveState {
				score += d.hmm.InitialLogProb(idx)
			} else {
				score += d.hmm.TransitionLogProb(state, idx)
			}
			state, haveState = idx, true
		}
		if pair.Noisy != 0 {
			obsIdx := d.hmm.Alphabet.Index(pair.Noisy)
			if !haveState {
				score += d.hmm.UnknownEmissionLogProb()
			} else {
				score += d.hmm.EmissionLogProb(state, obsIdx)
			}
		}
	}
	return score, true
}
