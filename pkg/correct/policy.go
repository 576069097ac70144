package correct

import (
	"fmt"

	"github.com/ocrforge/correctocr/pkg/decode"
	"github.com/ocrforge/correctocr/pkg/dictionary"
	"github.com/ocrforge/correctocr/pkg/token"
)

// Policy maps each of the nine bins to an action (spec.md §4.4). Bins
// absent from the map default to DecisionAnnotate, the safe choice for a
// misconfigured policy.
type Policy map[token.Bin]token.Decision

// DefaultPolicy is a conservative starting point: accept the original
// when it is already confirmed correct (bin 1) or confidently unflagged
// (bin 2), take the first in-dictionary candidate when the top candidate
// is in the dictionary (bins 4 and 7), otherwise defer to a human
// annotator.
func DefaultPolicy() Policy {
	return Policy{
		1: token.DecisionOriginal,
		2: token.DecisionOriginal,
		3: token.DecisionAnnotate,
		4: token.DecisionDictionary,
		5: token.DecisionAnnotate,
		6: token.DecisionAnnotate,
		7: token.DecisionDictionary,
		8: token.DecisionAnnotate,
		9: token.DecisionAnnotate,
	}
}

func (p Policy) actionFor(bin token.Bin) token.Decision {
	if d, ok := p[bin]; ok {
		return d
	}
	return token.DecisionAnnotate
}

// Apply classifies t and resolves it against policy and dict, mutating
// t in place (spec.md §4.4 "Output per token"). When the resolved action
// is DecisionAnnotate, or is DecisionDictionary with no in-dictionary
// candidate to fall back on, t.NeedsAnnotation is set and t.Final is
// left empty.
func Apply(t *token.Token, policy Policy, dict *dictionary.Dictionary) {
	t.Bin = Bin(t.Original, t.KBest, dict)
	decision := policy.actionFor(t.Bin)

	switch decision {
	case token.DecisionOriginal:
		t.Decision = token.DecisionOriginal
		t.Final = t.Original
	case token.DecisionTop:
		t.Decision = token.DecisionTop
		t.Final = topCandidate(t.KBest)
	case token.DecisionDictionary:
		if c, ok := firstInDictionary(t.KBest, dict); ok {
			t.Decision = token.DecisionDictionary
			t.Final = c
		} else {
			t.Decision = token.DecisionAnnotate
			t.NeedsAnnotation = true
		}
	default:
		t.Decision = token.DecisionAnnotate
		t.NeedsAnnotation = true
	}
}

func topCandidate(kbest []decode.KBestEntry) string {
	if len(kbest) == 0 {
		return ""
	}
	return kbest[0].Candidate
}

func firstInDictionary(kbest []decode.KBestEntry, d *dictionary.Dictionary) (string, bool) {
	for _, e := range kbest {
		if d.Contains(e.Candidate) {
			return e.Candidate, true
		}
	}
	return "", false
}

// Validate reports a descriptive error if policy assigns an unrecognized
// action to any bin (spec.md §4.4 actions are limited to {o, k, d, a}).
func (p Policy) Validate() error {
	valid := map[token.Decision]bool{
		token.DecisionOriginal:   true,
		token.DecisionTop:        true,
		token.DecisionDictionary: true,
		token.DecisionAnnotate:   true,
	}
	for bin, action := range p {
		if !valid[action] {
			return fmt.Errorf("correct: bin %d has unknown action %q", bin, action)
		}
	}
	return nil
}
