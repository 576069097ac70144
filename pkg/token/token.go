// Package token defines the per-token record that flows through
// decoding, binning and correction (spec.md §3 "Token").
package token

import "github.com/ocrforge/correctocr/pkg/decode"

// Bin is one of the nine heuristic correction bins (spec.md §4.4).
type Bin int

// Decision is the action a bin's policy selected for a token.
type Decision string

const (
	// DecisionOriginal accepts the token's original (noisy) string.
	DecisionOriginal Decision = "o"
	// DecisionTop accepts the top k-best candidate.
	DecisionTop Decision = "k"
	// DecisionDictionary accepts the best in-dictionary candidate.
	DecisionDictionary Decision = "d"
	// DecisionAnnotate defers the token to a human annotator.
	DecisionAnnotate Decision = "a"
)

// Token is the unit of correction: an original string plus every
// attribute derived from it as it passes through the pipeline.
// Positional Index preserves per-document token order (spec.md §4.4
// "Ordering guarantees"); it is assigned by the tokenizer, which is out
// of scope here.
type Token struct {
	Index    int
	Original string

	KBest []decode.KBestEntry
	Bin   Bin

	Decision        Decision
	Final           string
	NeedsAnnotation bool

	Gold       string
	Hyphenated bool
	Discarded  bool
}
