// Package hmm builds and serializes the hidden Markov model that drives
// decoding: states are gold characters, observations are noisy characters
// (spec.md §3, §4.2).
package hmm

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ocrforge/correctocr/pkg/alphabet"
)

// invariantTolerance is the ±ε the spec allows row sums to drift by
// (spec.md §4.2, §8: "within ε (10⁻⁹)").
const invariantTolerance = 1e-9

// DefaultLambda is the additive emission-smoothing parameter (spec.md §6).
const DefaultLambda = 1e-6

// ErrInconsistentModel is returned when a row of Π, A or B does not sum to
// 1 within invariantTolerance — a "model inconsistency" error that is
// fatal at load time (spec.md §7).
var ErrInconsistentModel = errors.New("hmm: model fails row-sum invariant")

// HMM is the trained model: states and observations are both indexed over
// the same alphabet (Σ∪E), matching spec.md §4.2's definition of B over
// (Σ∪E)².
type HMM struct {
	Alphabet *alphabet.Alphabet
	Lambda   float64

	// Pi[s] is the initial probability of state s.
	Pi []float64
	// A[s1][s2] is the transition probability from s1 to s2.
	A [][]float64
	// B[s][o] is the probability of state s emitting observation o.
	B [][]float64
}

// Unknown is the implicit fallback "state" for runes outside the
// alphabet: a uniform 1/|Σ| emission, per spec.md §4.3.1. It carries no
// row in A or B; callers test for alphabet.Unknown and apply
// UnknownEmissionLogProb directly.
func (h *HMM) UnknownEmissionLogProb() float64 {
	if h.Alphabet.Len() == 0 {
		return negInf
	}
	return -logf(float64(h.Alphabet.Len()))
}

// EmissionLogProb returns log B[state][obs], using the uniform fallback
// when obs is alphabet.Unknown.
func (h *HMM) EmissionLogProb(state, obs int) float64 {
	if obs == alphabet.Unknown {
		return h.UnknownEmissionLogProb()
	}
	return logf(h.B[state][obs])
}

// InitialLogProb returns log Pi[state], using the uniform fallback when
// state is alphabet.Unknown (spec.md §4.3.1's unknown-symbol treatment,
// extended to a hidden state that itself falls outside the alphabet —
// needed when scoring a substitution hypothesis built from characters
// the trained alphabet never saw).
func (h *HMM) InitialLogProb(state int) float64 {
	if state == alphabet.Unknown {
		return h.UnknownEmissionLogProb()
	}
	return logf(h.Pi[state])
}

// TransitionLogProb returns log A[from][to], using the uniform fallback
// when either side is alphabet.Unknown.
func (h *HMM) TransitionLogProb(from, to int) float64 {
	if from == alphabet.Unknown || to == alphabet.Unknown {
		return h.UnknownEmissionLogProb()
	}
	return logf(h.A[from][to])
}

// Validate checks the HMM's probabilistic invariants: Σ Π(c) = 1, every
// row of A sums to 1, every row of B sums to 1 (spec.md §8), each within
// invariantTolerance. It is the load-time gate described in spec.md §7.
func (h *HMM) Validate() error {
	n := h.Alphabet.Len()
	if len(h.Pi) != n || len(h.A) != n || len(h.B) != n {
		return fmt.Errorf("%w: dimension mismatch (|Σ|=%d, |Π|=%d, |A|=%d, |B|=%d)",
			ErrInconsistentModel, n, len(h.Pi), len(h.A), len(h.B))
	}
	if sum := floats.Sum(h.Pi); !floats.EqualWithinAbs(sum, 1, invariantTolerance) {
		return fmt.Errorf("%w: Π sums to %v, want 1±%v", ErrInconsistentModel, sum, invariantTolerance)
	}
	for i, row := range h.A {
		if len(row) != n {
			return fmt.Errorf("%w: A row %d has %d columns, want %d", ErrInconsistentModel, i, len(row), n)
		}
		if sum := floats.Sum(row); !floats.EqualWithinAbs(sum, 1, invariantTolerance) {
			return fmt.Errorf("%w: A[%c] sums to %v, want 1±%v", ErrInconsistentModel, h.Alphabet.Symbol(i), sum, invariantTolerance)
		}
	}
	for i, row := range h.B {
		if len(row) != n {
			return fmt.Errorf("%w: B row %d has %d columns, want %d", ErrInconsistentModel, i, len(row), n)
		}
		if sum := floats.Sum(row); !floats.EqualWithinAbs(sum, 1, invariantTolerance) {
			return fmt.Errorf("%w: B[%c] sums to %v, want 1±%v", ErrInconsistentModel, h.Alphabet.Symbol(i), sum, invariantTolerance)
		}
	}
	return nil
}
