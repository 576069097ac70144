// Package alphabet provides the dense character-to-index mapping shared by
// the aligner, the HMM and the decoder. The rest of the core indexes
// probability tables by integer, not by rune; this package is the single
// place that owns the rune<->index side table (see DESIGN.md, "Dynamic
// character keys").
package alphabet

import (
	"fmt"
	"sort"
)

// Gap is the alignment placeholder symbol ε (spec.md §3). It is never a
// member of an Alphabet's symbol set.
const Gap rune = 0

// Unknown is returned by Index for runes outside the alphabet. Callers
// handle it via the uniform-emission fallback described in spec.md §4.3.1.
const Unknown int = -1

// Alphabet is a finite, ordered set of characters (spec.md §3, Σ) with a
// stable rune<->index mapping. The mapping is fixed at construction time
// and never mutates afterwards, so it is safe to share across goroutines.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// New builds an Alphabet from the given runes, deduplicating and ordering
// them deterministically (sorted by code point) so that two Alphabets built
// from the same set always assign the same indices — this determinism is
// what makes HMM fingerprinting (pkg/hmm) reproducible.
func New(chars []rune) *Alphabet {
	seen := make(map[rune]struct{}, len(chars))
	uniq := make([]rune, 0, len(chars))
	for _, c := range chars {
		if c == Gap {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	a := &Alphabet{
		symbols: uniq,
		index:   make(map[rune]int, len(uniq)),
	}
	for i, c := range uniq {
		a.index[c] = i
	}
	return a
}

// FromStrings collects the rune set observed across a slice of strings and
// builds an Alphabet from it. Used to derive Σ from a gold corpus or from
// the keys of a MisreadCount table (spec.md §4.2).
func FromStrings(ss ...string) *Alphabet {
	var chars []rune
	for _, s := range ss {
		chars = append(chars, []rune(s)...)
	}
	return New(chars)
}

// Extend returns a new Alphabet containing the receiver's symbols plus any
// extra runes not already present (spec.md §3's "configurable extension
// set"). The receiver is left unmodified.
func (a *Alphabet) Extend(extra []rune) *Alphabet {
	all := make([]rune, 0, len(a.symbols)+len(extra))
	all = append(all, a.symbols...)
	all = append(all, extra...)
	return New(all)
}

// Len returns |Σ|.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// Symbols returns a copy of the alphabet in index order; Symbols()[i] is
// the character at index i.
func (a *Alphabet) Symbols() []rune {
	out := make([]rune, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Index returns the dense index of r, or Unknown if r is not in the
// alphabet.
func (a *Alphabet) Index(r rune) int {
	if i, ok := a.index[r]; ok {
		return i
	}
	return Unknown
}

// Contains reports whether r is a member of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Symbol returns the character at index i. It panics on an out-of-range
// index, matching the package's contract that indices only ever come from
// Index or from a loop bounded by Len.
func (a *Alphabet) Symbol(i int) rune {
	if i < 0 || i >= len(a.symbols) {
		panic(fmt.Sprintf("alphabet: index %d out of range [0,%d)", i, len(a.symbols)))
	}
	return a.symbols[i]
}

// Union returns the alphabet containing every symbol present in either
// input, ordered deterministically.
func Union(a, b *Alphabet) *Alphabet {
	all := make([]rune, 0, a.Len()+b.Len())
	all = append(all, a.Symbols()...)
	all = append(all, b.Symbols()...)
	return New(all)
}
