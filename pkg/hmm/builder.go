package hmm

import (
	"github.com/ocrforge/correctocr/pkg/align"
	"github.com/ocrforge/correctocr/pkg/alphabet"
)

// Builder accumulates the training evidence (misread counts and a gold
// corpus) and produces an HMM from it (spec.md §4.2).
type Builder struct {
	counts    align.MisreadCount
	corpus    []string
	extension []rune
	lambda    float64
}

// NewBuilder creates a Builder with the default emission-smoothing
// parameter (spec.md §6: λ default 10⁻⁶). Use WithLambda to override it.
func NewBuilder() *Builder {
	return &Builder{counts: align.MisreadCount{}, lambda: DefaultLambda}
}

// WithLambda overrides the Lidstone smoothing parameter.
func (b *Builder) WithLambda(lambda float64) *Builder {
	b.lambda = lambda
	return b
}

// WithExtension registers the extension character set E (spec.md §3):
// rare characters present in the corpus but not necessarily observed
// during training.
func (b *Builder) WithExtension(extra []rune) *Builder {
	b.extension = append(b.extension, extra...)
	return b
}

// AddMisreads folds a batch of misread counts (typically one per aligned
// document pair) into the accumulated training evidence.
func (b *Builder) AddMisreads(counts align.MisreadCount) *Builder {
	b.counts.Merge(counts)
	return b
}

// AddGoldTokens registers gold tokens used to estimate Π and A (spec.md
// §4.2's "corpus of gold strings"). Each string is one token (word);
// bigrams for A are counted within a token, never across a token
// boundary.
func (b *Builder) AddGoldTokens(tokens ...string) *Builder {
	b.corpus = append(b.corpus, tokens...)
	return b
}

// Build estimates Π, A and B from the accumulated evidence and returns
// the resulting HMM. The base alphabet Σ is the union of the characters
// on both sides (gold and noisy) of the misread counts and of the gold
// corpus (spec.md §4.2 names MisreadCount's keys as the canonical source; this
// builder additionally folds in corpus characters so that every
// character Π/A need to score actually has a state — see DESIGN.md),
// extended with any characters passed to WithExtension.
func (b *Builder) Build() (*HMM, error) {
	chars := b.counts.GoldChars()
	for p := range b.counts {
		chars = append(chars, p.Noisy) // alphabet.New drops the gap symbol
	}
	sigma := alphabet.Union(alphabet.New(chars), alphabet.FromStrings(b.corpus...))
	sigma = sigma.Extend(b.extension)

	pi := estimateInitial(sigma, b.corpus)
	a := estimateTransition(sigma, b.corpus)
	bMat := estimateEmission(sigma, b.counts, b.lambda)

	h := &HMM{Alphabet: sigma, Lambda: b.lambda, Pi: pi, A: a, B: bMat}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// estimateInitial computes Π(c) = (1 + count of tokens starting with c)) /
// (|Σ| + total tokens), Laplace-smoothed (spec.md §4.2).
func estimateInitial(sigma *alphabet.Alphabet, tokens []string) []float64 {
	n := sigma.Len()
	pi := make([]float64, n)
	startCounts := make([]float64, n)
	for _, tok := range tokens {
		rs := []rune(tok)
		if len(rs) == 0 {
			continue
		}
		if idx := sigma.Index(rs[0]); idx != alphabet.Unknown {
			startCounts[idx]++
		}
	}
	denom := float64(n) + float64(len(tokens))
	for i := range pi {
		pi[i] = (1 + startCounts[i]) / denom
	}
	return pi
}

// estimateTransition computes A(c1,c2) = (1 + bigram count) /
// (|Σ| + unigram count of c1), Laplace-smoothed (spec.md §4.2). The
// unigram count of c1 is the number of bigrams c1 opens (its occurrences
// followed by another character in the same token), so every row sums
// to 1; bigram counts only pair consecutive characters within the same
// token.
func estimateTransition(sigma *alphabet.Alphabet, tokens []string) [][]float64 {
	n := sigma.Len()
	bigram := make([][]float64, n)
	unigram := make([]float64, n)
	for i := range bigram {
		bigram[i] = make([]float64, n)
	}

	for _, tok := range tokens {
		rs := []rune(tok)
		for i := 0; i+1 < len(rs); i++ {
			idx := sigma.Index(rs[i])
			j := sigma.Index(rs[i+1])
			if idx != alphabet.Unknown && j != alphabet.Unknown {
				unigram[idx]++
				bigram[idx][j]++
			}
		}
	}

	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
		denom := float64(n) + unigram[i]
		for j := range a[i] {
			a[i][j] = (1 + bigram[i][j]) / denom
		}
	}
	return a
}

// estimateEmission computes B(g,n) with Lidstone smoothing: every cell
// seeded with lambda, observed MisreadCount added, rows normalized
// (spec.md §4.2).
func estimateEmission(sigma *alphabet.Alphabet, counts align.MisreadCount, lambda float64) [][]float64 {
	n := sigma.Len()
	b := make([][]float64, n)
	for i := range b {
		b[i] = make([]float64, n)
		for j := range b[i] {
			b[i][j] = lambda
		}
	}

	for pair, c := range counts {
		gi := sigma.Index(pair.Gold)
		ni := sigma.Index(pair.Noisy)
		if gi == alphabet.Unknown || ni == alphabet.Unknown {
			// A gap on either side falls outside Σ∪E; spec.md §4.2 bounds
			// B to (Σ∪E)², so this count cannot be placed and is dropped.
			continue
		}
		b[gi][ni] += float64(c)
	}

	for i := range b {
		rowSum := 0.0
		for _, v := range b[i] {
			rowSum += v
		}
		if rowSum == 0 {
			continue
		}
		for j := range b[i] {
			b[i][j] /= rowSum
		}
	}
	return b
}
