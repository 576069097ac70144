// Package pipeline orchestrates the two batch dataflows described by
// spec.md §5: training (Aligner -> HMM Builder) and inference
// (Decoder -> Binner), each fanned out over a bounded worker pool.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ocrforge/correctocr/pkg/align"
	"github.com/ocrforge/correctocr/pkg/correct"
	"github.com/ocrforge/correctocr/pkg/decode"
	"github.com/ocrforge/correctocr/pkg/dictionary"
	"github.com/ocrforge/correctocr/pkg/hmm"
	"github.com/ocrforge/correctocr/pkg/logx"
	"github.com/ocrforge/correctocr/pkg/normalize"
	"github.com/ocrforge/correctocr/pkg/token"
)

// TrainingPair is one parallel (gold, noisy) document pair consumed by
// BuildModel.
type TrainingPair struct {
	Gold  string
	Noisy string
}

// BuildModel aligns every pair concurrently (spec.md §5: "the aligner is
// serial per document pair but trivially parallel across pairs"),
// merges their misread counts, and trains an HMM from the result.
// concurrency bounds how many pairs align at once; a value <= 0 means
// unbounded.
func BuildModel(ctx context.Context, pairs []TrainingPair, concurrency int, opts align.Options, builderOpts ...BuilderOption) (*hmm.HMM, error) {
	counts := make([]align.MisreadCount, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := align.Align(pair.Gold, pair.Noisy, opts)
			counts[i] = result.Counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: align training pairs: %w", err)
	}

	merged := align.MisreadCount{}
	golds := make([]string, 0, len(pairs))
	for i, pair := range pairs {
		merged.Merge(counts[i])
		golds = append(golds, pair.Gold)
	}

	b := hmm.NewBuilder().AddMisreads(merged).AddGoldTokens(golds...)
	for _, opt := range builderOpts {
		opt(b)
	}
	return b.Build()
}

// BuilderOption configures the hmm.Builder used by BuildModel, letting
// callers set lambda or extension characters without this package
// needing to know every hmm.Builder knob.
type BuilderOption func(*hmm.Builder)

// WithLambda forwards to hmm.Builder.WithLambda.
func WithLambda(lambda float64) BuilderOption {
	return func(b *hmm.Builder) { b.WithLambda(lambda) }
}

// WithExtension forwards to hmm.Builder.WithExtension.
func WithExtension(extra []rune) BuilderOption {
	return func(b *hmm.Builder) { b.WithExtension(extra) }
}

// Document is one tokenized unit of input. Tokenization itself is out of
// scope (spec.md §3 "created by the tokenizer (external)"); Document
// just carries the already-split tokens in their original order.
type Document struct {
	Path   string
	Tokens []string
}

// Pipeline runs the inference dataflow: decode each token, then bin and
// resolve it.
type Pipeline struct {
	Decoder *decode.Decoder
	Dict    *dictionary.Dictionary
	Policy  correct.Policy
	Session *correct.Session
	Log     logx.Logger
}

// ProcessDocument decodes and resolves every token in doc concurrently,
// bounded by concurrency (<= 0 means unbounded), while preserving the
// document's original token order in the returned slice (spec.md §4.4
// "Ordering guarantees": "the decoder/binner must not reorder").
func (p *Pipeline) ProcessDocument(ctx context.Context, doc Document, concurrency int) ([]*token.Token, error) {
	tokens := make([]*token.Token, len(doc.Tokens))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, original := range doc.Tokens {
		i, original := i, original
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tokens[i] = p.resolveToken(i, original, doc.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: process document %s: %w", doc.Path, err)
	}
	return tokens, nil
}

func (p *Pipeline) resolveToken(index int, original, file string) *token.Token {
	if folded, changed := normalize.NFKC(original); changed {
		if p.Log != nil {
			p.Log.Warnf("token %d in %s normalized from stylistic Unicode: %q -> %q", index, file, original, folded)
		}
		original = folded
	}

	t := &token.Token{Index: index, Original: original}

	if p.Session != nil {
		if p.Session.ApplyMemoized(t, file) {
			return t
		}
	}

	t.KBest = p.Decoder.Decode(original)

	dict := p.Dict
	if p.Session != nil {
		dict = p.Session.Dictionary()
	}
	correct.Apply(t, p.Policy, dict)
	return t
}

// ProcessCorpus fans out ProcessDocument across docs, bounded by
// docConcurrency at the document level and tokenConcurrency within each
// document (spec.md §5: "per-token within a document, per-document
// across a corpus"). Results preserve the input document order.
func (p *Pipeline) ProcessCorpus(ctx context.Context, docs []Document, docConcurrency, tokenConcurrency int) ([][]*token.Token, error) {
	results := make([][]*token.Token, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	if docConcurrency > 0 {
		g.SetLimit(docConcurrency)
	}
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			tokens, err := p.ProcessDocument(ctx, doc, tokenConcurrency)
			if err != nil {
				return err
			}
			results[i] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
