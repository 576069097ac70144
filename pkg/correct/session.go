package correct

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ocrforge/correctocr/pkg/dictionary"
	"github.com/ocrforge/correctocr/pkg/token"
)

// memoKey identifies a memoized annotator decision. File is empty when a
// decision is not scoped to a specific document (spec.md §4.4
// "Memoization": "optionally scoped to the current file").
type memoKey struct {
	original string
	file     string
}

// Session is one annotator's working state over a corpus: a private,
// copy-on-write dictionary seeded from the shared one, and a table of
// memoized decisions so that repeated occurrences of the same original
// string auto-resolve (spec.md §4.4, §5).
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	memo     map[memoKey]string
	tempDict *dictionary.Dictionary
	scoped   bool
}

// NewSession opens an annotator session against base, a snapshot of
// which becomes the session's temp dictionary. scopedToFile controls
// whether memoized decisions are shared across an entire corpus or only
// within the file they were made in.
func NewSession(base *dictionary.Dictionary, scopedToFile bool) *Session {
	return &Session{
		ID:       uuid.New(),
		memo:     make(map[memoKey]string),
		tempDict: base.Snapshot(),
		scoped:   scopedToFile,
	}
}

// Seed pre-populates the session's memoization table from an existing
// global "memorised corrections" map (spec.md §4.4).
func (s *Session) Seed(corrections map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for original, final := range corrections {
		s.memo[memoKey{original: original}] = final
	}
}

func (s *Session) key(original, file string) memoKey {
	if s.scoped {
		return memoKey{original: original, file: file}
	}
	return memoKey{original: original}
}

// Lookup returns a previously memoized decision for original within
// file, if one exists.
func (s *Session) Lookup(original, file string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	final, ok := s.memo[s.key(original, file)]
	return final, ok
}

// Resolve records a human annotator's decision for t, memoizing it for
// future occurrences of the same original string and promoting it into
// the session's temp dictionary so later dictionary-based binning in
// this session benefits from it.
func (s *Session) Resolve(t *token.Token, file, final string) {
	t.Decision = token.DecisionAnnotate
	t.Final = final
	t.NeedsAnnotation = false

	s.mu.Lock()
	s.memo[s.key(t.Original, file)] = final
	s.mu.Unlock()

	s.tempDict.Add(final)
}

// Dictionary returns the session's private, copy-on-write dictionary.
func (s *Session) Dictionary() *dictionary.Dictionary {
	return s.tempDict
}

// ApplyMemoized resolves t from the session's memo table if a prior
// decision exists, returning true if it did. Callers should try this
// before falling back to Apply.
func (s *Session) ApplyMemoized(t *token.Token, file string) bool {
	final, ok := s.Lookup(t.Original, file)
	if !ok {
		return false
	}
	t.Decision = token.DecisionAnnotate
	t.Final = final
	t.NeedsAnnotation = false
	return true
}
