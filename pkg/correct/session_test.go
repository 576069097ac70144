package correct

import (
	"testing"

	"github.com/ocrforge/correctocr/pkg/dictionary"
	"github.com/ocrforge/correctocr/pkg/token"
)

func TestSessionMemoizesAcrossTokens(t *testing.T) {
	s := NewSession(dictionary.New(nil, true), false)
	tok1 := &token.Token{Original: "Wagor", NeedsAnnotation: true}
	s.Resolve(tok1, "doc1.txt", "Wagon")

	tok2 := &token.Token{Original: "Wagor", NeedsAnnotation: true}
	if !s.ApplyMemoized(tok2, "doc2.txt") {
		t.Fatal("expected corpus-scoped memo to resolve a second document's occurrence")
	}
	if tok2.Final != "Wagon" {
		t.Fatalf("Final = %q, want %q", tok2.Final, "Wagon")
	}
}

func TestSessionFileScopedMemoDoesNotCrossFiles(t *testing.T) {
	s := NewSession(dictionary.New(nil, true), true)
	tok1 := &token.Token{Original: "Wagor"}
	s.Resolve(tok1, "doc1.txt", "Wagon")

	tok2 := &token.Token{Original: "Wagor"}
	if s.ApplyMemoized(tok2, "doc2.txt") {
		t.Fatal("file-scoped memo should not resolve a different file's occurrence")
	}
	if s.ApplyMemoized(tok2, "doc1.txt") {
		// same file: should resolve
	} else {
		t.Fatal("file-scoped memo should resolve a repeat occurrence within the same file")
	}
}

func TestSessionPromotesIntoTempDictionary(t *testing.T) {
	base := dictionary.New(nil, true)
	s := NewSession(base, false)
	tok := &token.Token{Original: "Wagor"}
	s.Resolve(tok, "doc.txt", "Wagon")

	if !s.Dictionary().Contains("Wagon") {
		t.Fatal("expected resolved correction to be promoted into the session's temp dictionary")
	}
	if base.Contains("Wagon") {
		t.Fatal("the shared base dictionary must not be mutated by a session")
	}
}

func TestSessionSeed(t *testing.T) {
	s := NewSession(dictionary.New(nil, true), false)
	s.Seed(map[string]string{"teh": "the"})

	final, ok := s.Lookup("teh", "any.txt")
	if !ok || final != "the" {
		t.Fatalf("expected seeded memo to resolve, got (%q, %v)", final, ok)
	}
}
