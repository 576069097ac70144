package rules

import "testing"

func TestNewDropsMalformedEntries(t *testing.T) {
	s := New(map[string][]string{
		"rn": {"m", ""},
		"":   {"x"},
		"cl": {"d"},
	})
	pairs := s.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("expected 2 surviving pairs, got %d: %v", len(pairs), pairs)
	}
}

func TestFindOccurrencesNoCascade(t *testing.T) {
	s := New(map[string][]string{
		"rn": {"m"},
		"n":  {"m"},
	})
	// Pairs are tried in sorted gold order, so "n" claims each "m" first
	// and "rn" never matches the same span again.
	occs := s.FindOccurrences("modem")
	if len(occs) != 2 || occs[0].GoldSub != "n" || occs[1].GoldSub != "n" {
		t.Fatalf("expected two n<-m occurrences in %q, got %v", "modem", occs)
	}

	occs = s.FindOccurrences("mouse")
	if len(occs) != 1 || occs[0].GoldSub != "n" {
		t.Fatalf("expected a single n<-m occurrence, got %v", occs)
	}
}

func TestExpandRewritesOccurrence(t *testing.T) {
	s := New(map[string][]string{"rn": {"m"}})
	got := s.Expand("mouse")
	if len(got) != 1 || got[0] != "rnouse" {
		t.Fatalf("Expand(%q) = %v, want [rnouse]", "mouse", got)
	}
}

func TestExpandNoRules(t *testing.T) {
	s := New(nil)
	if got := s.Expand("mouse"); len(got) != 0 {
		t.Fatalf("expected no hypotheses from an empty rule set, got %v", got)
	}
}

func TestFingerprintStableAcrossMapOrder(t *testing.T) {
	a := New(map[string][]string{"rn": {"m"}, "cl": {"d"}})
	b := New(map[string][]string{"cl": {"d"}, "rn": {"m"}})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprint depends on map iteration order")
	}
}

func TestFingerprintChangesWithRules(t *testing.T) {
	a := New(map[string][]string{"rn": {"m"}})
	b := New(map[string][]string{"rn": {"m"}, "cl": {"d"}})
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("fingerprint did not change when a rule was added")
	}
}
