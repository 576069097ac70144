package decode

import (
	"math"
	"testing"

	"github.com/ocrforge/correctocr/pkg/align"
	"github.com/ocrforge/correctocr/pkg/hmm"
	"github.com/ocrforge/correctocr/pkg/rules"
)

// identityHMM builds a tiny HMM where every character reads itself with
// near-certainty, used by spec.md §8 scenario 4.
func identityHMM(t *testing.T) *hmm.HMM {
	t.Helper()
	counts := align.MisreadCount{
		{Gold: 'a', Noisy: 'a'}: 50,
		{Gold: 'b', Noisy: 'b'}: 50,
		{Gold: 'c', Noisy: 'c'}: 50,
	}
	h, err := hmm.NewBuilder().
		WithLambda(1e-6).
		AddMisreads(counts).
		AddGoldTokens("abc", "bca", "cab", "aabbcc").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return h
}

func TestDecodeIdentityHMMTopCandidateIsInput(t *testing.T) {
	h := identityHMM(t)
	d := New(h, 3)

	got := d.Decode("abc")
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Candidate != "abc" {
		t.Fatalf("top candidate = %q, want %q", got[0].Candidate, "abc")
	}
	for i := 1; i < len(got); i++ {
		if got[i].LogProb > got[i-1].LogProb {
			t.Fatalf("entries not sorted descending: %v", got)
		}
	}
}

func TestDecodePadsShortResultsWithNegInf(t *testing.T) {
	h := identityHMM(t)
	d := New(h, 50)

	got := d.Decode("a")
	if len(got) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(got))
	}
	last := got[len(got)-1]
	if last.Candidate != "" || !math.IsInf(last.LogProb, -1) {
		t.Fatalf("expected padding entry (\"\", -Inf), got %+v", last)
	}
}

func TestDecodeEmptyToken(t *testing.T) {
	h := identityHMM(t)
	d := New(h, 2)
	got := d.Decode("")
	if len(got) != 2 {
		t.Fatalf("expected 2 padded entries, got %d", len(got))
	}
	for _, e := range got {
		if e.Candidate != "" || !math.IsInf(e.LogProb, -1) {
			t.Fatalf("expected all-padding result for empty token, got %+v", got)
		}
	}
}

func TestDecodeDeterministic(t *testing.T) {
	h := identityHMM(t)
	d := New(h, 5)
	a := d.Decode("cab")
	b := d.Decode("cab")
	if len(a) != len(b) {
		t.Fatalf("result length changed across calls")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs across identical calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

// Scenario 5 from spec.md §8: a substitution rule proposes a gold
// candidate for the token by rewriting a noisy "m" back to "rn".
func TestDecodeSubstitutionInjectsCandidate(t *testing.T) {
	counts := align.MisreadCount{
		{Gold: 'r', Noisy: 'r'}: 20,
		{Gold: 'r', Noisy: 'm'}: 1,
		{Gold: 'n', Noisy: 'n'}: 20,
		{Gold: 'n', Noisy: 'm'}: 1,
		{Gold: 'm', Noisy: 'm'}: 20,
		{Gold: 'o', Noisy: 'o'}: 20,
		{Gold: 'u', Noisy: 'u'}: 20,
		{Gold: 's', Noisy: 's'}: 20,
		{Gold: 'e', Noisy: 'e'}: 20,
	}
	h, err := hmm.NewBuilder().
		AddMisreads(counts).
		AddGoldTokens("modern", "mouse", "mode", "corner").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rs := rules.New(map[string][]string{"rn": {"m"}})

	// "moderm" has no real gold reading, but rewriting its trailing "m"
	// to "rn" yields "modern", a token the HMM was trained on. Merging
	// substitution hypotheses into the candidate pool only ever adds or
	// raises entries (mergeSubstitutions keeps the existing score unless
	// a hypothesis beats it), so the merged top score can never fall
	// below the rule-free top score, and "modern" itself must be in the
	// merged k-best list.
	withRules := New(h, 3, WithRules(rs)).Decode("moderm")
	withoutRules := New(h, 3).Decode("moderm")

	if len(withRules) != 3 || len(withoutRules) != 3 {
		t.Fatalf("expected 3-best decodes, got %v / %v", withRules, withoutRules)
	}
	if withRules[0].LogProb < withoutRules[0].LogProb {
		t.Fatalf("substitution merge made the top score worse: with=%v without=%v",
			withRules[0], withoutRules[0])
	}

	sawModern := false
	for _, e := range withRules {
		if e.Candidate == "modern" {
			sawModern = true
		}
	}
	if !sawModern {
		t.Fatalf("expected \"modern\" among rule-merged candidates, got %v", withRules)
	}
}

func TestDecodeNoRulesConfiguredIsStable(t *testing.T) {
	h := identityHMM(t)
	d := New(h, 2)
	got := d.Decode("ab")
	if got[0].Candidate == "" {
		t.Fatalf("expected a real top candidate, got %+v", got[0])
	}
}
