package hmm

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ocrforge/correctocr/pkg/align"
)

// Scenario 3 from spec.md §8.
func TestBuildSmoke(t *testing.T) {
	counts := align.MisreadCount{
		{Gold: 'a', Noisy: 'a'}: 3,
		{Gold: 'b', Noisy: 'b'}: 1,
		{Gold: 'b', Noisy: 'd'}: 1,
		{Gold: 'c', Noisy: 'c'}: 1,
	}
	h, err := NewBuilder().
		AddMisreads(counts).
		AddGoldTokens("ab", "ab", "ac").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ai := h.Alphabet.Index('a')
	bi := h.Alphabet.Index('b')
	di := h.Alphabet.Index('d')

	n := float64(h.Alphabet.Len())

	wantPiA := (1 + 3) / (n + 3)
	if math.Abs(h.Pi[ai]-wantPiA) > 1e-9 {
		t.Errorf("Pi[a] = %v, want %v", h.Pi[ai], wantPiA)
	}

	wantAab := (1 + 2) / (n + 3) // 'a' opens 3 bigrams: ab, ab, ac
	if math.Abs(h.A[ai][bi]-wantAab) > 1e-9 {
		t.Errorf("A[a][b] = %v, want %v", h.A[ai][bi], wantAab)
	}

	if h.B[bi][di] <= 0 {
		t.Errorf("B[b][d] should be positive, got %v", h.B[bi][di])
	}
	if h.B[bi][bi] <= h.B[bi][di] {
		t.Errorf("B[b][b] = %v should exceed B[b][d] = %v", h.B[bi][bi], h.B[bi][di])
	}
}

func TestBuildValidates(t *testing.T) {
	h, err := NewBuilder().
		AddMisreads(align.MisreadCount{{Gold: 'x', Noisy: 'x'}: 5}).
		AddGoldTokens("x", "xx").
		WithExtension([]rune{'y', 'z'}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := h.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if h.Alphabet.Len() != 3 {
		t.Fatalf("expected alphabet {x,y,z}, got %d symbols", h.Alphabet.Len())
	}
	// Extension characters with no training data emit uniformly.
	yi := h.Alphabet.Index('y')
	want := 1.0 / 3.0
	for j, p := range h.B[yi] {
		if math.Abs(p-want) > 1e-9 {
			t.Errorf("B[y][%d] = %v, want uniform %v", j, p, want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	h, err := NewBuilder().
		AddMisreads(align.MisreadCount{{Gold: 'a', Noisy: 'a'}: 10, {Gold: 'a', Noisy: 'e'}: 1}).
		AddGoldTokens("aaa", "aa").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	if err := h.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Fingerprint() != h.Fingerprint() {
		t.Fatalf("fingerprint changed across round trip")
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	build := func() *HMM {
		h, err := NewBuilder().
			AddMisreads(align.MisreadCount{{Gold: 'm', Noisy: 'm'}: 4, {Gold: 'm', Noisy: 'r'}: 1}).
			AddGoldTokens("modem", "modern").
			Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return h
	}
	a, b := build(), build()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ across identical builds")
	}
}

func TestLoadRejectsInconsistentModel(t *testing.T) {
	bad := &Serialized{
		Pi: map[string]float64{"a": 0.5, "b": 0.2}, // does not sum to 1
		A: map[string]map[string]float64{
			"a": {"a": 0.5, "b": 0.5},
			"b": {"a": 0.5, "b": 0.5},
		},
		B: map[string]map[string]float64{
			"a": {"a": 1, "b": 0},
			"b": {"a": 0, "b": 1},
		},
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	data, err := yaml.Marshal(bad)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error loading inconsistent model")
	}
}
