package hmm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ocrforge/correctocr/pkg/alphabet"
)

// Serialized is the on-disk shape of an HMM: three nested mappings keyed
// by single-character strings (spec.md §4.2 "Serialization", §6 "HMM
// parameters"). It is the stable external format downstream tools read.
type Serialized struct {
	Lambda float64                       `yaml:"lambda"`
	Pi     map[string]float64            `yaml:"pi"`
	A      map[string]map[string]float64 `yaml:"a"`
	B      map[string]map[string]float64 `yaml:"b"`
}

// Marshal converts h into its stable serialized form.
func (h *HMM) Marshal() *Serialized {
	s := &Serialized{
		Lambda: h.Lambda,
		Pi:     make(map[string]float64, h.Alphabet.Len()),
		A:      make(map[string]map[string]float64, h.Alphabet.Len()),
		B:      make(map[string]map[string]float64, h.Alphabet.Len()),
	}
	for i := 0; i < h.Alphabet.Len(); i++ {
		c := string(h.Alphabet.Symbol(i))
		s.Pi[c] = h.Pi[i]

		aRow := make(map[string]float64, h.Alphabet.Len())
		bRow := make(map[string]float64, h.Alphabet.Len())
		for j := 0; j < h.Alphabet.Len(); j++ {
			o := string(h.Alphabet.Symbol(j))
			aRow[o] = h.A[i][j]
			bRow[o] = h.B[i][j]
		}
		s.A[c] = aRow
		s.B[c] = bRow
	}
	return s
}

// Unmarshal rebuilds an HMM from its serialized form, reconstructing the
// alphabet from the key set and validating the row-sum invariants before
// returning (spec.md §7: "Model inconsistency ... Fatal at model load").
func Unmarshal(s *Serialized) (*HMM, error) {
	chars := make([]rune, 0, len(s.Pi))
	for k := range s.Pi {
		r := []rune(k)
		if len(r) != 1 {
			return nil, fmt.Errorf("hmm: invalid Π key %q: must be one character", k)
		}
		chars = append(chars, r[0])
	}
	sigma := alphabet.New(chars)
	n := sigma.Len()

	pi := make([]float64, n)
	for c, p := range s.Pi {
		pi[sigma.Index([]rune(c)[0])] = p
	}

	a := make([][]float64, n)
	b := make([][]float64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]float64, n)
		b[i] = make([]float64, n)
		g := string(sigma.Symbol(i))
		aRow, ok := s.A[g]
		if !ok {
			return nil, fmt.Errorf("%w: A missing row %q", ErrInconsistentModel, g)
		}
		bRow, ok := s.B[g]
		if !ok {
			return nil, fmt.Errorf("%w: B missing row %q", ErrInconsistentModel, g)
		}
		for j := 0; j < n; j++ {
			o := string(sigma.Symbol(j))
			av, ok := aRow[o]
			if !ok {
				return nil, fmt.Errorf("%w: A[%q] missing column %q", ErrInconsistentModel, g, o)
			}
			bv, ok := bRow[o]
			if !ok {
				return nil, fmt.Errorf("%w: B[%q] missing column %q", ErrInconsistentModel, g, o)
			}
			a[i][j] = av
			b[i][j] = bv
		}
	}

	h := &HMM{Alphabet: sigma, Lambda: s.Lambda, Pi: pi, A: a, B: b}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Save writes h to path in YAML form.
func (h *HMM) Save(path string) error {
	data, err := yaml.Marshal(h.Marshal())
	if err != nil {
		return fmt.Errorf("hmm: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("hmm: write %s: %w", path, err)
	}
	return nil
}

// Load reads and validates an HMM previously written by Save. A
// byte-identical reload must reproduce the same decoding decisions
// (spec.md §4.2).
func Load(path string) (*HMM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hmm: read %s: %w", path, err)
	}
	var s Serialized
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("hmm: unmarshal %s: %w", path, err)
	}
	return Unmarshal(&s)
}
