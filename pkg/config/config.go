// Package config loads and validates the knobs that drive alignment,
// HMM estimation, decoding and binning (spec.md §6).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ocrforge/correctocr/pkg/token"
)

// Config is the full set of tunables a pipeline run needs (spec.md §6:
// "k, λ, case_sensitive, anchor length / cell budget, per-bin action
// map, extension characters").
type Config struct {
	// K is the number of candidates the decoder returns per token.
	K int `yaml:"k"`
	// Lambda is the Lidstone smoothing constant for the emission matrix.
	Lambda float64 `yaml:"lambda"`
	// CaseSensitive controls dictionary lookup folding.
	CaseSensitive bool `yaml:"case_sensitive"`
	// AnchorLength is the minimum exact-match run length used to chunk
	// alignment of long sequences.
	AnchorLength int `yaml:"anchor_length"`
	// CellBudget bounds the Needleman-Wunsch DP table size before
	// anchor-based chunking kicks in. Zero disables chunking.
	CellBudget int `yaml:"cell_budget"`
	// Extension lists characters to add to the HMM's alphabet beyond
	// what training data covers, so previously unseen characters still
	// decode instead of falling back to Unknown.
	Extension []rune `yaml:"extension"`
	// FileScopedMemoization scopes annotator memoization to the current
	// file instead of sharing it across a whole corpus.
	FileScopedMemoization bool `yaml:"file_scoped_memoization"`
	// Policy maps each of the nine bins to an action.
	Policy map[token.Bin]token.Decision `yaml:"-"`
}

// NewDefaultConfig returns conservative defaults: single-best decoding
// is disabled in favor of a modest k, light smoothing, and deferring any
// token the binner cannot resolve confidently to an annotator.
func NewDefaultConfig() *Config {
	return &Config{
		K:             4,
		Lambda:        1e-6,
		CaseSensitive: true,
		AnchorLength:  5,
		CellBudget:    0,
		Policy: map[token.Bin]token.Decision{
			1: token.DecisionOriginal,
			2: token.DecisionOriginal,
			3: token.DecisionAnnotate,
			4: token.DecisionDictionary,
			5: token.DecisionAnnotate,
			6: token.DecisionAnnotate,
			7: token.DecisionDictionary,
			8: token.DecisionAnnotate,
			9: token.DecisionAnnotate,
		},
	}
}

// Validate reports whether cfg is internally consistent.
func (c *Config) Validate() error {
	if c.K <= 0 {
		return fmt.Errorf("config: k must be positive, got %d", c.K)
	}
	if c.Lambda < 0 {
		return fmt.Errorf("config: lambda must be non-negative, got %f", c.Lambda)
	}
	if c.AnchorLength <= 0 {
		return fmt.Errorf("config: anchor_length must be positive, got %d", c.AnchorLength)
	}
	if c.CellBudget < 0 {
		return fmt.Errorf("config: cell_budget must be non-negative, got %d", c.CellBudget)
	}
	for bin, action := range c.Policy {
		if bin < 1 || bin > 9 {
			return fmt.Errorf("config: bin %d out of range 1..9", bin)
		}
		switch action {
		case token.DecisionOriginal, token.DecisionTop, token.DecisionDictionary, token.DecisionAnnotate:
		default:
			return fmt.Errorf("config: bin %d has unknown action %q", bin, action)
		}
	}
	return nil
}

// maxK bounds how many candidates a single decode call will return;
// values above this are almost certainly a misconfiguration rather than
// an intentional request for an enormous k-best list.
const maxK = 1000

// yamlConfig mirrors Config's YAML-addressable fields; Policy is loaded
// separately from the tab-separated bin settings file (spec.md §6: "a
// stable external format").
type yamlConfig struct {
	K                     int     `yaml:"k"`
	Lambda                float64 `yaml:"lambda"`
	CaseSensitive         bool    `yaml:"case_sensitive"`
	AnchorLength          int     `yaml:"anchor_length"`
	CellBudget            int     `yaml:"cell_budget"`
	Extension             []rune  `yaml:"extension"`
	FileScopedMemoization bool    `yaml:"file_scoped_memoization"`
}

// Load reads the YAML-configured fields from path, applying them on top
// of NewDefaultConfig. The per-bin policy is loaded separately with
// LoadPolicy, since it lives in its own tab-separated file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := NewDefaultConfig()
	raw := yamlConfig{
		K:             cfg.K,
		Lambda:        cfg.Lambda,
		CaseSensitive: cfg.CaseSensitive,
		AnchorLength:  cfg.AnchorLength,
		CellBudget:    cfg.CellBudget,
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if raw.K > 0 {
		cfg.K = clampInt(raw.K, 1, maxK)
	}
	cfg.Lambda = raw.Lambda
	cfg.CaseSensitive = raw.CaseSensitive
	cfg.FileScopedMemoization = raw.FileScopedMemoization
	if raw.AnchorLength > 0 {
		cfg.AnchorLength = raw.AnchorLength
	}
	cfg.CellBudget = raw.CellBudget
	cfg.Extension = raw.Extension

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// clampInt restricts val to [min, max].
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// GetEnvInt reads name from the environment, falling back to def when
// unset or unparseable.
func GetEnvInt(name string, def int) int {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
