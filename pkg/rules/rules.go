// Package rules loads and applies the multi-character substitution rule
// set M used by the decoder's substitution-expansion stage (spec.md §3,
// §4.3.2).
package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Occurrence is one place a noisy substring was found in a token, ready
// to be rewritten back to its gold form.
type Occurrence struct {
	GoldSub  string
	NoisySub string
	Start    int // byte offset into the original token
}

// Set is a user-supplied, static-per-run mapping from a gold substring to
// the noisy surface forms it may appear as (spec.md §3: "Both many-to-one
// and one-to-many").
type Set struct {
	m map[string][]string
}

// New builds a Set from a gold->noisy-forms mapping. Entries with an
// empty gold or noisy string are malformed input (spec.md §7) and are
// skipped.
func New(m map[string][]string) *Set {
	clean := make(map[string][]string, len(m))
	for gold, noisies := range m {
		if strings.TrimSpace(gold) == "" {
			continue
		}
		var kept []string
		for _, n := range noisies {
			if strings.TrimSpace(n) == "" {
				continue
			}
			kept = append(kept, n)
		}
		if len(kept) > 0 {
			clean[gold] = kept
		}
	}
	return &Set{m: clean}
}

// Load reads a Set from a YAML file mapping gold substrings to lists of
// noisy surface forms.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("rules: unmarshal %s: %w", path, err)
	}
	return New(raw), nil
}

// Pairs returns every (goldSub, noisySub) pair in the set, in
// deterministic order (gold substrings sorted, then their noisy forms in
// the order they were supplied). spec.md §4.3.2 applies rules "in both
// directions", which in this mapping's (gold -> []noisy) shape just means
// iterating every pair once.
func (s *Set) Pairs() [][2]string {
	golds := make([]string, 0, len(s.m))
	for g := range s.m {
		golds = append(golds, g)
	}
	sort.Strings(golds)

	var out [][2]string
	for _, g := range golds {
		for _, n := range s.m[g] {
			out = append(out, [2]string{g, n})
		}
	}
	return out
}

// Empty reports whether the set has no rules.
func (s *Set) Empty() bool {
	return len(s.m) == 0
}

// Fingerprint hashes the rule set in canonical form (spec.md §9:
// "M by its canonicalized string form"), so two Sets built from the same
// rules always produce the same decode-cache key component regardless of
// map iteration order.
func (s *Set) Fingerprint() uint64 {
	d := xxhash.New()
	for _, p := range s.Pairs() {
		_, _ = d.WriteString(p[0])
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(p[1])
		_, _ = d.Write([]byte{0, 0})
	}
	return d.Sum64()
}

// FindOccurrences returns every non-overlapping occurrence of any rule's
// noisy substring in token, left to right, applying each rule "at most
// once per occurrence (no cascading)" (spec.md §4.3.2): once a span of
// token has been claimed by one occurrence, later rules cannot also
// match inside that span.
func (s *Set) FindOccurrences(token string) []Occurrence {
	claimed := make([]bool, len(token))
	var occs []Occurrence

	for _, pair := range s.Pairs() {
		gold, noisy := pair[0], pair[1]
		start := 0
		for {
			idx := strings.Index(token[start:], noisy)
			if idx < 0 {
				break
			}
			absStart := start + idx
			absEnd := absStart + len(noisy)
			if !anyClaimed(claimed, absStart, absEnd) {
				occs = append(occs, Occurrence{GoldSub: gold, NoisySub: noisy, Start: absStart})
				for i := absStart; i < absEnd; i++ {
					claimed[i] = true
				}
			}
			start = absStart + 1
			if start >= len(token) {
				break
			}
		}
	}

	sort.Slice(occs, func(i, j int) bool { return occs[i].Start < occs[j].Start })
	return occs
}

func anyClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end && i < len(claimed); i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

// Rewrite applies a single occurrence to token, replacing its noisy span
// with its gold form.
func (o Occurrence) Rewrite(token string) string {
	end := o.Start + len(o.NoisySub)
	if o.Start < 0 || end > len(token) {
		return token
	}
	return token[:o.Start] + o.GoldSub + token[end:]
}

// Expand generates every hypothesis string reachable from token by
// rewriting exactly one occurrence back to its gold form (spec.md
// §4.3.2). Multiple occurrences each produce their own independent
// hypothesis; occurrences are not combined, matching the decoder's use
// of Expand as a source of additional k-best candidates, not a second
// alignment search.
func (s *Set) Expand(token string) []string {
	occs := s.FindOccurrences(token)
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Rewrite(token))
	}
	return out
}
