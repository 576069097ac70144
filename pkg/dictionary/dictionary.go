// Package dictionary implements the gold-word lookup table consulted by
// the correction policy (spec.md §3, §4.4).
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Dictionary is a set of known-good words, optionally case-sensitive.
// It is safe for concurrent reads; Add is safe for concurrent use
// alongside reads and other Adds (spec.md §5: annotator sessions mutate
// a temp dictionary while decoding runs concurrently elsewhere).
type Dictionary struct {
	mu            sync.RWMutex
	words         map[string]struct{}
	caseSensitive bool
	fold          cases.Caser
}

// New builds a Dictionary from words. When caseSensitive is false, all
// lookups and stored entries are case-folded with golang.org/x/text/cases
// rather than strings.ToLower, so folding stays correct for non-ASCII
// scripts.
func New(words []string, caseSensitive bool) *Dictionary {
	d := &Dictionary{
		words:         make(map[string]struct{}, len(words)),
		caseSensitive: caseSensitive,
		fold:          cases.Fold(),
	}
	for _, w := range words {
		d.add(w)
	}
	return d
}

// Load reads one word per line from path, skipping blank lines and lines
// beginning with '#'.
func Load(path string, caseSensitive bool) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %s: %w", path, err)
	}
	defer f.Close()

	d := New(nil, caseSensitive)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: read %s: %w", path, err)
	}
	return d, nil
}

func (d *Dictionary) key(w string) string {
	if d.caseSensitive {
		return w
	}
	return d.fold.String(w)
}

func (d *Dictionary) add(w string) {
	if w == "" {
		return
	}
	d.mu.Lock()
	d.words[d.key(w)] = struct{}{}
	d.mu.Unlock()
}

// Add inserts w into the dictionary. It is exported so an annotator
// session can promote an accepted correction into the live dictionary
// (spec.md §5).
func (d *Dictionary) Add(w string) {
	d.add(w)
}

// Contains reports whether w is a known word.
func (d *Dictionary) Contains(w string) bool {
	if w == "" {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.words[d.key(w)]
	return ok
}

// Len returns the number of distinct entries.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words)
}

// Snapshot returns a copy-on-write clone of d, used to give an annotator
// session its own temp dictionary without locking the shared one for the
// session's lifetime (spec.md §5).
func (d *Dictionary) Snapshot() *Dictionary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	clone := &Dictionary{
		words:         make(map[string]struct{}, len(d.words)),
		caseSensitive: d.caseSensitive,
		fold:          cases.Fold(),
	}
	for w := range d.words {
		clone.words[w] = struct{}{}
	}
	return clone
}
