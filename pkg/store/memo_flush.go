package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
)

// FlushMemoTable appends original\tfinal pairs to path, holding an
// exclusive file lock for the duration of the write so multiple
// annotator sessions running as separate processes can flush their
// memoization table to the same shared file without interleaving writes
// (spec.md §4.4 "Memoization": "A global memorised corrections table can
// pre-seed these mappings").
func FlushMemoTable(path string, corrections map[string]string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("store: lock %s: %w", path, err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: open %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for original, final := range corrections {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", original, final); err != nil {
			return fmt.Errorf("store: write memo entry for %q: %w", original, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("store: flush %s: %w", path, err)
	}
	return nil
}

// LoadMemoTable reads a memoization table previously written by
// FlushMemoTable.
func LoadMemoTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	out := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = parts[1]
	}
	return out, nil
}
