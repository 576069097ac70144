package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ocrforge/correctocr/pkg/token"
)

// LoadPolicy reads the per-bin settings file: tab-separated bin_id,
// action pairs, one per line (spec.md §6 "Bit-exact file formats": "the
// per-bin settings file (tab-separated bin_id -> action)"). No library
// in the reference corpus covers this exact two-column TSV shape, so
// this one file uses the standard library's encoding/csv with a tab
// delimiter rather than pulling in a dependency for a single parser.
func LoadPolicy(path string) (map[token.Bin]token.Decision, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = 2
	r.Comment = '#'

	policy := make(map[token.Bin]token.Decision)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("config: %s: invalid bin id %q: %w", path, record[0], err)
		}
		bin := token.Bin(id)
		if bin < 1 || bin > 9 {
			return nil, fmt.Errorf("config: %s: bin %d out of range 1..9", path, id)
		}
		policy[bin] = token.Decision(record[1])
	}
	return policy, nil
}

// SavePolicy writes policy back out in the same tab-separated format
// LoadPolicy reads, with bins in ascending order.
func SavePolicy(path string, policy map[token.Bin]token.Decision) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	for bin := token.Bin(1); bin <= 9; bin++ {
		action, ok := policy[bin]
		if !ok {
			continue
		}
		if err := w.Write([]string{strconv.Itoa(int(bin)), string(action)}); err != nil {
			return fmt.Errorf("config: write %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
