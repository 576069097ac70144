package hmm

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a content address for h, computed by hashing Π, A
// and B in canonical character order (spec.md §4.3.3, §9: "Fingerprint
// the HMM by hashing Π, A, B in a canonical character order"). Two HMMs
// built from identical training data produce identical fingerprints
// regardless of map iteration order, since hashing walks the alphabet in
// its fixed sorted order rather than any map.
func (h *HMM) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	writeRune := func(r rune) {
		binary.LittleEndian.PutUint64(buf[:], uint64(r))
		_, _ = d.Write(buf[:])
	}

	writeFloat(h.Lambda)
	n := h.Alphabet.Len()
	for i := 0; i < n; i++ {
		writeRune(h.Alphabet.Symbol(i))
		writeFloat(h.Pi[i])
		for j := 0; j < n; j++ {
			writeFloat(h.A[i][j])
		}
		for j := 0; j < n; j++ {
			writeFloat(h.B[i][j])
		}
	}
	return d.Sum64()
}
