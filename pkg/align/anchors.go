package align

// chunkOnAnchors splits g and n on deterministic exact-match anchors of
// length >= minAnchor, returning the (gold-chunk, noisy-chunk) pairs in
// order. Anchor runs themselves are returned as their own one-to-one
// chunks so the caller can align every chunk (anchor or gap) through the
// same Needleman-Wunsch path uniformly.
//
// Anchor choice: greedy, leftmost-in-n, monotonic-in-g. This is a
// simplification of the anchor-chaining used by large-scale sequence
// aligners (see other_examples' bioinformatics aligners): it does not
// find the longest possible anchor chain, only a deterministic one, which
// is all spec.md §4.1 requires ("anchor choice must be deterministic").
func chunkOnAnchors(g, n []rune, minAnchor int) [][2][]rune {
	if minAnchor < 1 {
		minAnchor = 1
	}
	if len(g) < minAnchor || len(n) < minAnchor {
		return [][2][]rune{{g, n}}
	}

	// Map each length-minAnchor substring of g to its first (leftmost)
	// occurrence, so lookups are deterministic regardless of how many
	// times a k-mer repeats.
	firstPos := make(map[string]int)
	for i := 0; i+minAnchor <= len(g); i++ {
		k := string(g[i : i+minAnchor])
		if _, ok := firstPos[k]; !ok {
			firstPos[k] = i
		}
	}

	type anchor struct {
		gStart, nStart, length int
	}
	var anchors []anchor
	lastGEnd, lastNEnd := 0, 0

	for j := 0; j+minAnchor <= len(n); {
		k := string(n[j : j+minAnchor])
		i, ok := firstPos[k]
		if !ok || i < lastGEnd {
			j++
			continue
		}
		// Extend the match as far as both strings agree.
		length := minAnchor
		for i+length < len(g) && j+length < len(n) && g[i+length] == n[j+length] {
			length++
		}
		anchors = append(anchors, anchor{gStart: i, nStart: j, length: length})
		lastGEnd = i + length
		lastNEnd = j + length
		j += length
	}

	if len(anchors) == 0 {
		return [][2][]rune{{g, n}}
	}

	var chunks [][2][]rune
	gPos, nPos := 0, 0
	for _, a := range anchors {
		if a.gStart > gPos || a.nStart > nPos {
			chunks = append(chunks, [2][]rune{g[gPos:a.gStart], n[nPos:a.nStart]})
		}
		chunks = append(chunks, [2][]rune{g[a.gStart : a.gStart+a.length], n[a.nStart : a.nStart+a.length]})
		gPos = a.gStart + a.length
		nPos = a.nStart + a.length
	}
	if gPos < len(g) || nPos < len(n) {
		chunks = append(chunks, [2][]rune{g[gPos:], n[nPos:]})
	}
	return chunks
}
