package align

// MisreadCount tallies how often a gold character was observed as a given
// noisy character, including insertions (Gold: ε) and deletions
// (Noisy: ε) (spec.md §3).
type MisreadCount map[Pair]int

// Add increments the count for one observed (gold, noisy) pair.
func (m MisreadCount) Add(gold, noisy rune) {
	m[Pair{Gold: gold, Noisy: noisy}]++
}

func (m MisreadCount) addAlignment(a Alignment) {
	for _, p := range a {
		m[p]++
	}
}

// Merge folds other into m in place and returns m.
func (m MisreadCount) Merge(other MisreadCount) MisreadCount {
	for p, c := range other {
		m[p] += c
	}
	return m
}

// GoldChars returns the distinct gold characters observed, excluding the
// gap symbol. Used by pkg/hmm to derive the base alphabet Σ from
// MisreadCount keys (spec.md §4.2).
func (m MisreadCount) GoldChars() []rune {
	seen := make(map[rune]struct{})
	for p := range m {
		if p.Gold != gapRune {
			seen[p.Gold] = struct{}{}
		}
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	return out
}
