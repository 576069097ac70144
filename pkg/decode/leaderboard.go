package decode

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// rankEntry is one candidate held by a leaderboard: a log-probability, the
// reconstructed string prefix used for the deterministic tie-break
// (spec.md §4.3.1, §8 "Decoder determinism"), a monotonic sequence number
// that gives every entry a strict total order even when score and prefix
// both tie, and an opaque payload the caller attaches meaning to.
type rankEntry struct {
	score   float64
	prefix  string
	seq     int
	payload any
}

// leaderboard keeps the best capacity entries seen via offer, ordered
// best-first: highest score wins, ties broken by lexicographically
// smaller prefix, remaining ties broken by insertion order. Built on
// emirpasic/gods' red-black tree rather than a hand-rolled insertion sort
// so the bounded top-k structure at the heart of k-best Viterbi
// (spec.md §4.3.1's δ[t,s,r]) is backed by a maintained collections
// library.
type leaderboard struct {
	tree     *redblacktree.Tree
	capacity int
	next     int
}

func newLeaderboard(capacity int) *leaderboard {
	return &leaderboard{
		tree:     redblacktree.NewWith(rankEntryComparator),
		capacity: capacity,
	}
}

func rankEntryComparator(a, b any) int {
	ea, eb := a.(rankEntry), b.(rankEntry)
	switch {
	case ea.score > eb.score:
		return -1
	case ea.score < eb.score:
		return 1
	}
	switch {
	case ea.prefix < eb.prefix:
		return -1
	case ea.prefix > eb.prefix:
		return 1
	}
	switch {
	case ea.seq < eb.seq:
		return -1
	case ea.seq > eb.seq:
		return 1
	default:
		return 0
	}
}

// offer inserts e, evicting the single worst entry if the leaderboard is
// over capacity afterward.
func (l *leaderboard) offer(score float64, prefix string, payload any) {
	e := rankEntry{score: score, prefix: prefix, seq: l.next, payload: payload}
	l.next++
	l.tree.Put(e, nil)
	if l.capacity > 0 && l.tree.Size() > l.capacity {
		if worst := l.tree.Right(); worst != nil {
			l.tree.Remove(worst.Key)
		}
	}
}

// entries returns the held entries best-first.
func (l *leaderboard) entries() []rankEntry {
	keys := l.tree.Keys()
	out := make([]rankEntry, len(keys))
	for i, k := range keys {
		out[i] = k.(rankEntry)
	}
	return out
}
