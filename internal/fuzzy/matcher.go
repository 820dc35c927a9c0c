// Package fuzzy ranks history records against a query by case-insensitive
// subsequence matching.
package fuzzy

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/runger/hpick/internal/history"
)

// Match is a record that matched the query.
type Match struct {
	Record history.Record
	Score  int
	// Positions holds the rune offsets in Record.Text of the matched query
	// characters, strictly increasing. Nil for an empty query.
	Positions []int
}

// Ranker ranks a fixed candidate set against successive queries.
type Ranker interface {
	// Rank returns every record matching query, best first. An empty query
	// returns all records, score 0, in set order.
	Rank(query string) []Match
	// Len returns the size of the candidate set.
	Len() int
}

// Backend names accepted by New.
const (
	BackendNative = "native"
	BackendSahilm = "sahilm"
)

// New builds a Ranker for set using the named backend.
func New(backend string, set history.CandidateSet) (Ranker, error) {
	switch backend {
	case "", BackendNative:
		return NewIndex(set, DefaultWeights()), nil
	case BackendSahilm:
		return NewSahilmIndex(set), nil
	default:
		return nil, fmt.Errorf("unknown matcher %q", backend)
	}
}

type candidate struct {
	text  []rune
	lower []rune
}

// Index is the native Ranker. Folded runes are computed once at build time so
// a keystroke only pays for the scan.
type Index struct {
	set     history.CandidateSet
	items   []candidate
	weights Weights
}

// NewIndex builds an Index over set.
func NewIndex(set history.CandidateSet, w Weights) *Index {
	items := make([]candidate, len(set))
	for i, r := range set {
		text := []rune(r.Text)
		items[i] = candidate{text: text, lower: fold(text)}
	}
	return &Index{set: set, items: items, weights: w}
}

// Len returns the number of candidates.
func (ix *Index) Len() int { return len(ix.set) }

// Rank implements Ranker.
func (ix *Index) Rank(query string) []Match {
	if query == "" {
		return allMatches(ix.set)
	}

	q := []rune(query)
	ql := fold(q)

	var matches []Match
	// One backing array for all positions of this call.
	arena := make([]int, 0, len(q)*64)
	scratch := make([]int, len(q))

	for i := range ix.items {
		c := &ix.items[i]
		score, ok := ix.align(q, ql, c, scratch)
		if !ok {
			continue
		}
		if cap(arena)-len(arena) < len(q) {
			arena = make([]int, 0, len(q)*64)
		}
		start := len(arena)
		arena = append(arena, scratch...)
		matches = append(matches, Match{
			Record:    ix.set[i],
			Score:     score,
			Positions: arena[start:len(arena):len(arena)],
		})
	}

	sortMatches(matches)
	return matches
}

// align finds the best alignment of the query onto c, writing positions into
// out. It reports false when the query is not a subsequence of c.
func (ix *Index) align(q, ql []rune, c *candidate, out []int) (int, bool) {
	if len(ql) > len(c.lower) {
		return 0, false
	}

	// Forward scan: earliest position where the whole query fits.
	end := -1
	k := 0
	for i, r := range c.lower {
		if r == ql[k] {
			k++
			if k == len(ql) {
				end = i
				break
			}
		}
	}
	if end < 0 {
		return 0, false
	}

	// Backward scan from end tightens the window to its latest start.
	k = len(ql) - 1
	for i := end; i >= 0 && k >= 0; i-- {
		if c.lower[i] == ql[k] {
			out[k] = i
			k--
		}
	}
	best := ix.weights.score(q, c.text, out)

	// A contiguous occurrence may sit later in the text; it wins when it
	// scores better than the tight window.
	if len(ql) > 1 {
		var alt []int
		for start := indexRunes(c.lower, ql, 0); start >= 0; start = indexRunes(c.lower, ql, start+1) {
			if alt == nil {
				alt = make([]int, len(ql))
			}
			for j := range alt {
				alt[j] = start + j
			}
			if s := ix.weights.score(q, c.text, alt); s > best {
				best = s
				copy(out, alt)
			}
		}
	}

	return best, true
}

// indexRunes returns the first offset >= from where needle occurs in hay, or -1.
func indexRunes(hay, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(hay); i++ {
		if hay[i] != needle[0] {
			continue
		}
		j := 1
		for j < len(needle) && hay[i+j] == needle[j] {
			j++
		}
		if j == len(needle) {
			return i
		}
	}
	return -1
}

// fold lowers each rune individually so offsets stay aligned with the
// original text.
func fold(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func allMatches(set history.CandidateSet) []Match {
	matches := make([]Match, len(set))
	for i, r := range set {
		matches[i] = Match{Record: r}
	}
	return matches
}

// sortMatches orders by score descending, then by recency.
func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Record.Seq > matches[j].Record.Seq
	})
}

// Rank ranks set against query with the default native matcher. Callers
// ranking repeatedly should build an Index once instead.
func Rank(set history.CandidateSet, query string) []Match {
	return NewIndex(set, DefaultWeights()).Rank(query)
}
