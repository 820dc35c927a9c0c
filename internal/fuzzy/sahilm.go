package fuzzy

import (
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/runger/hpick/internal/history"
)

// SahilmIndex is a Ranker backed by github.com/sahilm/fuzzy. Its scores are
// not comparable with the native matcher, but ordering uses the same
// recency tie-break.
type SahilmIndex struct {
	set history.CandidateSet
}

// NewSahilmIndex builds a SahilmIndex over set.
func NewSahilmIndex(set history.CandidateSet) *SahilmIndex {
	return &SahilmIndex{set: set}
}

// candidateSource implements fuzzy.Source for a CandidateSet.
type candidateSource history.CandidateSet

func (s candidateSource) String(i int) string { return s[i].Text }
func (s candidateSource) Len() int            { return len(s) }

// Len returns the number of candidates.
func (s *SahilmIndex) Len() int { return len(s.set) }

// Rank implements Ranker.
func (s *SahilmIndex) Rank(query string) []Match {
	if query == "" {
		return allMatches(s.set)
	}

	found := fuzzy.FindFrom(query, candidateSource(s.set))
	matches := make([]Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, Match{
			Record:    s.set[m.Index],
			Score:     m.Score,
			Positions: runeOffsets(m.Str, m.MatchedIndexes),
		})
	}

	sortMatches(matches)
	return matches
}

// runeOffsets converts byte offsets into s to rune offsets.
func runeOffsets(s string, byteIdx []int) []int {
	if len(byteIdx) == 0 {
		return nil
	}
	out := make([]int, 0, len(byteIdx))
	k := 0
	runeIdx := 0
	for b := 0; b < len(s) && k < len(byteIdx); {
		if b == byteIdx[k] {
			out = append(out, runeIdx)
			k++
			continue
		}
		_, size := utf8.DecodeRuneInString(s[b:])
		b += size
		runeIdx++
	}
	return out
}
