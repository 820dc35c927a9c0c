package fuzzy

// Weights holds the scoring weights of the native matcher.
//
// Consecutive must be at least Boundary so that a contiguous run never scores
// below the same characters scattered across word boundaries.
type Weights struct {
	// Consecutive is added for each matched character directly after the
	// previous matched character.
	Consecutive int

	// Boundary is added for each matched character at a word boundary
	// (start of text or after a separator).
	Boundary int

	// FirstChar is added when the first query character matches the first
	// character of the text.
	FirstChar int

	// ExactCase is added for each matched character with the same case as
	// the query character.
	ExactCase int

	// GapPenalty is subtracted for each unmatched character inside the
	// matched window.
	GapPenalty int

	// LeadingPenalty is subtracted for each character before the first match,
	// up to MaxLeadingPenalty.
	LeadingPenalty    int
	MaxLeadingPenalty int
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Consecutive:       16,
		Boundary:          8,
		FirstChar:         8,
		ExactCase:         1,
		GapPenalty:        1,
		LeadingPenalty:    1,
		MaxLeadingPenalty: 12,
	}
}

// score rates an alignment of query onto text. positions are rune offsets,
// strictly increasing, one per query rune.
func (w Weights) score(query, text []rune, positions []int) int {
	if len(positions) == 0 {
		return 0
	}

	score := 0
	for k, pos := range positions {
		if isBoundary(text, pos) {
			score += w.Boundary
		}
		if k > 0 && pos == positions[k-1]+1 {
			score += w.Consecutive
		}
		if text[pos] == query[k] {
			score += w.ExactCase
		}
	}

	first := positions[0]
	if first == 0 {
		score += w.FirstChar
	}

	leading := first * w.LeadingPenalty
	if leading > w.MaxLeadingPenalty {
		leading = w.MaxLeadingPenalty
	}
	score -= leading

	window := positions[len(positions)-1] - first + 1
	score -= (window - len(positions)) * w.GapPenalty

	return score
}

// isBoundary reports whether the rune at idx starts a word.
func isBoundary(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	return isSeparator(text[idx-1])
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '-', '_', '/', '\\', '.', ':', ';', ',', '=', '|', '&', '(', ')', '[', ']', '{', '}', '"', '\'', '`', '@', '$':
		return true
	default:
		return false
	}
}
