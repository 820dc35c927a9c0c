package picker

import "github.com/runger/hpick/internal/fuzzy"

// Ranker supplies the ranked list for a query. The candidate set is fixed for
// the life of a session, so ranking is synchronous and never fails.
type Ranker interface {
	Rank(query string) []fuzzy.Match
	Len() int
}
