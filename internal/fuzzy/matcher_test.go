package fuzzy

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/hpick/internal/history"
)

// set builds a CandidateSet from texts given most recent first.
func set(texts ...string) history.CandidateSet {
	out := make(history.CandidateSet, len(texts))
	for i, t := range texts {
		out[i] = history.Record{Text: t, Seq: len(texts) - 1 - i}
	}
	return out
}

func setTexts(s history.CandidateSet) []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Text
	}
	return out
}

func matchTexts(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Record.Text
	}
	return out
}

func isSubsequence(query, text string) bool {
	q := fold([]rune(query))
	k := 0
	for _, r := range fold([]rune(text)) {
		if k < len(q) && r == q[k] {
			k++
		}
	}
	return k == len(q)
}

func rankers(s history.CandidateSet) map[string]Ranker {
	return map[string]Ranker{
		BackendNative: NewIndex(s, DefaultWeights()),
		BackendSahilm: NewSahilmIndex(s),
	}
}

func TestRank_EmptyQueryReturnsAllInOrder(t *testing.T) {
	s := set("ls -la", "git commit -m fix", "git status")
	for name, r := range rankers(s) {
		t.Run(name, func(t *testing.T) {
			got := r.Rank("")
			require.Len(t, got, 3)
			assert.Equal(t, setTexts(s), matchTexts(got))
			for _, m := range got {
				assert.Zero(t, m.Score)
				assert.Empty(t, m.Positions)
			}
		})
	}
}

func TestRank_SubsequenceFilter(t *testing.T) {
	s := set("ls -la", "git commit -m fix", "git status")
	for name, r := range rankers(s) {
		t.Run(name, func(t *testing.T) {
			got := matchTexts(r.Rank("gc"))
			assert.Equal(t, []string{"git commit -m fix"}, got)
		})
	}
}

func TestRank_CaseInsensitive(t *testing.T) {
	s := set("Make Build", "echo")
	got := NewIndex(s, DefaultWeights()).Rank("mb")
	require.Len(t, got, 1)
	assert.Equal(t, "Make Build", got[0].Record.Text)
	assert.Equal(t, []int{0, 5}, got[0].Positions)
}

func TestRank_NoMatches(t *testing.T) {
	s := set("ls", "pwd")
	for name, r := range rankers(s) {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, r.Rank("zzz"))
		})
	}
}

func TestRank_QueryLongerThanText(t *testing.T) {
	assert.Empty(t, NewIndex(set("ls"), DefaultWeights()).Rank("lsx"))
}

func TestRank_RecencyBreaksTies(t *testing.T) {
	s := set("make test", "make test ")
	got := NewIndex(s, DefaultWeights()).Rank("make")
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Score, got[1].Score)
	assert.Equal(t, "make test", got[0].Record.Text)
}

func TestRank_ContiguousBeatsScattered(t *testing.T) {
	s := set("a-b-c-d", "xabcd")
	got := NewIndex(s, DefaultWeights()).Rank("abc")
	require.Len(t, got, 2)
	assert.Equal(t, "xabcd", got[0].Record.Text)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRank_ContiguityIsMonotonic(t *testing.T) {
	w := DefaultWeights()
	text := []rune("build release")
	q := []rune("bui")
	contiguous := w.score(q, text, []int{0, 1, 2})
	scattered := w.score(q, text, []int{0, 1, 4})
	assert.Greater(t, contiguous, scattered)
}

func TestRank_PrefersLaterContiguousRun(t *testing.T) {
	s := set("d-o-c-k docker")
	got := NewIndex(s, DefaultWeights()).Rank("dock")
	require.Len(t, got, 1)
	assert.Equal(t, []int{8, 9, 10, 11}, got[0].Positions)
}

func TestRank_TightWindow(t *testing.T) {
	// The forward scan alone would start at the first 'g'.
	got := NewIndex(set("g x git"), DefaultWeights()).Rank("gt")
	require.Len(t, got, 1)
	assert.Equal(t, []int{4, 6}, got[0].Positions)
}

func TestRank_PositionsAreRuneOffsets(t *testing.T) {
	s := set("écho ünïcode")
	for name, r := range rankers(s) {
		t.Run(name, func(t *testing.T) {
			got := r.Rank("ün")
			require.Len(t, got, 1)
			assert.Equal(t, []int{5, 6}, got[0].Positions)
		})
	}
}

func TestRank_WhitespaceInQuery(t *testing.T) {
	s := set("git status", "gitstatus")
	got := matchTexts(NewIndex(s, DefaultWeights()).Rank("git s"))
	assert.Equal(t, []string{"git status"}, got)
}

func TestRank_PositionsValid(t *testing.T) {
	s := set("kubectl get pods -n kube-system", "ls", "kill -9 1234", "kgp")
	for name, r := range rankers(s) {
		t.Run(name, func(t *testing.T) {
			q := "kgp"
			for _, m := range r.Rank(q) {
				require.Len(t, m.Positions, len([]rune(q)), m.Record.Text)
				text := []rune(m.Record.Text)
				for i, p := range m.Positions {
					if i > 0 {
						assert.Greater(t, p, m.Positions[i-1])
					}
					assert.Equal(t, unicode.ToLower([]rune(q)[i]), unicode.ToLower(text[p]))
				}
			}
		})
	}
}

func TestRank_NoFalsePositivesOrNegatives(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const alphabet = "abcdeABCDE -/é"
	alpha := []rune(alphabet)
	randString := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(alpha[rng.Intn(len(alpha))])
		}
		return b.String()
	}

	texts := make([]string, 0, 300)
	seen := map[string]bool{}
	for len(texts) < 300 {
		s := randString(1 + rng.Intn(12))
		if !seen[s] {
			seen[s] = true
			texts = append(texts, s)
		}
	}
	s := set(texts...)
	ix := NewIndex(s, DefaultWeights())

	for i := 0; i < 200; i++ {
		q := randString(1 + rng.Intn(3))
		got := map[string]bool{}
		for _, m := range ix.Rank(q) {
			got[m.Record.Text] = true
		}
		for _, text := range texts {
			assert.Equal(t, isSubsequence(q, text), got[text], "query %q text %q", q, text)
		}
	}
}

func TestRank_SortedByScoreThenRecency(t *testing.T) {
	s := set("git push", "git pull", "grep -r p", "go test ./...", "gp")
	for name, r := range rankers(s) {
		t.Run(name, func(t *testing.T) {
			got := r.Rank("gp")
			for i := 1; i < len(got); i++ {
				prev, cur := got[i-1], got[i]
				if prev.Score == cur.Score {
					assert.Greater(t, prev.Record.Seq, cur.Record.Seq)
				} else {
					assert.Greater(t, prev.Score, cur.Score)
				}
			}
		})
	}
}

func TestNew(t *testing.T) {
	s := set("ls")

	r, err := New("", s)
	require.NoError(t, err)
	assert.IsType(t, &Index{}, r)

	r, err = New(BackendSahilm, s)
	require.NoError(t, err)
	assert.IsType(t, &SahilmIndex{}, r)
	assert.Equal(t, 1, r.Len())

	_, err = New("fzf", s)
	assert.Error(t, err)
}

func TestRankHelper(t *testing.T) {
	assert.Equal(t, []string{"ls -la"}, matchTexts(Rank(set("ls -la", "pwd"), "la")))
}

func TestRuneOffsets(t *testing.T) {
	assert.Nil(t, runeOffsets("abc", nil))
	assert.Equal(t, []int{0, 2}, runeOffsets("abc", []int{0, 2}))
	// "é" is two bytes.
	assert.Equal(t, []int{1, 2}, runeOffsets("éab", []int{2, 3}))
}

func BenchmarkRank50k(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	words := []string{"git", "commit", "status", "docker", "run", "kubectl", "get", "pods", "ls", "-la", "cd", "make", "test", "go", "build", "./...", "--rm", "-it", "alpine", "echo"}
	texts := make([]string, 50000)
	for i := range texts {
		n := 2 + rng.Intn(6)
		parts := make([]string, n)
		for j := range parts {
			parts[j] = words[rng.Intn(len(words))]
		}
		texts[i] = fmt.Sprintf("%s %d", strings.Join(parts, " "), i)
	}
	ix := NewIndex(set(texts...), DefaultWeights())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Rank("gcm")
	}
}
