// Package resolve provides fuzzy matching of usernames.
package resolve

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is a fuzzy match result with score.
type Match struct {
	Name  string
	Index int
	Score int
}

type namesLower []string

func (s namesLower) String(i int) string { return strings.ToLower(s[i]) }
func (s namesLower) Len() int            { return len(s) }

// Rank returns up to limit names matching query, best first. Exact
// case-insensitive matches rank ahead of every fuzzy match. A limit of zero
// or less means no limit.
func Rank(query string, names []string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(names) == 0 {
		return nil
	}

	var matches []Match
	exact := make(map[int]bool)
	for i, name := range names {
		if strings.EqualFold(name, query) {
			matches = append(matches, Match{Name: name, Index: i})
			exact[i] = true
		}
	}

	for _, r := range fuzzy.FindFrom(strings.ToLower(query), namesLower(names)) {
		if exact[r.Index] {
			continue
		}
		matches = append(matches, Match{Name: names[r.Index], Index: r.Index, Score: r.Score})
	}

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
