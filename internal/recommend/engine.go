// Package recommend selects catalog rackets matching a user's stated preferences.
package recommend

import (
	"sort"

	"racket-backend/internal/catalog"
)

// MaxResults caps the number of rackets returned per query.
const MaxResults = 3

// Query is the set of preferences submitted per request. Categorical fields match exactly.
type Query struct {
	Level     string
	Style     string
	Stiffness string
	Budget    int
}

// Recommend narrows items by level, style, stiffness and budget (inclusive), then returns the
// cheapest MaxResults in ascending price order. Ties keep catalog order. The result is never nil.
func Recommend(q Query, items []catalog.Racket) []catalog.Racket {
	passes := []func(catalog.Racket) bool{
		func(r catalog.Racket) bool { return r.Level == q.Level },
		func(r catalog.Racket) bool { return r.Style == q.Style },
		func(r catalog.Racket) bool { return r.Stiffness == q.Stiffness },
		func(r catalog.Racket) bool { return r.Price <= q.Budget },
	}

	candidates := append([]catalog.Racket(nil), items...)
	for _, keep := range passes {
		candidates = filter(candidates, keep)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Price < candidates[j].Price
	})
	if len(candidates) > MaxResults {
		candidates = candidates[:MaxResults]
	}
	if candidates == nil {
		candidates = []catalog.Racket{}
	}
	return candidates
}

func filter(in []catalog.Racket, keep func(catalog.Racket) bool) []catalog.Racket {
	out := in[:0]
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
