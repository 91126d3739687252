package bids

import (
	"sort"
	"strings"
)

// Rank orders candidates by unit price, cheapest first. Equal prices keep
// their input order. Currency is not considered; see MixedCurrencies.
func Rank(in []Candidate) []Candidate {
	out := make([]Candidate, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quote.Price.LessThan(out[j].Quote.Price)
	})
	return out
}

// Currencies lists the distinct currencies in first-seen order.
func Currencies(in []Candidate) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, c := range in {
		cur := strings.ToUpper(strings.TrimSpace(c.Quote.Currency))
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
	}
	return out
}

// MixedCurrencies reports whether a ranking compares prices across currencies.
func MixedCurrencies(in []Candidate) bool {
	return len(Currencies(in)) > 1
}
