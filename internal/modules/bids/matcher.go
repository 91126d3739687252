package bids

import (
	"context"
	"strings"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	types "github.com/yungbote/procuremind-backend/internal/domain"
)

// Candidate is a quote offered for an RFQ item, with its supplier and product.
type Candidate = types.QuoteDetail

// MatchResult is the outcome of looking up one item name.
// ProductMatched separates "no product by that name" from "product exists, no quotes".
type MatchResult struct {
	ItemName       string      `json:"item_name"`
	ProductMatched bool        `json:"product_matched"`
	ProductIDs     []uint      `json:"product_ids"`
	Candidates     []Candidate `json:"candidates"`
}

// Matcher finds the quotes for an item by exact product name. It never writes.
type Matcher struct {
	store catalog.Store
}

func NewMatcher(store catalog.Store) *Matcher {
	return &Matcher{store: store}
}

// FindQuotesForItem returns every quote of every product whose name equals the
// trimmed item name under Unicode case folding. Store errors are returned as is
// and are never reported as an empty match.
func (m *Matcher) FindQuotesForItem(ctx context.Context, itemName string) (MatchResult, error) {
	target := strings.TrimSpace(itemName)
	res := MatchResult{ItemName: target}
	if target == "" {
		return res, nil
	}

	products, err := m.store.FindProductsByName(ctx, target)
	if err != nil {
		return MatchResult{}, err
	}

	want := types.NameKey(target)
	for _, p := range products {
		if p == nil {
			continue
		}
		// legacy rows without a key come back from a LOWER() comparison
		if types.NameKey(p.Name) != want {
			continue
		}
		res.ProductIDs = append(res.ProductIDs, p.ID)
	}
	if len(res.ProductIDs) == 0 {
		return res, nil
	}
	res.ProductMatched = true

	quotes, err := m.store.QuotesForProducts(ctx, res.ProductIDs)
	if err != nil {
		return MatchResult{}, err
	}
	res.Candidates = quotes
	return res, nil
}

// Candidate returns the candidate with the given quote id.
func (r MatchResult) Candidate(quoteID uint) (Candidate, bool) {
	for _, c := range r.Candidates {
		if c.Quote.ID == quoteID {
			return c, true
		}
	}
	return Candidate{}, false
}
