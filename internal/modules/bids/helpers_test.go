package bids

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	types "github.com/yungbote/procuremind-backend/internal/domain"
)

// stubStore serves name lookups and joins from memory. Unused methods panic.
type stubStore struct {
	catalog.Store

	products []*types.Product
	quotes   []types.QuoteDetail
	err      error

	nameCalls int
}

func (s *stubStore) FindProductsByName(_ context.Context, name string) ([]*types.Product, error) {
	s.nameCalls++
	if s.err != nil {
		return nil, s.err
	}
	// loose on purpose: the matcher must do its own exact comparison
	return s.products, nil
}

func (s *stubStore) QuotesForProducts(_ context.Context, ids []uint) ([]types.QuoteDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []types.QuoteDetail
	for _, q := range s.quotes {
		if want[q.Quote.ProductID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func candidate(quoteID, productID uint, productName, supplier, price, currency string) Candidate {
	return Candidate{
		Quote: types.Quote{
			ID:         quoteID,
			ProductID:  productID,
			SupplierID: quoteID * 10,
			Price:      decimal.RequireFromString(price),
			Currency:   currency,
			QuoteDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Product:  types.Product{ID: productID, Name: productName},
		Supplier: types.Supplier{ID: quoteID * 10, Name: supplier},
	}
}

func mustDoc(t *testing.T, raw string) types.RFQDocument {
	t.Helper()
	var doc types.RFQDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}
	return doc
}
