package quotes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	"github.com/yungbote/procuremind-backend/internal/data/repos/testutil"
	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

// axisEmbedder maps known words onto unit axes so similarity is predictable.
type axisEmbedder struct {
	calls []string
	err   error
}

func (e *axisEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls = append(e.calls, text)
	if e.err != nil {
		return nil, e.err
	}
	vec := make([]float32, types.EmbeddingDimensions)
	switch {
	case strings.Contains(text, "pump"):
		vec[0] = 1
	case strings.Contains(text, "valve"):
		vec[1] = 1
	default:
		vec[2] = 1
	}
	return vec, nil
}

func (e *axisEmbedder) Generate(context.Context, string) (string, error) { return "", nil }

func newUsecases(t *testing.T, emb *axisEmbedder) (*Usecases, *catalog.GormStore) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	store := catalog.NewGormStore(db, testutil.Logger(t)).WithTx(tx)
	return New(UsecasesDeps{Store: store, LLM: emb, Log: testutil.Logger(t)}), store
}

func TestLogQuoteNewProductGetsEmbedding(t *testing.T) {
	emb := &axisEmbedder{}
	u, store := newUsecases(t, emb)
	ctx := context.Background()

	q, err := u.LogQuote(ctx, LogQuoteInput{
		NewProduct:  &ProductDraft{Name: "heavy pump", Description: "500W", Specs: "stainless"},
		NewSupplier: &SupplierDraft{Name: "Acme", ContactInfo: "sales@acme.test"},
		Price:       decimal.RequireFromString("1500"),
	})
	if err != nil {
		t.Fatalf("LogQuote: %v", err)
	}
	if q.Currency != types.DefaultCurrency {
		t.Fatalf("currency: %q", q.Currency)
	}
	if len(emb.calls) != 1 || emb.calls[0] != "heavy pump 500W stainless" {
		t.Fatalf("embed calls: %v", emb.calls)
	}
	p, err := store.GetProduct(ctx, q.ProductID)
	if err != nil || p.Name != "heavy pump" {
		t.Fatalf("product: %+v %v", p, err)
	}
}

func TestLogQuoteFromRFQItem(t *testing.T) {
	u, store := newUsecases(t, &axisEmbedder{})
	ctx := context.Background()

	var doc types.RFQDocument
	_ = doc.UnmarshalJSON([]byte(`{"title":"t","items":[{"name":"Gate valve","description":"DN50","uom":"Pcs"}]}`))
	rfq := &types.RFQ{RawText: "raw"}
	_ = rfq.SetDocument(doc)
	rfq, err := store.CreateRFQ(ctx, rfq)
	if err != nil {
		t.Fatalf("CreateRFQ: %v", err)
	}
	sup, _ := store.CreateSupplier(ctx, &types.Supplier{Name: "Bolt"})

	q, err := u.LogQuote(ctx, LogQuoteInput{
		FromRFQ:    &RFQItemRef{RFQID: rfq.ID, ItemIndex: 0},
		SupplierID: sup.ID,
		Price:      decimal.NewFromInt(80),
		Currency:   "eur",
	})
	if err != nil {
		t.Fatalf("LogQuote: %v", err)
	}
	if q.UOM == nil || *q.UOM != "Pcs" {
		t.Fatalf("uom not taken from item: %v", q.UOM)
	}
	p, _ := store.GetProduct(ctx, q.ProductID)
	if p.Name != "Gate valve" || p.Description == nil || *p.Description != "DN50" {
		t.Fatalf("product: %+v", p)
	}

	_, err = u.LogQuote(ctx, LogQuoteInput{FromRFQ: &RFQItemRef{RFQID: rfq.ID, ItemIndex: 4}, SupplierID: sup.ID})
	if !errors.Is(err, apierr.ErrValidation) {
		t.Fatalf("bad index: want validation error, got %v", err)
	}
}

func TestLogQuoteValidation(t *testing.T) {
	u, _ := newUsecases(t, &axisEmbedder{})
	ctx := context.Background()
	cases := map[string]LogQuoteInput{
		"negative price":   {ProductID: 1, SupplierID: 1, Price: decimal.NewFromInt(-1)},
		"no product":       {SupplierID: 1},
		"two products":     {ProductID: 1, NewProduct: &ProductDraft{Name: "x"}, SupplierID: 1},
		"no supplier":      {ProductID: 1},
		"blank product":    {NewProduct: &ProductDraft{Name: "  "}, SupplierID: 1},
		"blank supplier":   {ProductID: 1, NewSupplier: &SupplierDraft{}},
		"missing supplier": {NewProduct: &ProductDraft{Name: "pump"}, SupplierID: 0},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := u.LogQuote(ctx, in); !errors.Is(err, apierr.ErrValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}

func TestLogQuoteEmbeddingFailureWritesNothing(t *testing.T) {
	u, store := newUsecases(t, &axisEmbedder{err: apierr.Provider(errors.New("quota"))})
	ctx := context.Background()
	sup, _ := store.CreateSupplier(ctx, &types.Supplier{Name: "Acme"})

	_, err := u.LogQuote(ctx, LogQuoteInput{NewProduct: &ProductDraft{Name: "pump"}, SupplierID: sup.ID, Price: decimal.NewFromInt(1)})
	if !errors.Is(err, apierr.ErrProvider) {
		t.Fatalf("want provider error, got %v", err)
	}
	products, _ := store.ListProducts(ctx)
	if len(products) != 0 {
		t.Fatalf("product written despite failure: %d", len(products))
	}
}

func TestEditQuotesCommercialFieldsOnly(t *testing.T) {
	u, _ := newUsecases(t, &axisEmbedder{})
	ctx := context.Background()
	q, err := u.LogQuote(ctx, LogQuoteInput{
		NewProduct:  &ProductDraft{Name: "pump"},
		NewSupplier: &SupplierDraft{Name: "Acme"},
		Price:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("LogQuote: %v", err)
	}

	price := decimal.RequireFromString("12.5")
	note := "incl. delivery"
	out, err := u.EditQuotes(ctx, []QuoteEdit{{ID: q.ID, QuoteUpdate: types.QuoteUpdate{Price: &price, Note: &note}}})
	if err != nil {
		t.Fatalf("EditQuotes: %v", err)
	}
	if !out[0].Price.Equal(price) || out[0].ProductID != q.ProductID || *out[0].Note != note {
		t.Fatalf("edited: %+v", out[0])
	}

	neg := decimal.NewFromInt(-5)
	if _, err := u.EditQuotes(ctx, []QuoteEdit{{ID: q.ID, QuoteUpdate: types.QuoteUpdate{Price: &neg}}}); !errors.Is(err, apierr.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}

	history, err := u.History(ctx)
	if err != nil || len(history) != 1 || history[0].Supplier.Name != "Acme" {
		t.Fatalf("history: %+v %v", history, err)
	}
}

func TestEditQuotesMissingQuoteKeepsEarlierEdits(t *testing.T) {
	u, store := newUsecases(t, &axisEmbedder{})
	ctx := context.Background()
	q, err := u.LogQuote(ctx, LogQuoteInput{
		NewProduct:  &ProductDraft{Name: "pump"},
		NewSupplier: &SupplierDraft{Name: "Acme"},
		Price:       decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("LogQuote: %v", err)
	}

	price := decimal.NewFromInt(5)
	_, err = u.EditQuotes(ctx, []QuoteEdit{
		{ID: q.ID, QuoteUpdate: types.QuoteUpdate{Price: &price}},
		{ID: 999999, QuoteUpdate: types.QuoteUpdate{Price: &price}},
	})
	if !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	got, err := store.GetQuote(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if !got.Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("partial batch committed: price=%s", got.Price)
	}
}

func TestSearchProductsRanksBySimilarity(t *testing.T) {
	u, _ := newUsecases(t, &axisEmbedder{})
	ctx := context.Background()
	for _, name := range []string{"valve", "pump", "gasket"} {
		if _, err := u.LogQuote(ctx, LogQuoteInput{
			NewProduct:  &ProductDraft{Name: name},
			NewSupplier: &SupplierDraft{Name: "S-" + name},
			Price:       decimal.NewFromInt(1),
		}); err != nil {
			t.Fatalf("LogQuote %s: %v", name, err)
		}
	}

	res, err := u.SearchProducts(ctx, "big pump", 0)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(res) != 3 || res[0].Product.Name != "pump" {
		t.Fatalf("results: %+v", res)
	}
	if res[0].Similarity < 0.99 || len(res[0].Quotes) != 1 || res[0].Quotes[0].Supplier.Name != "S-pump" {
		t.Fatalf("top match: %+v", res[0])
	}

	empty, err := u.SearchProducts(ctx, "  ", 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty query: %v %v", empty, err)
	}
}
