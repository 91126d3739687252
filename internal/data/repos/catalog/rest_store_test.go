package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestRESTStore(t *testing.T, fn roundTripFunc) *RESTStore {
	t.Helper()
	s, err := NewRESTStore(RESTConfig{BaseURL: "https://proj.supabase.co/", APIKey: "anon-key"}, logger.Nop())
	if err != nil {
		t.Fatalf("NewRESTStore: %v", err)
	}
	return s.WithHTTPClient(&http.Client{Transport: fn})
}

func jsonResponse(t *testing.T, status int, payload any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(raw)),
	}
}

func TestRESTStoreFindProductsByNameRequestShape(t *testing.T) {
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodGet {
			t.Fatalf("method: want=GET got=%s", r.Method)
		}
		if r.URL.Path != "/rest/v1/products" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != `ilike.50\% cement` {
			t.Fatalf("name filter: got=%q", got)
		}
		if r.Header.Get("apikey") != "anon-key" || r.Header.Get("Authorization") != "Bearer anon-key" {
			t.Fatalf("auth headers missing")
		}
		return jsonResponse(t, http.StatusOK, []map[string]any{
			{"id": 3, "name": "50% Cement", "created_at": "2024-01-02T03:04:05.123456+00:00"},
			{"id": 4, "name": "50% Cement bag"},
		}), nil
	})

	got, err := s.FindProductsByName(context.Background(), "50% cement")
	if err != nil {
		t.Fatalf("FindProductsByName: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("unexpected: %+v", got)
	}
	if got[0].CreatedAt.Year() != 2024 {
		t.Fatalf("created_at: %v", got[0].CreatedAt)
	}
}

func TestRESTStoreUnavailable(t *testing.T) {
	cases := []struct {
		name string
		fn   roundTripFunc
	}{
		{"transport", func(r *http.Request) (*http.Response, error) {
			return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
		}},
		{"5xx", func(r *http.Request) (*http.Response, error) {
			return jsonResponse(t, http.StatusBadGateway, map[string]any{"message": "upstream"}), nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestRESTStore(t, tc.fn)
			_, err := s.QuotesForProducts(context.Background(), []uint{1})
			if !errors.Is(err, apierr.ErrStoreUnavailable) {
				t.Fatalf("want store unavailable, got %v", err)
			}
		})
	}
}

func TestRESTStoreQuotesForProductsJoins(t *testing.T) {
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		switch r.URL.Path {
		case "/rest/v1/quotes":
			if got := r.URL.Query().Get("product_id"); got != "in.(7,8)" {
				t.Fatalf("product filter: %q", got)
			}
			if got := r.URL.Query().Get("order"); got != "id.asc" {
				t.Fatalf("order: %q", got)
			}
			return jsonResponse(t, http.StatusOK, []map[string]any{
				{"id": 1, "product_id": 7, "supplier_id": 2, "price": 12.5, "currency": "USD", "quote_date": "2024-01-15"},
				{"id": 2, "product_id": 8, "supplier_id": 99, "price": "3", "currency": "USD", "quote_date": "2024-01-15"},
			}), nil
		case "/rest/v1/products":
			return jsonResponse(t, http.StatusOK, []map[string]any{{"id": 7, "name": "Pump"}, {"id": 8, "name": "pump"}}), nil
		case "/rest/v1/suppliers":
			return jsonResponse(t, http.StatusOK, []map[string]any{{"id": 2, "name": "Acme"}}), nil
		}
		t.Fatalf("unexpected path %s", r.URL.Path)
		return nil, nil
	})

	got, err := s.QuotesForProducts(context.Background(), []uint{7, 8})
	if err != nil {
		t.Fatalf("QuotesForProducts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("quote without supplier must be dropped, got %d", len(got))
	}
	if !got[0].Quote.Price.Equal(decimal.RequireFromString("12.5")) || got[0].Supplier.Name != "Acme" {
		t.Fatalf("unexpected: %+v", got[0])
	}
	if got[0].Quote.QuoteDate.Day() != 15 {
		t.Fatalf("quote date: %v", got[0].Quote.QuoteDate)
	}
}

func TestRESTStoreLogQuoteCompensatesOnFailure(t *testing.T) {
	var deleted []string
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/products":
			if r.Header.Get("Prefer") != "return=representation" {
				t.Fatalf("Prefer header missing")
			}
			return jsonResponse(t, http.StatusCreated, []map[string]any{{"id": 11, "name": "Valve"}}), nil
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/suppliers":
			return jsonResponse(t, http.StatusCreated, []map[string]any{{"id": 21, "name": "Beta"}}), nil
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/quotes":
			return jsonResponse(t, http.StatusServiceUnavailable, map[string]any{"message": "down"}), nil
		case r.Method == http.MethodDelete:
			deleted = append(deleted, r.URL.Path+"?"+r.URL.Query().Get("id"))
			return jsonResponse(t, http.StatusOK, []map[string]any{{"id": 1}}), nil
		}
		t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		return nil, nil
	})

	_, err := s.LogQuote(context.Background(), types.NewQuote{
		NewProduct:  &types.Product{Name: "Valve"},
		NewSupplier: &types.Supplier{Name: "Beta"},
		Price:       decimal.NewFromInt(10),
	})
	if !errors.Is(err, apierr.ErrStoreUnavailable) {
		t.Fatalf("want store unavailable, got %v", err)
	}
	want := "/rest/v1/suppliers?eq.21,/rest/v1/products?eq.11"
	if got := strings.Join(deleted, ","); got != want {
		t.Fatalf("compensation: got=%q want=%q", got, want)
	}
}

func TestRESTStoreLogQuoteSendsDefaults(t *testing.T) {
	var body map[string]any
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		switch r.URL.Path {
		case "/rest/v1/products":
			return jsonResponse(t, http.StatusOK, []map[string]any{{"id": 1, "name": "Valve"}}), nil
		case "/rest/v1/suppliers":
			return jsonResponse(t, http.StatusOK, []map[string]any{{"id": 2, "name": "Beta"}}), nil
		case "/rest/v1/quotes":
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			return jsonResponse(t, http.StatusCreated, []map[string]any{{"id": 5, "product_id": 1, "supplier_id": 2, "price": 10, "currency": "USD"}}), nil
		}
		return nil, nil
	})

	q, err := s.LogQuote(context.Background(), types.NewQuote{ProductID: 1, SupplierID: 2, Price: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("LogQuote: %v", err)
	}
	if q.ID != 5 {
		t.Fatalf("id: %d", q.ID)
	}
	if body["currency"] != "USD" {
		t.Fatalf("currency default: %v", body["currency"])
	}
	if d, _ := body["quote_date"].(string); len(d) != len("2006-01-02") {
		t.Fatalf("quote_date: %v", body["quote_date"])
	}
}

func TestRESTStoreGetNotFound(t *testing.T) {
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(t, http.StatusOK, []any{}), nil
	})
	if _, err := s.GetRFQ(context.Background(), 9); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if err := s.DeleteQuote(context.Background(), 9); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestRESTStoreSimilarProductsCallsRPC(t *testing.T) {
	var body matchProductsRequest
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/rest/v1/rpc/match_products" {
			t.Fatalf("path: %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return jsonResponse(t, http.StatusOK, []map[string]any{
			{"id": 1, "name": "a", "similarity": 0.4},
			{"id": 2, "name": "b", "similarity": 0.8},
		}), nil
	})
	got, err := s.SimilarProducts(context.Background(), []float32{1, 0}, 5, NoThreshold)
	if err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}
	if body.MatchCount != 5 || body.QueryEmbedding != "[1,0]" {
		t.Fatalf("request: %+v", body)
	}
	if len(got) != 2 || got[0].Product.ID != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestRESTStoreUpdateQuotesMissingIDWritesNothing(t *testing.T) {
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected write %s %s", r.Method, r.URL)
		}
		if r.URL.Query().Get("id") == "eq.1" {
			return jsonResponse(t, http.StatusOK, []map[string]any{{"id": 1, "price": "100", "currency": "USD"}}), nil
		}
		return jsonResponse(t, http.StatusOK, []map[string]any{}), nil
	})

	price := decimal.NewFromInt(5)
	_, err := s.UpdateQuotes(context.Background(), []types.QuoteEdit{
		{ID: 1, QuoteUpdate: types.QuoteUpdate{Price: &price}},
		{ID: 999999, QuoteUpdate: types.QuoteUpdate{Price: &price}},
	})
	if !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestRESTStoreUpdateQuotesRestoresOnFailure(t *testing.T) {
	var patches []string
	var restored map[string]any
	s := newTestRESTStore(t, func(r *http.Request) (*http.Response, error) {
		id := r.URL.Query().Get("id")
		switch r.Method {
		case http.MethodGet:
			rows := map[string]map[string]any{
				"eq.1": {"id": 1, "price": "100", "currency": "USD"},
				"eq.2": {"id": 2, "price": "200", "currency": "USD"},
			}
			return jsonResponse(t, http.StatusOK, []map[string]any{rows[id]}), nil
		case http.MethodPatch:
			patches = append(patches, id)
			if id == "eq.2" {
				return jsonResponse(t, http.StatusInternalServerError, map[string]any{"message": "boom"}), nil
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode patch: %v", err)
			}
			if len(patches) > 2 {
				restored = body
			}
			return jsonResponse(t, http.StatusOK, []map[string]any{{"id": 1, "price": body["price"], "currency": "USD"}}), nil
		}
		t.Fatalf("unexpected %s", r.Method)
		return nil, nil
	})

	price := decimal.NewFromInt(5)
	_, err := s.UpdateQuotes(context.Background(), []types.QuoteEdit{
		{ID: 1, QuoteUpdate: types.QuoteUpdate{Price: &price}},
		{ID: 2, QuoteUpdate: types.QuoteUpdate{Price: &price}},
	})
	if !errors.Is(err, apierr.ErrStoreUnavailable) {
		t.Fatalf("want store unavailable, got %v", err)
	}
	if len(patches) != 3 || patches[2] != "eq.1" {
		t.Fatalf("patches: %v", patches)
	}
	if restored == nil {
		t.Fatalf("quote 1 was not restored")
	}
	got, err := decimal.NewFromString(strings.Trim(string(mustJSON(t, restored["price"])), `"`))
	if err != nil || !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("restored price: %v (%v)", restored["price"], err)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}
