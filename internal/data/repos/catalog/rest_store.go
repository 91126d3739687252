package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/httpx"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type RESTConfig struct {
	// BaseURL is the project URL, e.g. https://xyz.supabase.co
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// MatchFunction is the SQL function called for similarity search.
	MatchFunction string
}

// RESTStore talks to a PostgREST endpoint (Supabase). Multi-row writes are
// not transactional there; LogQuote deletes what it created when a later
// step fails.
type RESTStore struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	matchFn    string
	httpClient *http.Client
}

func NewRESTStore(cfg RESTConfig, log *logger.Logger) (*RESTStore, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("missing rest store base url")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing rest store api key")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	matchFn := strings.TrimSpace(cfg.MatchFunction)
	if matchFn == "" {
		matchFn = "match_products"
	}
	return &RESTStore{
		log:        log.With("repo", "CatalogRESTStore"),
		baseURL:    base,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		matchFn:    matchFn,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPClient swaps the transport, mainly for tests.
func (s *RESTStore) WithHTTPClient(c *http.Client) *RESTStore {
	cp := *s
	cp.httpClient = c
	return &cp
}

func (s *RESTStore) doOnce(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpx.StatusError{Service: "postgrest", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func (s *RESTStore) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	raw, err := s.doOnce(ctx, method, path, query, body)
	if err != nil {
		if httpx.IsUnavailable(err) {
			s.log.Warn("Catalog REST request failed", "op", op, "path", path, "error", err.Error())
		}
		return mapError(op, err)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("%s: decode response: %w", op, err))
	}
	return nil
}

func table(name string) string { return "/rest/v1/" + name }

func eqID(id uint) url.Values {
	return url.Values{"id": {"eq." + strconv.FormatUint(uint64(id), 10)}}
}

func inIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}

// escapeLike escapes LIKE metacharacters so ilike behaves as equality.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `\*`)
	return r.Replace(s)
}

func (s *RESTStore) Ping(ctx context.Context) error {
	return s.do(ctx, "ping", http.MethodGet, table("suppliers"), url.Values{"select": {"id"}, "limit": {"1"}}, nil, nil)
}

// ---- wire rows ----

// restTime accepts PostgREST timestamps with or without zone, and dates.
type restTime struct{ time.Time }

func (t *restTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

type supplierRow struct {
	Name        string  `json:"name"`
	ContactInfo *string `json:"contact_info"`
}

type supplierRowIn struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	ContactInfo *string  `json:"contact_info"`
	CreatedAt   restTime `json:"created_at"`
}

func (r supplierRowIn) domain() *types.Supplier {
	return &types.Supplier{ID: r.ID, Name: r.Name, ContactInfo: r.ContactInfo, CreatedAt: r.CreatedAt.Time}
}

type productRowOut struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Specs       *string `json:"specs"`
	Embedding   *string `json:"embedding,omitempty"`
}

type productRowIn struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Specs       *string  `json:"specs"`
	CreatedAt   restTime `json:"created_at"`
	Similarity  *float64 `json:"similarity,omitempty"`
}

func (r productRowIn) domain() *types.Product {
	return &types.Product{ID: r.ID, Name: r.Name, Description: r.Description, Specs: r.Specs, CreatedAt: r.CreatedAt.Time}
}

const productColumns = "id,name,description,specs,created_at"

type quoteRowOut struct {
	ProductID  uint            `json:"product_id"`
	SupplierID uint            `json:"supplier_id"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	UOM        *string         `json:"uom"`
	SourceURL  *string         `json:"source_url"`
	Note       *string         `json:"note"`
	QuoteDate  string          `json:"quote_date"`
}

type quoteRowIn struct {
	ID         uint            `json:"id"`
	ProductID  uint            `json:"product_id"`
	SupplierID uint            `json:"supplier_id"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	UOM        *string         `json:"uom"`
	SourceURL  *string         `json:"source_url"`
	Note       *string         `json:"note"`
	QuoteDate  restTime        `json:"quote_date"`
	CreatedAt  restTime        `json:"created_at"`
}

func (r quoteRowIn) domain() types.Quote {
	return types.Quote{
		ID:         r.ID,
		ProductID:  r.ProductID,
		SupplierID: r.SupplierID,
		Price:      r.Price,
		Currency:   r.Currency,
		UOM:        r.UOM,
		SourceURL:  r.SourceURL,
		Note:       r.Note,
		QuoteDate:  r.QuoteDate.Time,
		CreatedAt:  r.CreatedAt.Time,
	}
}

type rfqRowIn struct {
	ID         uint           `json:"id"`
	RawText    string         `json:"raw_text"`
	ParsedJSON datatypes.JSON `json:"parsed_json"`
	CreatedAt  restTime       `json:"created_at"`
}

func (r rfqRowIn) domain() *types.RFQ {
	return &types.RFQ{ID: r.ID, RawText: r.RawText, ParsedJSON: r.ParsedJSON, CreatedAt: r.CreatedAt.Time}
}

// ---- suppliers ----

func (s *RESTStore) CreateSupplier(ctx context.Context, sup *types.Supplier) (*types.Supplier, error) {
	if sup == nil || strings.TrimSpace(sup.Name) == "" {
		return nil, apierr.Validation("supplier name is required")
	}
	var rows []supplierRowIn
	body := supplierRow{Name: sup.Name, ContactInfo: sup.ContactInfo}
	if err := s.do(ctx, "create supplier", http.MethodPost, table("suppliers"), nil, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create supplier: empty representation"))
	}
	*sup = *rows[0].domain()
	return sup, nil
}

func (s *RESTStore) GetSupplier(ctx context.Context, id uint) (*types.Supplier, error) {
	var rows []supplierRowIn
	if err := s.do(ctx, "get supplier", http.MethodGet, table("suppliers"), eqID(id), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("supplier %d not found", id)
	}
	return rows[0].domain(), nil
}

func (s *RESTStore) ListSuppliers(ctx context.Context) ([]*types.Supplier, error) {
	var rows []supplierRowIn
	q := url.Values{"order": {"name.asc,id.asc"}}
	if err := s.do(ctx, "list suppliers", http.MethodGet, table("suppliers"), q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]*types.Supplier, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.domain())
	}
	return out, nil
}

func (s *RESTStore) suppliersByID(ctx context.Context, op string, ids []uint) ([]types.Supplier, error) {
	var rows []supplierRowIn
	if err := s.do(ctx, op, http.MethodGet, table("suppliers"), url.Values{"id": {inIDs(ids)}}, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]types.Supplier, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.domain())
	}
	return out, nil
}

// ---- products ----

func productBody(p *types.Product) productRowOut {
	out := productRowOut{Name: p.Name, Description: p.Description, Specs: p.Specs}
	if p.Embedding != nil {
		v := p.Embedding.String()
		out.Embedding = &v
	}
	return out
}

func (s *RESTStore) CreateProduct(ctx context.Context, p *types.Product) (*types.Product, error) {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return nil, apierr.Validation("product name is required")
	}
	var rows []productRowIn
	q := url.Values{"select": {productColumns}}
	if err := s.do(ctx, "create product", http.MethodPost, table("products"), q, productBody(p), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create product: empty representation"))
	}
	emb := p.Embedding
	*p = *rows[0].domain()
	p.Embedding = emb
	return p, nil
}

func (s *RESTStore) GetProduct(ctx context.Context, id uint) (*types.Product, error) {
	var rows []productRowIn
	q := eqID(id)
	q.Set("select", productColumns)
	if err := s.do(ctx, "get product", http.MethodGet, table("products"), q, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("product %d not found", id)
	}
	return rows[0].domain(), nil
}

func (s *RESTStore) ListProducts(ctx context.Context) ([]*types.Product, error) {
	return s.listProducts(ctx, "list products", url.Values{"select": {productColumns}, "order": {"name.asc,id.asc"}})
}

func (s *RESTStore) FindProductsByName(ctx context.Context, name string) ([]*types.Product, error) {
	q := url.Values{
		"select": {productColumns},
		"name":   {"ilike." + escapeLike(name)},
		"order":  {"id.asc"},
	}
	rows, err := s.listProducts(ctx, "find products by name", q)
	if err != nil {
		return nil, err
	}
	key := types.NameKey(name)
	out := rows[:0]
	for _, p := range rows {
		if types.NameKey(p.Name) == key {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *RESTStore) listProducts(ctx context.Context, op string, q url.Values) ([]*types.Product, error) {
	var rows []productRowIn
	if err := s.do(ctx, op, http.MethodGet, table("products"), q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]*types.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.domain())
	}
	return out, nil
}

func (s *RESTStore) productsByID(ctx context.Context, op string, ids []uint) ([]types.Product, error) {
	rows, err := s.listProducts(ctx, op, url.Values{"select": {productColumns}, "id": {inIDs(ids)}})
	if err != nil {
		return nil, err
	}
	out := make([]types.Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, *p)
	}
	return out, nil
}

type matchProductsRequest struct {
	QueryEmbedding string  `json:"query_embedding"`
	MatchThreshold float64 `json:"match_threshold"`
	MatchCount     int     `json:"match_count"`
}

func (s *RESTStore) SimilarProducts(ctx context.Context, embedding []float32, topK int, threshold float64) ([]ProductMatch, error) {
	if len(embedding) == 0 {
		return []ProductMatch{}, nil
	}
	count := topK
	if count <= 0 {
		count = 1000
	}
	body := matchProductsRequest{
		QueryEmbedding: pgvector.NewVector(embedding).String(),
		MatchThreshold: threshold,
		MatchCount:     count,
	}
	var rows []productRowIn
	if err := s.do(ctx, "similar products", http.MethodPost, "/rest/v1/rpc/"+s.matchFn, nil, body, &rows); err != nil {
		return nil, err
	}
	out := make([]ProductMatch, 0, len(rows))
	for _, r := range rows {
		sim := 0.0
		if r.Similarity != nil {
			sim = *r.Similarity
		}
		out = append(out, ProductMatch{Product: *r.domain(), Similarity: sim})
	}
	return topMatches(out, topK, threshold), nil
}

// ---- quotes ----

func (s *RESTStore) LogQuote(ctx context.Context, in types.NewQuote) (*types.Quote, error) {
	if in.Price.IsNegative() {
		return nil, apierr.Validation("price must be >= 0")
	}
	var undo []func()
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
	compensate := func(tbl string, id uint) {
		undo = append(undo, func() {
			// runs even when the request context is already done
			cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := s.do(cctx, "log quote rollback", http.MethodDelete, table(tbl), eqID(id), nil, nil); err != nil {
				s.log.Error("Log quote rollback failed", "table", tbl, "id", id, "error", err)
			}
		})
	}

	productID := in.ProductID
	if in.NewProduct != nil {
		p := *in.NewProduct
		created, err := s.CreateProduct(ctx, &p)
		if err != nil {
			return nil, err
		}
		productID = created.ID
		compensate("products", productID)
	} else if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	supplierID := in.SupplierID
	if in.NewSupplier != nil {
		sup := *in.NewSupplier
		created, err := s.CreateSupplier(ctx, &sup)
		if err != nil {
			rollback()
			return nil, err
		}
		supplierID = created.ID
		compensate("suppliers", supplierID)
	} else if _, err := s.GetSupplier(ctx, supplierID); err != nil {
		rollback()
		return nil, err
	}

	body := quoteRowOut{
		ProductID:  productID,
		SupplierID: supplierID,
		Price:      in.Price,
		Currency:   normalizeCurrency(in.Currency),
		UOM:        in.UOM,
		SourceURL:  in.SourceURL,
		Note:       in.Note,
		QuoteDate:  quoteDate(in.QuoteDate).Format("2006-01-02"),
	}
	var rows []quoteRowIn
	if err := s.do(ctx, "log quote", http.MethodPost, table("quotes"), nil, body, &rows); err != nil {
		rollback()
		return nil, err
	}
	if len(rows) == 0 {
		rollback()
		return nil, apierr.StoreUnavailable(fmt.Errorf("log quote: empty representation"))
	}
	q := rows[0].domain()
	return &q, nil
}

func (s *RESTStore) GetQuote(ctx context.Context, id uint) (*types.Quote, error) {
	var rows []quoteRowIn
	if err := s.do(ctx, "get quote", http.MethodGet, table("quotes"), eqID(id), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("quote %d not found", id)
	}
	q := rows[0].domain()
	return &q, nil
}

func (s *RESTStore) UpdateQuote(ctx context.Context, id uint, upd types.QuoteUpdate) (*types.Quote, error) {
	if upd.Price != nil && upd.Price.IsNegative() {
		return nil, apierr.Validation("price must be >= 0")
	}
	body := quotePatch(upd)
	if len(body) == 0 {
		return s.GetQuote(ctx, id)
	}
	return s.patchQuote(ctx, "update quote", id, body)
}

// UpdateQuotes reads every quote first so a missing id writes nothing. A
// failed write part way restores the quotes already patched to the values
// read.
func (s *RESTStore) UpdateQuotes(ctx context.Context, edits []types.QuoteEdit) ([]*types.Quote, error) {
	prior := make([]*types.Quote, 0, len(edits))
	for _, e := range edits {
		if e.Price != nil && e.Price.IsNegative() {
			return nil, apierr.Validation("quote %d: price must be >= 0", e.ID)
		}
		q, err := s.GetQuote(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		prior = append(prior, q)
	}

	out := make([]*types.Quote, 0, len(edits))
	for i, e := range edits {
		body := quotePatch(e.QuoteUpdate)
		if len(body) == 0 {
			out = append(out, prior[i])
			continue
		}
		q, err := s.patchQuote(ctx, "update quotes", e.ID, body)
		if err != nil {
			s.restoreQuotes(ctx, prior[:i])
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *RESTStore) restoreQuotes(ctx context.Context, quotes []*types.Quote) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	for i := len(quotes) - 1; i >= 0; i-- {
		q := quotes[i]
		body := map[string]any{
			"price":      q.Price,
			"currency":   q.Currency,
			"uom":        q.UOM,
			"source_url": q.SourceURL,
			"note":       q.Note,
		}
		if _, err := s.patchQuote(cctx, "update quotes rollback", q.ID, body); err != nil {
			s.log.Error("Quote edit rollback failed", "quote_id", q.ID, "error", err)
		}
	}
}

func (s *RESTStore) patchQuote(ctx context.Context, op string, id uint, body map[string]any) (*types.Quote, error) {
	var rows []quoteRowIn
	if err := s.do(ctx, op, http.MethodPatch, table("quotes"), eqID(id), body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("quote %d not found", id)
	}
	q := rows[0].domain()
	return &q, nil
}

func quotePatch(upd types.QuoteUpdate) map[string]any {
	body := map[string]any{}
	if upd.Price != nil {
		body["price"] = *upd.Price
	}
	if upd.Currency != nil {
		body["currency"] = normalizeCurrency(*upd.Currency)
	}
	if upd.UOM != nil {
		body["uom"] = *upd.UOM
	}
	if upd.SourceURL != nil {
		body["source_url"] = *upd.SourceURL
	}
	if upd.Note != nil {
		body["note"] = *upd.Note
	}
	return body
}

func (s *RESTStore) DeleteQuote(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, "quotes", "quote", id)
}

func (s *RESTStore) deleteByID(ctx context.Context, tbl, kind string, id uint) error {
	var rows []json.RawMessage
	q := eqID(id)
	q.Set("select", "id")
	if err := s.do(ctx, "delete "+kind, http.MethodDelete, table(tbl), q, nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return apierr.NotFound("%s %d not found", kind, id)
	}
	return nil
}

func (s *RESTStore) ListQuoteDetails(ctx context.Context) ([]types.QuoteDetail, error) {
	var rows []quoteRowIn
	q := url.Values{"order": {"created_at.desc,id.desc"}}
	if err := s.do(ctx, "list quotes", http.MethodGet, table("quotes"), q, nil, &rows); err != nil {
		return nil, err
	}
	return s.details(ctx, "list quotes", rows)
}

func (s *RESTStore) QuotesForProducts(ctx context.Context, productIDs []uint) ([]types.QuoteDetail, error) {
	if len(productIDs) == 0 {
		return []types.QuoteDetail{}, nil
	}
	var rows []quoteRowIn
	q := url.Values{"product_id": {inIDs(productIDs)}, "order": {"id.asc"}}
	if err := s.do(ctx, "quotes for products", http.MethodGet, table("quotes"), q, nil, &rows); err != nil {
		return nil, err
	}
	return s.details(ctx, "quotes for products", rows)
}

func (s *RESTStore) details(ctx context.Context, op string, rows []quoteRowIn) ([]types.QuoteDetail, error) {
	if len(rows) == 0 {
		return []types.QuoteDetail{}, nil
	}
	quotes := make([]types.Quote, 0, len(rows))
	pIDs := make([]uint, 0, len(rows))
	sIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		q := r.domain()
		quotes = append(quotes, q)
		pIDs = append(pIDs, q.ProductID)
		sIDs = append(sIDs, q.SupplierID)
	}
	products, err := s.productsByID(ctx, op, pIDs)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.suppliersByID(ctx, op, sIDs)
	if err != nil {
		return nil, err
	}
	return joinDetails(quotes, products, suppliers), nil
}

// ---- rfqs ----

type rfqRowOut struct {
	RawText    string          `json:"raw_text"`
	ParsedJSON json.RawMessage `json:"parsed_json"`
}

func (s *RESTStore) CreateRFQ(ctx context.Context, r *types.RFQ) (*types.RFQ, error) {
	if r == nil {
		return nil, apierr.Validation("rfq is required")
	}
	if len(r.ParsedJSON) == 0 {
		if err := r.SetDocument(types.RFQDocument{}); err != nil {
			return nil, err
		}
	}
	var rows []rfqRowIn
	body := rfqRowOut{RawText: r.RawText, ParsedJSON: json.RawMessage(r.ParsedJSON)}
	if err := s.do(ctx, "create rfq", http.MethodPost, table("rfqs"), nil, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create rfq: empty representation"))
	}
	*r = *rows[0].domain()
	return r, nil
}

func (s *RESTStore) GetRFQ(ctx context.Context, id uint) (*types.RFQ, error) {
	var rows []rfqRowIn
	if err := s.do(ctx, "get rfq", http.MethodGet, table("rfqs"), eqID(id), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("rfq %d not found", id)
	}
	return rows[0].domain(), nil
}

func (s *RESTStore) ListRFQs(ctx context.Context, limit int) ([]*types.RFQ, error) {
	var rows []rfqRowIn
	q := url.Values{"order": {"created_at.desc,id.desc"}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if err := s.do(ctx, "list rfqs", http.MethodGet, table("rfqs"), q, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]*types.RFQ, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.domain())
	}
	return out, nil
}

func (s *RESTStore) UpdateRFQ(ctx context.Context, id uint, doc types.RFQDocument) (*types.RFQ, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var rows []rfqRowIn
	body := map[string]json.RawMessage{"parsed_json": b}
	if err := s.do(ctx, "update rfq", http.MethodPatch, table("rfqs"), eqID(id), body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("rfq %d not found", id)
	}
	return rows[0].domain(), nil
}

func (s *RESTStore) DeleteRFQ(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, "rfqs", "rfq", id)
}
