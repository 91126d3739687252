package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"

	"github.com/yungbote/procuremind-backend/internal/data/repos/catalog"
	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/llm"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

// DefaultSearchTopK is how many products a semantic search returns.
const DefaultSearchTopK = 5

type UsecasesDeps struct {
	Store catalog.Store
	LLM   llm.Provider
	Log   *logger.Logger
}

type Usecases struct {
	deps UsecasesDeps
	log  *logger.Logger
}

func New(deps UsecasesDeps) *Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Usecases{deps: deps, log: deps.Log.With("service", "QuoteUsecases")}
}

type ProductDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Specs       string `json:"specs"`
}

type SupplierDraft struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contact_info"`
}

// RFQItemRef points at an item of a stored RFQ. Non-empty overrides replace
// the item's own name, description or specs.
type RFQItemRef struct {
	RFQID     uint         `json:"rfq_id"`
	ItemIndex int          `json:"item_index"`
	Override  ProductDraft `json:"override"`
}

// LogQuoteInput names exactly one product source and one supplier source.
type LogQuoteInput struct {
	ProductID  uint          `json:"product_id"`
	NewProduct *ProductDraft `json:"new_product"`
	FromRFQ    *RFQItemRef   `json:"from_rfq"`

	SupplierID  uint           `json:"supplier_id"`
	NewSupplier *SupplierDraft `json:"new_supplier"`

	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	UOM       string          `json:"uom"`
	SourceURL string          `json:"source_url"`
	Note      string          `json:"note"`
	QuoteDate *time.Time      `json:"quote_date"`
}

// LogQuote records a supplier offer, creating the product (with its
// embedding) and the supplier first when they are new.
func (u *Usecases) LogQuote(ctx context.Context, in LogQuoteInput) (*types.Quote, error) {
	if in.Price.IsNegative() {
		return nil, apierr.Validation("price must be >= 0")
	}
	sources := 0
	for _, set := range []bool{in.ProductID != 0, in.NewProduct != nil, in.FromRFQ != nil} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, apierr.Validation("choose exactly one of product_id, new_product, from_rfq")
	}
	if (in.SupplierID != 0) == (in.NewSupplier != nil) {
		return nil, apierr.Validation("choose exactly one of supplier_id, new_supplier")
	}

	nq := types.NewQuote{
		ProductID:  in.ProductID,
		SupplierID: in.SupplierID,
		Price:      in.Price,
		Currency:   in.Currency,
		UOM:        optional(in.UOM),
		SourceURL:  optional(in.SourceURL),
		Note:       optional(in.Note),
	}
	if in.QuoteDate != nil {
		nq.QuoteDate = *in.QuoteDate
	}

	draft := in.NewProduct
	if in.FromRFQ != nil {
		d, uom, err := u.draftFromRFQ(ctx, *in.FromRFQ)
		if err != nil {
			return nil, err
		}
		draft = &d
		if nq.UOM == nil {
			nq.UOM = optional(uom)
		}
	}
	if draft != nil {
		p, err := u.newProduct(ctx, *draft)
		if err != nil {
			return nil, err
		}
		nq.NewProduct = p
	}

	if in.NewSupplier != nil {
		s, err := newSupplier(*in.NewSupplier)
		if err != nil {
			return nil, err
		}
		nq.NewSupplier = s
	}

	q, err := u.deps.Store.LogQuote(ctx, nq)
	if err != nil {
		return nil, err
	}
	u.log.Info("Quote logged",
		"quote_id", q.ID,
		"product_id", q.ProductID,
		"supplier_id", q.SupplierID,
		"new_product", nq.NewProduct != nil,
		"new_supplier", nq.NewSupplier != nil,
	)
	return q, nil
}

func (u *Usecases) draftFromRFQ(ctx context.Context, ref RFQItemRef) (ProductDraft, string, error) {
	rfq, err := u.deps.Store.GetRFQ(ctx, ref.RFQID)
	if err != nil {
		return ProductDraft{}, "", err
	}
	doc, err := rfq.Document()
	if err != nil {
		return ProductDraft{}, "", apierr.Validation("rfq %d has an unreadable document: %v", ref.RFQID, err)
	}
	if ref.ItemIndex < 0 || ref.ItemIndex >= len(doc.Items) {
		return ProductDraft{}, "", apierr.Validation("rfq %d has no item %d", ref.RFQID, ref.ItemIndex)
	}
	it := doc.Items[ref.ItemIndex]
	d := ProductDraft{
		Name:        firstNonEmpty(ref.Override.Name, it.Name.Text()),
		Description: firstNonEmpty(ref.Override.Description, it.Description.Text()),
		Specs:       firstNonEmpty(ref.Override.Specs, it.Specs.Text()),
	}
	return d, it.UOM.Text(), nil
}

func (u *Usecases) newProduct(ctx context.Context, d ProductDraft) (*types.Product, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, apierr.Validation("product name is required")
	}
	p := &types.Product{
		Name:        name,
		Description: optional(d.Description),
		Specs:       optional(d.Specs),
	}
	vec, err := u.deps.LLM.Embed(ctx, p.EmbeddingText())
	if err != nil {
		return nil, err
	}
	v := pgvector.NewVector(vec)
	p.Embedding = &v
	return p, nil
}

func newSupplier(d SupplierDraft) (*types.Supplier, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, apierr.Validation("supplier name is required")
	}
	return &types.Supplier{Name: name, ContactInfo: optional(d.ContactInfo)}, nil
}

// CreateProduct adds a catalog product with its embedding.
func (u *Usecases) CreateProduct(ctx context.Context, d ProductDraft) (*types.Product, error) {
	p, err := u.newProduct(ctx, d)
	if err != nil {
		return nil, err
	}
	return u.deps.Store.CreateProduct(ctx, p)
}

func (u *Usecases) CreateSupplier(ctx context.Context, d SupplierDraft) (*types.Supplier, error) {
	s, err := newSupplier(d)
	if err != nil {
		return nil, err
	}
	return u.deps.Store.CreateSupplier(ctx, s)
}

func (u *Usecases) ListProducts(ctx context.Context) ([]*types.Product, error) {
	return u.deps.Store.ListProducts(ctx)
}

func (u *Usecases) ListSuppliers(ctx context.Context) ([]*types.Supplier, error) {
	return u.deps.Store.ListSuppliers(ctx)
}

type QuoteEdit = types.QuoteEdit

// EditQuotes applies commercial edits as one batch: either every edit is
// stored or none is.
func (u *Usecases) EditQuotes(ctx context.Context, edits []QuoteEdit) ([]*types.Quote, error) {
	if len(edits) == 0 {
		return nil, apierr.Validation("no quote edits given")
	}
	for _, e := range edits {
		if e.ID == 0 {
			return nil, apierr.Validation("quote id is required")
		}
		if e.Price != nil && e.Price.IsNegative() {
			return nil, apierr.Validation("quote %d: price must be >= 0", e.ID)
		}
		if e.Currency != nil && strings.TrimSpace(*e.Currency) == "" {
			return nil, apierr.Validation("quote %d: currency cannot be empty", e.ID)
		}
	}

	out, err := u.deps.Store.UpdateQuotes(ctx, edits)
	if err != nil {
		return nil, err
	}
	u.log.Info("Quotes edited", "count", len(out))
	return out, nil
}

func (u *Usecases) DeleteQuote(ctx context.Context, id uint) error {
	return u.deps.Store.DeleteQuote(ctx, id)
}

// History lists every quote with its product and supplier, newest first.
func (u *Usecases) History(ctx context.Context) ([]types.QuoteDetail, error) {
	return u.deps.Store.ListQuoteDetails(ctx)
}

type SearchResult struct {
	catalog.ProductMatch
	Quotes []types.QuoteDetail `json:"quotes"`
}

// SearchProducts finds catalog products semantically close to query.
func (u *Usecases) SearchProducts(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if topK <= 0 {
		topK = DefaultSearchTopK
	}
	vec, err := u.deps.LLM.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	matches, err := u.deps.Store.SimilarProducts(ctx, vec, topK, catalog.NoThreshold)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []SearchResult{}, nil
	}

	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Product.ID)
	}
	quotes, err := u.deps.Store.QuotesForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProduct := map[uint][]types.QuoteDetail{}
	for _, q := range quotes {
		byProduct[q.Quote.ProductID] = append(byProduct[q.Quote.ProductID], q)
	}

	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		qs := byProduct[m.Product.ID]
		if qs == nil {
			qs = []types.QuoteDetail{}
		}
		out = append(out, SearchResult{ProductMatch: m, Quotes: qs})
	}
	return out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
