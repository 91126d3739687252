package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/procuremind-backend/internal/data/db"
	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

type GormStore struct {
	db      *gorm.DB
	dialect string
	log     *logger.Logger
}

func NewGormStore(db *gorm.DB, baseLog *logger.Logger) *GormStore {
	return &GormStore{db: db, dialect: db.Dialector.Name(), log: baseLog.With("repo", "CatalogGormStore")}
}

// WithTx returns a store bound to tx.
func (s *GormStore) WithTx(tx *gorm.DB) *GormStore {
	return &GormStore{db: tx, dialect: s.dialect, log: s.log}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *GormStore) fail(op string, err error) error {
	mapped := mapError(op, err)
	if isConnectError(err) {
		s.log.Error("Catalog store unreachable", "op", op, "error", err)
	}
	return mapped
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return s.fail("ping", err)
	}
	return s.fail("ping", sqlDB.PingContext(ctx))
}

// ---- suppliers ----

func (s *GormStore) CreateSupplier(ctx context.Context, sup *types.Supplier) (*types.Supplier, error) {
	if sup == nil || strings.TrimSpace(sup.Name) == "" {
		return nil, apierr.Validation("supplier name is required")
	}
	if err := s.conn(ctx).Create(sup).Error; err != nil {
		return nil, s.fail("create supplier", err)
	}
	return sup, nil
}

func (s *GormStore) GetSupplier(ctx context.Context, id uint) (*types.Supplier, error) {
	var out types.Supplier
	if err := s.take(ctx, "supplier", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) ListSuppliers(ctx context.Context) ([]*types.Supplier, error) {
	var out []*types.Supplier
	if err := s.conn(ctx).Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, s.fail("list suppliers", err)
	}
	return out, nil
}

// ---- products ----

func (s *GormStore) CreateProduct(ctx context.Context, p *types.Product) (*types.Product, error) {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return nil, apierr.Validation("product name is required")
	}
	if err := s.conn(ctx).Create(p).Error; err != nil {
		return nil, s.fail("create product", err)
	}
	return p, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*types.Product, error) {
	var out types.Product
	if err := s.take(ctx, "product", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]*types.Product, error) {
	var out []*types.Product
	if err := s.conn(ctx).Omit("embedding").Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, s.fail("list products", err)
	}
	return out, nil
}

// FindProductsByName compares the folded name_key written on save, so
// non-ASCII case variants match on every dialect. Rows with an empty key
// fall back to LOWER(name).
func (s *GormStore) FindProductsByName(ctx context.Context, name string) ([]*types.Product, error) {
	var out []*types.Product
	err := s.conn(ctx).
		Omit("embedding").
		Where("name_key = ? OR (name_key = '' AND LOWER(name) = LOWER(?))", types.NameKey(name), name).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, s.fail("find products by name", err)
	}
	return out, nil
}

type similarityRow struct {
	ID          uint
	Name        string
	Description *string
	Specs       *string
	CreatedAt   time.Time
	Similarity  float64
}

func (s *GormStore) SimilarProducts(ctx context.Context, embedding []float32, topK int, threshold float64) ([]ProductMatch, error) {
	if len(embedding) == 0 {
		return []ProductMatch{}, nil
	}
	if s.dialect != dbpkg.DialectPostgres {
		return s.similarInMemory(ctx, embedding, topK, threshold)
	}

	vec := pgvector.NewVector(embedding)
	q := `SELECT id, name, description, specs, created_at, 1 - (embedding <=> ?) AS similarity
		FROM products
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> ? ASC, id ASC`
	args := []any{vec, vec}
	if topK > 0 {
		q += ` LIMIT ?`
		args = append(args, topK)
	}
	var rows []similarityRow
	if err := s.conn(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, s.fail("similar products", err)
	}
	out := make([]ProductMatch, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductMatch{
			Product: types.Product{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Description,
				Specs:       r.Specs,
				CreatedAt:   r.CreatedAt,
			},
			Similarity: r.Similarity,
		})
	}
	return topMatches(out, topK, threshold), nil
}

func (s *GormStore) similarInMemory(ctx context.Context, embedding []float32, topK int, threshold float64) ([]ProductMatch, error) {
	var products []types.Product
	if err := s.conn(ctx).Where("embedding IS NOT NULL").Find(&products).Error; err != nil {
		return nil, s.fail("similar products", err)
	}
	out := make([]ProductMatch, 0, len(products))
	for _, p := range products {
		if p.Embedding == nil {
			continue
		}
		sim, ok := CosineSimilarity(embedding, p.Embedding.Slice())
		if !ok {
			continue
		}
		p.Embedding = nil
		out = append(out, ProductMatch{Product: p, Similarity: sim})
	}
	return topMatches(out, topK, threshold), nil
}

// ---- quotes ----

func (s *GormStore) LogQuote(ctx context.Context, in types.NewQuote) (*types.Quote, error) {
	if in.Price.IsNegative() {
		return nil, apierr.Validation("price must be >= 0")
	}
	var out types.Quote
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		productID := in.ProductID
		if in.NewProduct != nil {
			p := *in.NewProduct
			p.ID = 0
			if strings.TrimSpace(p.Name) == "" {
				return apierr.Validation("product name is required")
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			productID = p.ID
		} else if err := exists(tx, &types.Product{}, "product", productID); err != nil {
			return err
		}

		supplierID := in.SupplierID
		if in.NewSupplier != nil {
			sup := *in.NewSupplier
			sup.ID = 0
			if strings.TrimSpace(sup.Name) == "" {
				return apierr.Validation("supplier name is required")
			}
			if err := tx.Create(&sup).Error; err != nil {
				return err
			}
			supplierID = sup.ID
		} else if err := exists(tx, &types.Supplier{}, "supplier", supplierID); err != nil {
			return err
		}

		out = types.Quote{
			ProductID:  productID,
			SupplierID: supplierID,
			Price:      in.Price,
			Currency:   normalizeCurrency(in.Currency),
			UOM:        in.UOM,
			SourceURL:  in.SourceURL,
			Note:       in.Note,
			QuoteDate:  quoteDate(in.QuoteDate),
		}
		return tx.Create(&out).Error
	})
	if err != nil {
		return nil, s.fail("log quote", err)
	}
	s.log.Debug("Quote logged", "quote_id", out.ID, "product_id", out.ProductID, "supplier_id", out.SupplierID)
	return &out, nil
}

func exists(tx *gorm.DB, model any, kind string, id uint) error {
	if id == 0 {
		return apierr.Validation("%s is required", kind)
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("%s %d not found", kind, id)
	}
	return nil
}

// take loads one row by id into dst.
func (s *GormStore) take(ctx context.Context, kind string, id uint, dst any) error {
	err := s.conn(ctx).Where("id = ?", id).Take(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound("%s %d not found", kind, id)
	}
	return s.fail("get "+kind, err)
}

func (s *GormStore) GetQuote(ctx context.Context, id uint) (*types.Quote, error) {
	var out types.Quote
	if err := s.take(ctx, "quote", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) UpdateQuote(ctx context.Context, id uint, upd types.QuoteUpdate) (*types.Quote, error) {
	out, err := s.UpdateQuotes(ctx, []types.QuoteEdit{{ID: id, QuoteUpdate: upd}})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// UpdateQuotes writes all edits in one transaction. A missing quote rolls
// back every earlier edit of the batch.
func (s *GormStore) UpdateQuotes(ctx context.Context, edits []types.QuoteEdit) ([]*types.Quote, error) {
	for _, e := range edits {
		if e.Price != nil && e.Price.IsNegative() {
			return nil, apierr.Validation("quote %d: price must be >= 0", e.ID)
		}
	}
	out := make([]*types.Quote, 0, len(edits))
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range edits {
			q, err := updateQuote(tx, e)
			if err != nil {
				return err
			}
			out = append(out, q)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("update quotes", err)
	}
	return out, nil
}

func updateQuote(tx *gorm.DB, e types.QuoteEdit) (*types.Quote, error) {
	var q types.Quote
	if err := tx.Where("id = ?", e.ID).Take(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("quote %d not found", e.ID)
		}
		return nil, err
	}
	e.Apply(&q)
	q.Currency = normalizeCurrency(q.Currency)
	err := tx.Model(&q).
		Select("price", "currency", "uom", "source_url", "note").
		Updates(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *GormStore) DeleteQuote(ctx context.Context, id uint) error {
	res := s.conn(ctx).Where("id = ?", id).Delete(&types.Quote{})
	if res.Error != nil {
		return s.fail("delete quote", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("quote %d not found", id)
	}
	return nil
}

func (s *GormStore) ListQuoteDetails(ctx context.Context) ([]types.QuoteDetail, error) {
	var quotes []types.Quote
	if err := s.conn(ctx).Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
		return nil, s.fail("list quotes", err)
	}
	return s.details(ctx, "list quotes", quotes)
}

func (s *GormStore) QuotesForProducts(ctx context.Context, productIDs []uint) ([]types.QuoteDetail, error) {
	if len(productIDs) == 0 {
		return []types.QuoteDetail{}, nil
	}
	var quotes []types.Quote
	if err := s.conn(ctx).Where("product_id IN ?", productIDs).Order("id ASC").Find(&quotes).Error; err != nil {
		return nil, s.fail("quotes for products", err)
	}
	return s.details(ctx, "quotes for products", quotes)
}

// details joins quotes with their product and supplier. Quotes whose
// product or supplier is missing are dropped.
func (s *GormStore) details(ctx context.Context, op string, quotes []types.Quote) ([]types.QuoteDetail, error) {
	out := make([]types.QuoteDetail, 0, len(quotes))
	if len(quotes) == 0 {
		return out, nil
	}
	pIDs := make([]uint, 0, len(quotes))
	sIDs := make([]uint, 0, len(quotes))
	for _, q := range quotes {
		pIDs = append(pIDs, q.ProductID)
		sIDs = append(sIDs, q.SupplierID)
	}

	var products []types.Product
	if err := s.conn(ctx).Omit("embedding").Where("id IN ?", pIDs).Find(&products).Error; err != nil {
		return nil, s.fail(op, err)
	}
	var suppliers []types.Supplier
	if err := s.conn(ctx).Where("id IN ?", sIDs).Find(&suppliers).Error; err != nil {
		return nil, s.fail(op, err)
	}
	return joinDetails(quotes, products, suppliers), nil
}

func joinDetails(quotes []types.Quote, products []types.Product, suppliers []types.Supplier) []types.QuoteDetail {
	pByID := make(map[uint]types.Product, len(products))
	for _, p := range products {
		pByID[p.ID] = p
	}
	sByID := make(map[uint]types.Supplier, len(suppliers))
	for _, sup := range suppliers {
		sByID[sup.ID] = sup
	}
	out := make([]types.QuoteDetail, 0, len(quotes))
	for _, q := range quotes {
		p, okP := pByID[q.ProductID]
		sup, okS := sByID[q.SupplierID]
		if !okP || !okS {
			continue
		}
		out = append(out, types.QuoteDetail{Quote: q, Product: p, Supplier: sup})
	}
	return out
}

// ---- rfqs ----

func (s *GormStore) CreateRFQ(ctx context.Context, r *types.RFQ) (*types.RFQ, error) {
	if r == nil {
		return nil, apierr.Validation("rfq is required")
	}
	if len(r.ParsedJSON) == 0 {
		if err := r.SetDocument(types.RFQDocument{}); err != nil {
			return nil, err
		}
	}
	if err := s.conn(ctx).Create(r).Error; err != nil {
		return nil, s.fail("create rfq", err)
	}
	return r, nil
}

func (s *GormStore) GetRFQ(ctx context.Context, id uint) (*types.RFQ, error) {
	var out types.RFQ
	if err := s.take(ctx, "rfq", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) ListRFQs(ctx context.Context, limit int) ([]*types.RFQ, error) {
	var out []*types.RFQ
	q := s.conn(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, s.fail("list rfqs", err)
	}
	return out, nil
}

func (s *GormStore) UpdateRFQ(ctx context.Context, id uint, doc types.RFQDocument) (*types.RFQ, error) {
	var out types.RFQ
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Take(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("rfq %d not found", id)
			}
			return err
		}
		if err := out.SetDocument(doc); err != nil {
			return err
		}
		return tx.Model(&out).Update("parsed_json", out.ParsedJSON).Error
	})
	if err != nil {
		return nil, s.fail("update rfq", err)
	}
	return &out, nil
}

func (s *GormStore) DeleteRFQ(ctx context.Context, id uint) error {
	res := s.conn(ctx).Where("id = ?", id).Delete(&types.RFQ{})
	if res.Error != nil {
		return s.fail("delete rfq", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("rfq %d not found", id)
	}
	return nil
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return types.DefaultCurrency
	}
	return c
}

func quoteDate(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
