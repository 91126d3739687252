package catalog

import (
	"context"

	types "github.com/yungbote/procuremind-backend/internal/domain"
)

// NoThreshold disables the similarity cut-off of SimilarProducts.
const NoThreshold = -1.0

// ProductMatch is a product found by embedding similarity (1 - cosine distance).
type ProductMatch struct {
	Product    types.Product `json:"product"`
	Similarity float64       `json:"similarity"`
}

// Store is the system of record for suppliers, products, quotes and RFQs.
// Failures to reach the backend surface as apierr.ErrStoreUnavailable and
// missing rows as apierr.ErrNotFound.
type Store interface {
	Ping(ctx context.Context) error

	CreateSupplier(ctx context.Context, s *types.Supplier) (*types.Supplier, error)
	GetSupplier(ctx context.Context, id uint) (*types.Supplier, error)
	ListSuppliers(ctx context.Context) ([]*types.Supplier, error)

	CreateProduct(ctx context.Context, p *types.Product) (*types.Product, error)
	GetProduct(ctx context.Context, id uint) (*types.Product, error)
	ListProducts(ctx context.Context) ([]*types.Product, error)
	// FindProductsByName matches names case-insensitively, ordered by id.
	FindProductsByName(ctx context.Context, name string) ([]*types.Product, error)
	// SimilarProducts returns up to topK products with an embedding, best first.
	SimilarProducts(ctx context.Context, embedding []float32, topK int, threshold float64) ([]ProductMatch, error)

	// LogQuote resolves or creates the product and supplier, then writes the quote.
	LogQuote(ctx context.Context, in types.NewQuote) (*types.Quote, error)
	GetQuote(ctx context.Context, id uint) (*types.Quote, error)
	UpdateQuote(ctx context.Context, id uint, upd types.QuoteUpdate) (*types.Quote, error)
	// UpdateQuotes applies every edit or none of them.
	UpdateQuotes(ctx context.Context, edits []types.QuoteEdit) ([]*types.Quote, error)
	DeleteQuote(ctx context.Context, id uint) error
	// ListQuoteDetails returns every quote with product and supplier, newest first.
	ListQuoteDetails(ctx context.Context) ([]types.QuoteDetail, error)
	// QuotesForProducts returns the quotes of the given products ordered by quote id.
	QuotesForProducts(ctx context.Context, productIDs []uint) ([]types.QuoteDetail, error)

	CreateRFQ(ctx context.Context, r *types.RFQ) (*types.RFQ, error)
	GetRFQ(ctx context.Context, id uint) (*types.RFQ, error)
	// ListRFQs returns the newest RFQs first.
	ListRFQs(ctx context.Context, limit int) ([]*types.RFQ, error)
	UpdateRFQ(ctx context.Context, id uint, doc types.RFQDocument) (*types.RFQ, error)
	DeleteRFQ(ctx context.Context, id uint) error
}
