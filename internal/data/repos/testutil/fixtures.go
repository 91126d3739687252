package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/procuremind-backend/internal/domain"
)

func SeedSupplier(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Supplier {
	tb.Helper()
	s := &types.Supplier{Name: name}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed supplier: %v", err)
	}
	return s
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Product {
	tb.Helper()
	p := &types.Product{Name: name}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedQuote(tb testing.TB, ctx context.Context, tx *gorm.DB, productID, supplierID uint, price string, currency string) *types.Quote {
	tb.Helper()
	q := &types.Quote{
		ProductID:  productID,
		SupplierID: supplierID,
		Price:      decimal.RequireFromString(price),
		Currency:   currency,
		QuoteDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quote: %v", err)
	}
	return q
}

func SeedRFQ(tb testing.TB, ctx context.Context, tx *gorm.DB, raw string, doc types.RFQDocument) *types.RFQ {
	tb.Helper()
	r := &types.RFQ{RawText: raw}
	if err := r.SetDocument(doc); err != nil {
		tb.Fatalf("encode rfq: %v", err)
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed rfq: %v", err)
	}
	return r
}
