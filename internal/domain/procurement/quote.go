package procurement

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

type Quote struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProductID  uint            `gorm:"column:product_id;not null;index" json:"product_id"`
	SupplierID uint            `gorm:"column:supplier_id;not null;index" json:"supplier_id"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(18,4);not null" json:"price"`
	Currency   string          `gorm:"column:currency;type:text;not null;default:'USD'" json:"currency"`
	UOM        *string         `gorm:"column:uom;type:text" json:"uom,omitempty"`
	SourceURL  *string         `gorm:"column:source_url;type:text" json:"source_url,omitempty"`
	Note       *string         `gorm:"column:note;type:text" json:"note,omitempty"`
	QuoteDate  time.Time       `gorm:"column:quote_date;not null" json:"quote_date"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Quote) TableName() string { return "quotes" }

// QuoteUpdate carries the commercial fields of a quote. Nil fields are left unchanged.
type QuoteUpdate struct {
	Price     *decimal.Decimal `json:"price,omitempty"`
	Currency  *string          `json:"currency,omitempty"`
	UOM       *string          `json:"uom,omitempty"`
	SourceURL *string          `json:"source_url,omitempty"`
	Note      *string          `json:"note,omitempty"`
}

func (u QuoteUpdate) Empty() bool {
	return u.Price == nil && u.Currency == nil && u.UOM == nil && u.SourceURL == nil && u.Note == nil
}

// QuoteEdit is one row of a batch edit.
type QuoteEdit struct {
	ID uint `json:"id"`
	QuoteUpdate
}

// Apply copies the set fields onto q.
func (u QuoteUpdate) Apply(q *Quote) {
	if u.Price != nil {
		q.Price = *u.Price
	}
	if u.Currency != nil {
		q.Currency = *u.Currency
	}
	if u.UOM != nil {
		q.UOM = u.UOM
	}
	if u.SourceURL != nil {
		q.SourceURL = u.SourceURL
	}
	if u.Note != nil {
		q.Note = u.Note
	}
}

// QuoteDetail is a quote joined with its product and supplier.
type QuoteDetail struct {
	Quote    Quote    `json:"quote"`
	Product  Product  `json:"product"`
	Supplier Supplier `json:"supplier"`
}

// NewQuote is the input to a quote write. Product and supplier are either
// referenced by id or described for creation.
type NewQuote struct {
	ProductID  uint
	NewProduct *Product

	SupplierID  uint
	NewSupplier *Supplier

	Price     decimal.Decimal
	Currency  string
	UOM       *string
	SourceURL *string
	Note      *string
	QuoteDate time.Time
}
