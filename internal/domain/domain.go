package domain

import "github.com/yungbote/procuremind-backend/internal/domain/procurement"

type (
	Supplier    = procurement.Supplier
	Product     = procurement.Product
	Quote       = procurement.Quote
	QuoteUpdate = procurement.QuoteUpdate
	QuoteEdit   = procurement.QuoteEdit
	QuoteDetail = procurement.QuoteDetail
	NewQuote    = procurement.NewQuote
	RFQ         = procurement.RFQ
	RFQDocument = procurement.RFQDocument
	RFQItem     = procurement.RFQItem
	NullString  = procurement.NullString
	Quantity    = procurement.Quantity
	Fields      = procurement.Fields
	Field       = procurement.Field
	EmailDraft  = procurement.EmailDraft
)

const (
	EmbeddingDimensions = procurement.EmbeddingDimensions
	DefaultCurrency     = procurement.DefaultCurrency
	ManualEntryPrefix   = procurement.ManualEntryPrefix
)

var (
	Str             = procurement.Str
	QuantityOf      = procurement.QuantityOf
	QuantityFromRaw = procurement.QuantityFromRaw
	NameKey         = procurement.NameKey
)
