package bids

import (
	"github.com/shopspring/decimal"

	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

const (
	StatusNoQuotes = "NO QUOTES"
	StatusPending  = "PENDING"

	// Placeholder fills missing text and the price columns of unpriced rows.
	Placeholder = "-"
)

// Columns is the recap column order. Exports depend on it.
var Columns = []string{
	"Item Code", "Name", "Qty", "UOM", "Specs",
	"Brand", "Description", "Winner", "Single Price", "Total Price",
}

// Selections maps an item index to the chosen quote id. Zero means no choice.
type Selections map[int]uint

type Row struct {
	Index       int    `json:"index"`
	ItemCode    string `json:"item_code"`
	Name        string `json:"name"`
	Qty         string `json:"qty"`
	UOM         string `json:"uom"`
	Specs       string `json:"specs"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	// Winner is the supplier name, StatusPending or StatusNoQuotes.
	Winner string `json:"winner"`
	// Unquoted marks a PENDING row whose product exists but has no quotes.
	// Such a row can never be priced until a quote is logged.
	Unquoted bool `json:"unquoted,omitempty"`

	// Priced is false for pending and unquoted rows; their amounts are zero
	// and must not be read as a zero price.
	Priced     bool            `json:"priced"`
	QuoteID    uint            `json:"quote_id,omitempty"`
	SupplierID uint            `json:"supplier_id,omitempty"`
	Currency   string          `json:"currency,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

func (r Row) SinglePrice() string {
	if !r.Priced {
		return Placeholder
	}
	return FormatMoney(r.Currency, r.UnitPrice)
}

func (r Row) TotalPrice() string {
	if !r.Priced {
		return Placeholder
	}
	return FormatMoney(r.Currency, r.LineTotal)
}

// Record is the row in Columns order.
func (r Row) Record() []string {
	return []string{
		r.ItemCode, r.Name, r.Qty, r.UOM, r.Specs,
		r.Brand, r.Description, r.Winner, r.SinglePrice(), r.TotalPrice(),
	}
}

type Recap struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
	Totals
	MixedCurrencies bool `json:"mixed_currencies"`
}

// Build renders one row per item in document order from the given matches and
// selections. It never picks a winner on its own.
func Build(doc types.RFQDocument, matches []MatchResult, sel Selections) (Recap, error) {
	if len(matches) != len(doc.Items) {
		return Recap{}, apierr.Validation("have %d match results for %d items", len(matches), len(doc.Items))
	}
	for idx, quoteID := range sel {
		if idx < 0 || idx >= len(doc.Items) {
			return Recap{}, apierr.Validation("selection for item %d is out of range (items: %d)", idx, len(doc.Items))
		}
		if quoteID == 0 {
			continue
		}
		if _, ok := matches[idx].Candidate(quoteID); !ok {
			return Recap{}, apierr.Validation("quote %d is not a candidate for item %d", quoteID, idx)
		}
	}

	recap := Recap{Columns: append([]string(nil), Columns...), Rows: make([]Row, 0, len(doc.Items))}
	currencies := map[string]struct{}{}
	for i, item := range doc.Items {
		qty := EffectiveQuantity(item)
		row := Row{
			Index:       i,
			ItemCode:    textOr(item.ItemCode),
			Name:        textOr(item.Name),
			Qty:         qty.String(),
			UOM:         textOr(item.UOM),
			Specs:       textOr(item.Specs),
			Brand:       textOr(item.Brand),
			Description: textOr(item.Description),
			Quantity:    qty,
			UnitPrice:   decimal.Zero,
			LineTotal:   decimal.Zero,
		}

		m := matches[i]
		switch {
		case !m.ProductMatched:
			row.Winner = StatusNoQuotes
		case sel[i] == 0:
			row.Winner = StatusPending
			row.Unquoted = len(m.Candidates) == 0
		default:
			c, _ := m.Candidate(sel[i])
			line := ComputeLine(c.Quote, qty)
			row.Winner = c.Supplier.Name
			row.Priced = true
			row.QuoteID = c.Quote.ID
			row.SupplierID = c.Supplier.ID
			row.Currency = line.Currency
			row.UnitPrice = line.UnitPrice
			row.LineTotal = line.LineTotal
			currencies[line.Currency] = struct{}{}
		}
		recap.Rows = append(recap.Rows, row)
	}
	recap.Totals = GrandTotal(recap.Rows)
	recap.MixedCurrencies = len(currencies) > 1
	return recap, nil
}

// AutoPickCheapest fills every unselected item that has quotes with its
// cheapest candidate. Existing choices are kept. The input is not modified.
func AutoPickCheapest(matches []MatchResult, sel Selections) Selections {
	out := make(Selections, len(sel)+len(matches))
	for k, v := range sel {
		out[k] = v
	}
	for i, m := range matches {
		if out[i] != 0 || len(m.Candidates) == 0 {
			continue
		}
		out[i] = Rank(m.Candidates)[0].Quote.ID
	}
	return out
}

func textOr(n types.NullString) string {
	if s := n.Text(); s != "" {
		return s
	}
	return Placeholder
}
