package bids

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

// Matrix row labels, in display order.
const (
	MatrixUnitPrice    = "Unit Price"
	MatrixTotalCost    = "Total Cost"
	MatrixProductMatch = "Product Match"
	MatrixDescription  = "Description"
	MatrixDate         = "Date"
)

var MatrixRows = []string{MatrixUnitPrice, MatrixTotalCost, MatrixProductMatch, MatrixDescription, MatrixDate}

// FilterColumns are the item columns an analysis can be narrowed by.
var FilterColumns = []string{"description", "name", "item_code", "brand"}

const matrixDescriptionLen = 50

type ComparisonRow struct {
	QuoteID     uint            `json:"quote_id"`
	Supplier    string          `json:"supplier"`
	Product     string          `json:"product"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Calculation string          `json:"calculation"`
	Currency    string          `json:"currency"`
	UOM         *string         `json:"uom,omitempty"`
	Link        *string         `json:"link,omitempty"`
	Date        time.Time       `json:"date"`
}

type ChartPoint struct {
	Supplier  string          `json:"supplier"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Product   string          `json:"product"`
}

type Insight struct {
	Supplier    string          `json:"supplier"`
	Currency    string          `json:"currency"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Calculation string          `json:"calculation"`
	Summary     string          `json:"summary"`
}

// Matrix is the side-by-side view: one column per quote, rows in MatrixRows order.
type Matrix struct {
	Rows    []string   `json:"rows"`
	Columns []string   `json:"columns"`
	Cells   [][]string `json:"cells"`
}

type ItemAnalysis struct {
	Index           int             `json:"index"`
	Item            types.RFQItem   `json:"item"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProductMatched  bool            `json:"product_matched"`
	MixedCurrencies bool            `json:"mixed_currencies"`
	Comparison      []ComparisonRow `json:"comparison"`
	Chart           []ChartPoint    `json:"chart"`
	Insight         *Insight        `json:"insight,omitempty"`
	Matrix          Matrix          `json:"matrix"`
}

// Analyze builds the comparison views for one item from its match result.
func Analyze(index int, item types.RFQItem, m MatchResult) ItemAnalysis {
	qty := EffectiveQuantity(item)
	ranked := Rank(m.Candidates)

	out := ItemAnalysis{
		Index:           index,
		Item:            item,
		Quantity:        qty,
		ProductMatched:  m.ProductMatched,
		MixedCurrencies: MixedCurrencies(ranked),
		Comparison:      make([]ComparisonRow, 0, len(ranked)),
		Chart:           make([]ChartPoint, 0, len(ranked)),
		Matrix:          Matrix{Rows: append([]string(nil), MatrixRows...)},
	}

	seenCol := map[string]int{}
	for _, c := range ranked {
		line := ComputeLine(c.Quote, qty)
		calc := fmt.Sprintf("%s x %s", FormatMoney(line.Currency, line.UnitPrice), FormatAmount(qty))
		out.Comparison = append(out.Comparison, ComparisonRow{
			QuoteID:     c.Quote.ID,
			Supplier:    c.Supplier.Name,
			Product:     c.Product.Name,
			Price:       line.UnitPrice,
			Total:       line.LineTotal,
			Calculation: calc,
			Currency:    line.Currency,
			UOM:         c.Quote.UOM,
			Link:        c.Quote.SourceURL,
			Date:        c.Quote.QuoteDate,
		})
		out.Chart = append(out.Chart, ChartPoint{
			Supplier:  c.Supplier.Name,
			UnitPrice: line.UnitPrice,
			Total:     line.LineTotal,
			Product:   c.Product.Name,
		})

		col := c.Supplier.Name
		seenCol[col]++
		if seenCol[col] > 1 {
			col = fmt.Sprintf("%s (quote #%d)", c.Supplier.Name, c.Quote.ID)
		}
		out.Matrix.Columns = append(out.Matrix.Columns, col)
	}

	out.Matrix.Cells = make([][]string, len(MatrixRows))
	for r, label := range MatrixRows {
		cells := make([]string, len(ranked))
		for i, c := range ranked {
			cells[i] = matrixCell(label, c, out.Comparison[i])
		}
		out.Matrix.Cells[r] = cells
	}

	if len(out.Comparison) > 0 {
		best := out.Comparison[0]
		out.Insight = &Insight{
			Supplier:    best.Supplier,
			Currency:    best.Currency,
			UnitPrice:   best.Price,
			Total:       best.Total,
			Calculation: best.Calculation,
			Summary: fmt.Sprintf("Best offer: %s at %s / unit. Estimated total: %s = %s",
				best.Supplier, FormatMoney(best.Currency, best.Price), best.Calculation, FormatMoney(best.Currency, best.Total)),
		}
	}
	return out
}

func matrixCell(label string, c Candidate, row ComparisonRow) string {
	switch label {
	case MatrixUnitPrice:
		return FormatMoney(row.Currency, row.Price)
	case MatrixTotalCost:
		return FormatMoney(row.Currency, row.Total)
	case MatrixProductMatch:
		return c.Product.Name
	case MatrixDescription:
		return truncate(deref(c.Product.Description), matrixDescriptionLen)
	case MatrixDate:
		if c.Quote.QuoteDate.IsZero() {
			return Placeholder
		}
		return c.Quote.QuoteDate.Format("2006-01-02")
	}
	return ""
}

// FilterItems returns the indices of items whose column equals value.
// An empty column or value keeps every item.
func FilterItems(items []types.RFQItem, column, value string) ([]int, error) {
	out := make([]int, 0, len(items))
	if column == "" || value == "" {
		for i := range items {
			out = append(out, i)
		}
		return out, nil
	}
	if !isFilterColumn(column) {
		return nil, apierr.Validation("cannot filter by column %q", column)
	}
	for i, it := range items {
		if v, _ := it.Column(column); v == value {
			out = append(out, i)
		}
	}
	return out, nil
}

// FilterValues lists the distinct values of a filter column, sorted.
func FilterValues(items []types.RFQItem, column string) ([]string, error) {
	if !isFilterColumn(column) {
		return nil, apierr.Validation("cannot filter by column %q", column)
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, it := range items {
		v, _ := it.Column(column)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func isFilterColumn(column string) bool {
	for _, c := range FilterColumns {
		if c == column {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if s == "" {
		return Placeholder
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
