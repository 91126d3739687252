package bids

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	types "github.com/yungbote/procuremind-backend/internal/domain"
)

// DefaultQuantity is used when an item's quantity is missing, null,
// non-numeric, zero or negative.
const DefaultQuantity = 1

type Line struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Currency  string          `json:"currency"`
}

// ComputeLine prices qty units of a quote in the quote's own currency.
func ComputeLine(q types.Quote, qty decimal.Decimal) Line {
	return Line{
		UnitPrice: q.Price,
		LineTotal: q.Price.Mul(qty),
		Currency:  q.Currency,
	}
}

// EffectiveQuantity is the requested quantity, or DefaultQuantity.
func EffectiveQuantity(it types.RFQItem) decimal.Decimal {
	v, ok := it.Quantity.Value()
	if !ok || v.Sign() <= 0 {
		return decimal.NewFromInt(DefaultQuantity)
	}
	return v
}

type CurrencyTotal struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

type Totals struct {
	// Grand adds line totals as plain numbers across currencies.
	Grand      decimal.Decimal `json:"grand_total"`
	ByCurrency []CurrencyTotal `json:"by_currency"`
}

// GrandTotal sums the priced rows only. Pending and unquoted rows add nothing.
func GrandTotal(rows []Row) Totals {
	t := Totals{Grand: decimal.Zero}
	byCur := map[string]decimal.Decimal{}
	for _, r := range rows {
		if !r.Priced {
			continue
		}
		t.Grand = t.Grand.Add(r.LineTotal)
		byCur[r.Currency] = byCur[r.Currency].Add(r.LineTotal)
	}
	for cur, total := range byCur {
		t.ByCurrency = append(t.ByCurrency, CurrencyTotal{Currency: cur, Total: total})
	}
	sort.Slice(t.ByCurrency, func(i, j int) bool { return t.ByCurrency[i].Currency < t.ByCurrency[j].Currency })
	return t
}

// FormatMoney renders "USD 1,500" or "USD 1,500.25".
func FormatMoney(currency string, amount decimal.Decimal) string {
	return strings.TrimSpace(currency + " " + FormatAmount(amount))
}

// FormatAmount groups thousands with commas. Integers print without
// decimals, everything else with two, formatted from the decimal itself.
func FormatAmount(amount decimal.Decimal) string {
	places := int32(2)
	if amount.IsInteger() {
		places = 0
	}
	digits := amount.StringFixed(places)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
