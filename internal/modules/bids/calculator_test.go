package bids

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	types "github.com/yungbote/procuremind-backend/internal/domain"
)

func TestEffectiveQuantity(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"absent", "", "1"},
		{"null", "null", "1"},
		{"number", "12", "12"},
		{"decimal", "2.5", "2.5"},
		{"numeric string", `" 40 "`, "40"},
		{"non numeric", `"a dozen"`, "1"},
		{"zero", "0", "1"},
		{"negative", "-3", "1"},
		{"bool", "true", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := types.RFQItem{Quantity: types.QuantityFromRaw(json.RawMessage(tc.raw))}
			got := EffectiveQuantity(it)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}

func TestComputeLine(t *testing.T) {
	q := types.Quote{Price: decimal.RequireFromString("1250.50"), Currency: "IDR"}
	line := ComputeLine(q, decimal.NewFromInt(4))
	if !line.LineTotal.Equal(decimal.RequireFromString("5002")) {
		t.Fatalf("line total: %s", line.LineTotal)
	}
	if line.Currency != "IDR" || !line.UnitPrice.Equal(q.Price) {
		t.Fatalf("line: %+v", line)
	}
}

func TestGrandTotalSkipsUnpricedRows(t *testing.T) {
	rows := []Row{
		{Priced: true, Currency: "USD", LineTotal: decimal.NewFromInt(100)},
		{Priced: false, Winner: StatusPending, LineTotal: decimal.NewFromInt(999)},
		{Priced: true, Currency: "IDR", LineTotal: decimal.NewFromInt(5000)},
		{Priced: true, Currency: "USD", LineTotal: decimal.Zero},
	}
	got := GrandTotal(rows)
	if !got.Grand.Equal(decimal.NewFromInt(5100)) {
		t.Fatalf("grand: %s", got.Grand)
	}
	if len(got.ByCurrency) != 2 || got.ByCurrency[0].Currency != "IDR" || !got.ByCurrency[1].Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("by currency: %+v", got.ByCurrency)
	}
}

func TestFormatAmountKeepsPrecision(t *testing.T) {
	cases := []struct{ in, want string }{
		{"123456789012345678.25", "123,456,789,012,345,678.25"},
		{"98765432109876543210", "98,765,432,109,876,543,210"},
		{"999.999", "1,000.00"},
		{"-1234.5", "-1,234.50"},
		{"0.5", "0.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney("USD", decimal.NewFromInt(1500)); got != "USD 1,500" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMoney("IDR", decimal.RequireFromString("1234567.5")); got != "IDR 1,234,567.50" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMoney("", decimal.Zero); got != "0" {
		t.Fatalf("got %q", got)
	}
}
