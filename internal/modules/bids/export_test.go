package bids

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

func testRecap(t *testing.T) Recap {
	t.Helper()
	recap, err := Build(mustDoc(t, recapDoc), recapMatches(), Selections{0: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return recap
}

func TestWriteCSVColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testRecap(t)); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records: %d", len(records))
	}
	header := "Item Code,Name,Qty,UOM,Specs,Brand,Description,Winner,Single Price,Total Price"
	if got := strings.Join(records[0], ","); got != header {
		t.Fatalf("header: %q", got)
	}
	if records[1][7] != "Bolt" || records[1][9] != "USD 300" {
		t.Fatalf("row 1: %v", records[1])
	}
	if records[3][7] != StatusNoQuotes || records[3][8] != "-" {
		t.Fatalf("row 3: %v", records[3])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, testRecap(t)); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(recapSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[0][0] != "Item Code" || rows[0][9] != "Total Price" {
		t.Fatalf("header: %v", rows[0])
	}
	if rows[1][7] != "Bolt" {
		t.Fatalf("winner: %v", rows[1])
	}
	if v, _ := f.GetCellValue(recapSheet, "J6"); v != "300" {
		t.Fatalf("grand total cell: %q", v)
	}
	if l, _ := f.GetCellValue(recapSheet, "I7"); l != "Total USD" {
		t.Fatalf("currency total label: %q", l)
	}
	if v, _ := f.GetCellValue(recapSheet, "J7"); v != "USD 300" {
		t.Fatalf("currency total cell: %q", v)
	}
}

func TestSetRowReportsCellErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := setRow(f, "Missing", 1, 1, "Total USD", "USD 1"); err == nil {
		t.Fatalf("want error writing to a missing sheet")
	}
	if err := setRow(f, "Sheet1", 0, 1, "x"); err == nil {
		t.Fatalf("want error for row 0")
	}
}

func TestExportFileNameAndFormat(t *testing.T) {
	if got := ExportFileName(42, FormatCSV); got != "Final_Quote_42.csv" {
		t.Fatalf("got %q", got)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Fatalf("default format: %q %v", f, err)
	}
	if f, err := ParseFormat("XLSX"); err != nil || f != FormatXLSX {
		t.Fatalf("xlsx: %q %v", f, err)
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, apierr.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}
