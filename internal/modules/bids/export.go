package bids

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/procuremind-backend/internal/platform/apierr"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	recapSheet = "Recapitulation"
)

// Archiver keeps a copy of an exported file and returns where it went.
type Archiver interface {
	Put(ctx context.Context, name, contentType string, body []byte) (string, error)
}

// ExportFileName is Final_Quote_<rfq id>.<ext>.
func ExportFileName(rfqID uint, format string) string {
	return fmt.Sprintf("Final_Quote_%d.%s", rfqID, format)
}

// ParseFormat accepts csv (default) and xlsx.
func ParseFormat(raw string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(raw)); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", apierr.Validation("unsupported export format %q (allowed: csv, xlsx)", raw)
	}
}

func ContentType(format string) string {
	if format == FormatXLSX {
		return ContentTypeXLSX
	}
	return ContentTypeCSV
}

// WriteCSV writes the header and one record per row, in Columns order.
func WriteCSV(w io.Writer, recap Recap) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range recap.Rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the recap to a single sheet followed by a grand total line.
func WriteXLSX(w io.Writer, recap Recap) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recapSheet); err != nil {
		return err
	}
	if err := setRow(f, recapSheet, 1, 1, Columns...); err != nil {
		return err
	}
	for ri, r := range recap.Rows {
		if err := setRow(f, recapSheet, ri+2, 1, r.Record()...); err != nil {
			return err
		}
	}

	next := len(recap.Rows) + 3
	totalsCol := len(Columns) - 1
	if err := setRow(f, recapSheet, next, totalsCol, "Grand Total", FormatAmount(recap.Grand)); err != nil {
		return err
	}
	for i, ct := range recap.ByCurrency {
		if err := setRow(f, recapSheet, next+1+i, totalsCol, "Total "+ct.Currency, FormatMoney(ct.Currency, ct.Total)); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// Render encodes the recap in the given format.
func Render(recap Recap, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatXLSX:
		err = WriteXLSX(&buf, recap)
	default:
		err = WriteCSV(&buf, recap)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// setRow writes values left to right starting at col.
func setRow(f *excelize.File, sheet string, row, col int, values ...string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+i, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
