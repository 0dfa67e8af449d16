package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"retail-analytics/internal/model"
)

// Column aliases seen across online-retail exports. Header matching is
// case-insensitive after trimming and quote-stripping.
var columnAliases = map[string]string{
	"invoice":     "invoice",
	"invoiceno":   "invoice",
	"stockcode":   "stock",
	"description": "description",
	"quantity":    "quantity",
	"invoicedate": "date",
	"price":       "price",
	"unitprice":   "price",
	"customer id": "customer",
	"customerid":  "customer",
	"country":     "country",
}

// Positional order used when the file carries no header row.
var positionalColumns = []string{
	"invoice", "stock", "description", "quantity", "date", "price", "customer", "country",
}

// Reader reads a delimited transaction file into raw rows. Parsing of
// numeric and date fields is the cleaner's job; the reader only deals
// with file format and encoding quirks.
type Reader struct {
	Comma     rune // 0 means ','
	HasHeader bool
	Logger    *zap.Logger
}

// ReadFile reads all raw rows from a file on disk.
func (r *Reader) ReadFile(path string) ([]model.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transaction file: %w", err)
	}
	defer f.Close()
	rows, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Read reads all raw rows from a stream.
func (r *Reader) Read(src io.Reader) ([]model.RawRow, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cr := csv.NewReader(src)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}

	columns := positionalColumns
	if r.HasHeader {
		header, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		columns = make([]string, len(header))
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, `"`, "")))
			columns[i] = columnAliases[h] // unknown columns map to ""
		}
	}

	var rows []model.RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		var row model.RawRow
		for i, field := range record {
			if i >= len(columns) {
				break
			}
			field = sanitize(field)
			switch columns[i] {
			case "invoice":
				row.InvoiceNo = field
			case "stock":
				row.StockCode = field
			case "description":
				row.Description = field
			case "quantity":
				row.Quantity = field
			case "date":
				row.InvoiceDate = field
			case "price":
				row.UnitPrice = field
			case "customer":
				row.CustomerID = field
			case "country":
				row.Country = field
			}
		}
		rows = append(rows, row)
	}

	logger.Info("loaded raw rows", zap.Int("rows", len(rows)))
	return rows, nil
}

// sanitize repairs fields from legacy single-byte encodings by decoding
// invalid UTF-8 bytes as Latin-1, so product descriptions survive the
// files the upstream retail system exports.
func sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range []byte(s) {
		b.WriteRune(rune(c))
	}
	return b.String()
}
