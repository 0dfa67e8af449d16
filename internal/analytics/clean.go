package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"retail-analytics/internal/model"
)

// Accepted invoice timestamp layouts, tried in order. The online-retail
// exports drift between ISO-ish and US-style day-first-less formats.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04",
}

// Clean filters and parses raw rows into the canonical transaction
// table: exact duplicate rows are dropped, then rows with non-positive
// quantity, non-positive price or an empty customer id. Unparseable
// quantity, price or timestamp fields fail the run with a
// *DataFormatError rather than being coerced.
func Clean(rows []model.RawRow) ([]model.Transaction, error) {
	seen := make(map[model.RawRow]struct{}, len(rows))
	txs := make([]model.Transaction, 0, len(rows))

	for i, row := range rows {
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}

		qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
		if err != nil {
			return nil, &DataFormatError{Field: "quantity", Value: row.Quantity, Row: i, Err: err}
		}
		if qty <= 0 {
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row.UnitPrice))
		if err != nil {
			return nil, &DataFormatError{Field: "unit price", Value: row.UnitPrice, Row: i, Err: err}
		}
		if !price.IsPositive() {
			continue
		}

		when, err := parseDate(row.InvoiceDate)
		if err != nil {
			return nil, &DataFormatError{Field: "invoice date", Value: row.InvoiceDate, Row: i, Err: err}
		}

		customer := strings.TrimSpace(row.CustomerID)
		if customer == "" {
			continue
		}

		q := decimal.NewFromInt(int64(qty))
		txs = append(txs, model.Transaction{
			InvoiceNo:   row.InvoiceNo,
			StockCode:   row.StockCode,
			Description: row.Description,
			Quantity:    qty,
			UnitPrice:   price,
			InvoiceDate: when,
			CustomerID:  customer,
			Country:     row.Country,
			Total:       price.Mul(q),
		})
	}
	return txs, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
