package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one line of a delimited transaction file, exactly as read.
// Numeric and date fields stay strings until the cleaner parses them.
type RawRow struct {
	InvoiceNo   string `json:"invoiceNo"`
	StockCode   string `json:"stockCode"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	InvoiceDate string `json:"invoiceDate"`
	UnitPrice   string `json:"unitPrice"`
	CustomerID  string `json:"customerId"`
	Country     string `json:"country"`
}

// Transaction is one cleaned invoice line item. Every Transaction has
// positive quantity, positive unit price and a non-empty customer id.
type Transaction struct {
	InvoiceNo   string          `json:"invoiceNo"`
	StockCode   string          `json:"stockCode"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	InvoiceDate time.Time       `json:"invoiceDate"`
	CustomerID  string          `json:"customerId"`
	Country     string          `json:"country"`
	Total       decimal.Decimal `json:"total"` // Quantity * UnitPrice
}
