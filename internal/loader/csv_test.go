package loader

import (
	"strings"
	"testing"
)

const sampleCSV = `Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country
536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,2009-12-01 07:45:00,2.55,13085,United Kingdom
536366,71053,WHITE METAL LANTERN,6,2009-12-01 07:45:00,3.39,13085,United Kingdom
`

func TestRead_WithHeader(t *testing.T) {
	r := &Reader{HasHeader: true}
	rows, err := r.Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	first := rows[0]
	if first.InvoiceNo != "536365" {
		t.Fatalf("invoice = %q, want 536365", first.InvoiceNo)
	}
	if first.UnitPrice != "2.55" {
		t.Fatalf("price = %q, want 2.55", first.UnitPrice)
	}
	if first.CustomerID != "13085" {
		t.Fatalf("customer = %q, want 13085", first.CustomerID)
	}
	if first.InvoiceDate != "2009-12-01 07:45:00" {
		t.Fatalf("date = %q", first.InvoiceDate)
	}
}

func TestRead_HeaderAliases(t *testing.T) {
	csv := "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n" +
		"1,2,THING,3,2024-01-01,4.5,C9,France\n"
	r := &Reader{HasHeader: true}
	rows, err := r.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].CustomerID != "C9" || rows[0].UnitPrice != "4.5" {
		t.Fatalf("alias mapping failed: %+v", rows[0])
	}
}

func TestRead_Positional(t *testing.T) {
	csv := "1,SC,THING,3,2024-01-01,4.5,C9,France\n"
	r := &Reader{}
	rows, err := r.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].InvoiceNo != "1" || rows[0].Country != "France" {
		t.Fatalf("positional mapping failed: %+v", rows[0])
	}
}

func TestRead_SemicolonDelimiter(t *testing.T) {
	csv := "1;SC;THING;3;2024-01-01;4.5;C9;France\n"
	r := &Reader{Comma: ';'}
	rows, err := r.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Description != "THING" {
		t.Fatalf("delimiter not honored: %+v", rows[0])
	}
}

func TestSanitize_Latin1Fallback(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 and invalid on its own in UTF-8.
	in := "CAF\xc9 SET"
	got := sanitize(in)
	if got != "CAFÉ SET" {
		t.Fatalf("got %q, want %q", got, "CAFÉ SET")
	}
	if s := "plain"; sanitize(s) != s {
		t.Fatal("valid UTF-8 must pass through unchanged")
	}
}
