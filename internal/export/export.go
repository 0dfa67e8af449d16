package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"retail-analytics/internal/analytics"
	"retail-analytics/internal/model"
)

// Table is the abstract "named table" every derived structure reduces to
// before persisting.
type Table struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// WriteResult describes one persisted table.
type WriteResult struct {
	Table     string    `json:"table"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	WrittenAt time.Time `json:"writtenAt"`
}

// Manager writes named tables under a base directory.
type Manager struct {
	Dir    string
	JSON   bool // write a JSON copy next to each CSV
	Logger *zap.Logger
}

// WriteAll persists every table an analysis run produced. Tables for
// components that failed (nil RFM, for instance) are skipped.
func (m *Manager) WriteAll(res *model.Results) ([]WriteResult, error) {
	tables := []Table{
		SeriesTable("monthly_revenue", res.MonthlyRevenue),
		TopProductsTable(res.TopProducts),
		SeriesTable("forecast", res.Forecast),
	}
	if len(res.RFM) > 0 {
		tables = append(tables, RFMTable(res.RFM))
	}
	if res.Cohorts != nil {
		tables = append(tables, CohortTable(res.Cohorts))
	}

	results := make([]WriteResult, 0, len(tables))
	for _, table := range tables {
		wr, err := m.WriteCSV(table)
		if err != nil {
			return results, err
		}
		results = append(results, wr)
		if m.JSON {
			jwr, err := m.WriteJSON(table)
			if err != nil {
				return results, err
			}
			results = append(results, jwr)
		}
	}
	return results, nil
}

// WriteCSV writes one table as <dir>/<name>.csv.
func (m *Manager) WriteCSV(t Table) (WriteResult, error) {
	path := filepath.Join(m.Dir, t.Name+".csv")
	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return WriteResult{}, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return WriteResult{}, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return WriteResult{}, fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return WriteResult{}, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return WriteResult{}, fmt.Errorf("flush %s: %w", path, err)
	}

	m.log("wrote table", t, path)
	return WriteResult{Table: t.Name, Path: path, Rows: len(t.Rows), WrittenAt: time.Now().UTC()}, nil
}

// WriteJSON writes one table as <dir>/<name>.json.
func (m *Manager) WriteJSON(t Table) (WriteResult, error) {
	path := filepath.Join(m.Dir, t.Name+".json")
	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return WriteResult{}, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return WriteResult{}, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return WriteResult{}, fmt.Errorf("encode %s: %w", path, err)
	}

	m.log("wrote table", t, path)
	return WriteResult{Table: t.Name, Path: path, Rows: len(t.Rows), WrittenAt: time.Now().UTC()}, nil
}

func (m *Manager) log(msg string, t Table, path string) {
	if m.Logger != nil {
		m.Logger.Info(msg, zap.String("table", t.Name), zap.Int("rows", len(t.Rows)), zap.String("path", path))
	}
}

// SeriesTable renders a monthly series as (month, value) rows.
func SeriesTable(name string, pts []model.MonthPoint) Table {
	t := Table{Name: name, Header: []string{"month", "value"}}
	for _, pt := range pts {
		t.Rows = append(t.Rows, []string{analytics.FormatMonth(pt.Month), pt.Value.String()})
	}
	return t
}

// TopProductsTable renders the product ranking.
func TopProductsTable(ranks []model.ProductRank) Table {
	t := Table{Name: "top_products", Header: []string{"description", "quantity"}}
	for _, r := range ranks {
		t.Rows = append(t.Rows, []string{r.Description, fmt.Sprintf("%d", r.Quantity)})
	}
	return t
}

// RFMTable renders the per-customer RFM table.
func RFMTable(rows []model.RFMRow) Table {
	t := Table{
		Name:   "rfm_scores",
		Header: []string{"customer_id", "recency", "frequency", "monetary", "r", "f", "m", "rfm_score"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CustomerID,
			fmt.Sprintf("%d", r.Recency),
			fmt.Sprintf("%d", r.Frequency),
			r.Monetary.String(),
			fmt.Sprintf("%d", r.R),
			fmt.Sprintf("%d", r.F),
			fmt.Sprintf("%d", r.M),
			fmt.Sprintf("%d", r.Score),
		})
	}
	return t
}

// CohortTable pivots the sparse cohort matrix into wide form: one row
// per cohort month, one column per offset. Absent cells stay empty.
func CohortTable(m *model.CohortMatrix) Table {
	header := []string{"cohort_month"}
	for _, off := range m.Offsets {
		header = append(header, fmt.Sprintf("%d", off))
	}
	t := Table{Name: "cohort_matrix", Header: header}
	for _, month := range m.Months {
		row := []string{analytics.FormatMonth(month)}
		for _, off := range m.Offsets {
			if n, ok := m.Cell(month, off); ok {
				row = append(row, fmt.Sprintf("%d", n))
			} else {
				row = append(row, "")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
