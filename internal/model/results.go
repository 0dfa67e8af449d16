package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthPoint is one entry of a monthly series. Month is the first day of
// the calendar month in UTC.
type MonthPoint struct {
	Month time.Time       `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// ProductRank is one entry of the top-products ranking.
type ProductRank struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// RFMRow holds the recency/frequency/monetary metrics and scores for one
// customer. R, F and M are quartile scores in 1..4; Score is their sum.
type RFMRow struct {
	CustomerID string          `json:"customerId"`
	Recency    int             `json:"recency"`   // days since snapshot date
	Frequency  int             `json:"frequency"` // invoice line items
	Monetary   decimal.Decimal `json:"monetary"`
	R          int             `json:"r"`
	F          int             `json:"f"`
	M          int             `json:"m"`
	Score      int             `json:"score"`
}

// CohortCell addresses one cell of the cohort matrix: the calendar month
// of a cohort's first purchase and the month offset since it.
type CohortCell struct {
	Month  time.Time
	Offset int
}

// CohortMatrix is the sparse cohort-month x month-offset retention
// matrix. Absent cells mean no activity, not zero retention.
type CohortMatrix struct {
	Months  []time.Time        `json:"months"`  // cohort months, ascending
	Offsets []int              `json:"offsets"` // observed offsets, ascending
	Cells   map[CohortCell]int `json:"-"`
}

// Cell returns the distinct-customer count for a cohort month and offset.
// The second return value reports whether the cell is present.
func (m *CohortMatrix) Cell(month time.Time, offset int) (int, bool) {
	n, ok := m.Cells[CohortCell{Month: month, Offset: offset}]
	return n, ok
}

// CohortSize returns the number of customers whose first purchase falls
// in the given month. Offset 0 always holds the full cohort.
func (m *CohortMatrix) CohortSize(month time.Time) int {
	return m.Cells[CohortCell{Month: month, Offset: 0}]
}

// Results bundles everything one analysis run produced. Components fail
// independently: a nil RFM table alongside a populated revenue series is
// a valid partial result, with the cause kept in ComponentErrors.
type Results struct {
	RunID           string            `json:"runId"`
	Transactions    int               `json:"transactions"`
	MonthlyRevenue  []MonthPoint      `json:"monthlyRevenue"`
	TopProducts     []ProductRank     `json:"topProducts"`
	RFM             []RFMRow          `json:"rfm,omitempty"`
	Cohorts         *CohortMatrix     `json:"cohorts,omitempty"`
	Forecast        []MonthPoint      `json:"forecast"`
	ComponentErrors map[string]string `json:"componentErrors,omitempty"`
	CompletedAt     time.Time         `json:"completedAt"`
}

// Partial reports whether any component failed while others succeeded.
func (r *Results) Partial() bool {
	return len(r.ComponentErrors) > 0
}
