package analytics

import (
	"sort"
	"time"

	"retail-analytics/internal/model"
)

// BuildCohorts assigns each customer to the calendar month of their
// first purchase and counts, per (cohort month, month offset), the
// distinct customers active in that offset month. Cells with no
// activity stay absent; no retention is inferred for them. Offset 0
// always equals the cohort's size, since every customer transacts in
// their own first month.
func BuildCohorts(txs []model.Transaction) *model.CohortMatrix {
	firstMonth := make(map[string]time.Time)
	for _, tx := range txs {
		m := MonthOf(tx.InvoiceDate)
		if cur, ok := firstMonth[tx.CustomerID]; !ok || m.Before(cur) {
			firstMonth[tx.CustomerID] = m
		}
	}

	// Distinct customers per (cohort month, offset).
	type cellCustomer struct {
		cell     model.CohortCell
		customer string
	}
	seen := make(map[cellCustomer]struct{})
	cells := make(map[model.CohortCell]int)
	for _, tx := range txs {
		cohort := firstMonth[tx.CustomerID]
		cell := model.CohortCell{
			Month:  cohort,
			Offset: MonthsBetween(cohort, MonthOf(tx.InvoiceDate)),
		}
		key := cellCustomer{cell: cell, customer: tx.CustomerID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cells[cell]++
	}

	monthSet := make(map[time.Time]struct{})
	offsetSet := make(map[int]struct{})
	for cell := range cells {
		monthSet[cell.Month] = struct{}{}
		offsetSet[cell.Offset] = struct{}{}
	}
	months := make([]time.Time, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	offsets := make([]int, 0, len(offsetSet))
	for o := range offsetSet {
		offsets = append(offsets, o)
	}
	sort.Ints(offsets)

	return &model.CohortMatrix{Months: months, Offsets: offsets, Cells: cells}
}
