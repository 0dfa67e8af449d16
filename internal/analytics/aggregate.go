package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"retail-analytics/internal/model"
)

// MonthlyRevenue groups transactions by calendar month and sums totals.
// The series is chronological and only contains months present in the
// data; months without transactions are omitted, not zero-filled.
func MonthlyRevenue(txs []model.Transaction) []model.MonthPoint {
	byMonth := make(map[time.Time]decimal.Decimal)
	for _, tx := range txs {
		m := MonthOf(tx.InvoiceDate)
		byMonth[m] = byMonth[m].Add(tx.Total)
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	series := make([]model.MonthPoint, 0, len(months))
	for _, m := range months {
		series = append(series, model.MonthPoint{Month: m, Value: byMonth[m]})
	}
	return series
}

// TopProducts ranks product descriptions by total quantity sold,
// descending, truncated to n. Quantity ties keep the order in which the
// descriptions were first encountered in the table.
func TopProducts(txs []model.Transaction, n int) []model.ProductRank {
	totals := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, tx := range txs {
		if _, ok := firstSeen[tx.Description]; !ok {
			firstSeen[tx.Description] = i
		}
		totals[tx.Description] += tx.Quantity
	}

	ranks := make([]model.ProductRank, 0, len(totals))
	for desc, qty := range totals {
		ranks = append(ranks, model.ProductRank{Description: desc, Quantity: qty})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity > ranks[j].Quantity
		}
		return firstSeen[ranks[i].Description] < firstSeen[ranks[j].Description]
	})

	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}
