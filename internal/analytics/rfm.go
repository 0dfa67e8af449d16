package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"retail-analytics/internal/model"
)

// ScoreRFM computes per-customer recency, frequency and monetary metrics
// and quartile scores against a snapshot date of max invoice date + 1
// day. Frequency counts invoice line items, not distinct invoices.
//
// Two binning policies exist. The default rank policy assigns each
// customer the quartile of its ordinal rank (value ascending, ties kept
// in customer-id order), which always yields four near-equal bins no
// matter how tied the metric is. The strict policy uses interpolated
// quartile edges and fails with *QuantileDegeneracyError when ties
// collapse the edges.
func ScoreRFM(txs []model.Transaction, policy string) ([]model.RFMRow, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyInput
	}

	var maxDate time.Time
	for _, tx := range txs {
		if tx.InvoiceDate.After(maxDate) {
			maxDate = tx.InvoiceDate
		}
	}
	snapshot := maxDate.AddDate(0, 0, 1)

	type accum struct {
		latest   time.Time
		count    int
		monetary decimal.Decimal
	}
	byCustomer := make(map[string]*accum)
	for _, tx := range txs {
		a, ok := byCustomer[tx.CustomerID]
		if !ok {
			a = &accum{}
			byCustomer[tx.CustomerID] = a
		}
		if tx.InvoiceDate.After(a.latest) {
			a.latest = tx.InvoiceDate
		}
		a.count++
		a.monetary = a.monetary.Add(tx.Total)
	}

	rows := make([]model.RFMRow, 0, len(byCustomer))
	for id, a := range byCustomer {
		rows = append(rows, model.RFMRow{
			CustomerID: id,
			Recency:    int(snapshot.Sub(a.latest).Hours() / 24),
			Frequency:  a.count,
			Monetary:   a.monetary,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CustomerID < rows[j].CustomerID })

	recency := make([]float64, len(rows))
	frequency := make([]float64, len(rows))
	monetary := make([]float64, len(rows))
	for i, r := range rows {
		recency[i] = float64(r.Recency)
		frequency[i] = float64(r.Frequency)
		monetary[i] = r.Monetary.InexactFloat64()
	}

	rBins, err := assignBins(recency, policy, "recency")
	if err != nil {
		return nil, err
	}
	fBins, err := assignBins(frequency, policy, "frequency")
	if err != nil {
		return nil, err
	}
	mBins, err := assignBins(monetary, policy, "monetary")
	if err != nil {
		return nil, err
	}

	for i := range rows {
		// Low recency means a recent customer, so the first recency
		// quartile scores highest.
		rows[i].R = 5 - rBins[i]
		rows[i].F = fBins[i]
		rows[i].M = mBins[i]
		rows[i].Score = rows[i].R + rows[i].F + rows[i].M
	}
	return rows, nil
}

// assignBins partitions values into quartile bins 1..4, ascending.
func assignBins(values []float64, policy, metric string) ([]int, error) {
	switch policy {
	case model.BinPolicyRank, "":
		return rankBins(values), nil
	case model.BinPolicyStrict:
		return strictBins(values, metric)
	default:
		return nil, fmt.Errorf("unknown bin policy %q", policy)
	}
}

// rankBins assigns bin = quartile of the ordinal rank. sort.SliceStable
// keeps tied values in input order, so equal metrics bin
// deterministically by the caller's (customer id) ordering.
func rankBins(values []float64) []int {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	bins := make([]int, n)
	for rank, i := range idx {
		bins[i] = rank*4/n + 1
	}
	return bins
}

// strictBins cuts at interpolated quartile edges and rejects metrics
// whose ties collapse the edges.
func strictBins(values []float64, metric string) ([]int, error) {
	distinct := make(map[float64]struct{}, len(values))
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	if len(distinct) < 4 {
		return nil, &QuantileDegeneracyError{Metric: metric, Distinct: len(distinct)}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	q2 := quantile(sorted, 0.50)
	q3 := quantile(sorted, 0.75)
	if q1 == q2 || q2 == q3 {
		return nil, &QuantileDegeneracyError{Metric: metric, Distinct: len(distinct)}
	}

	bins := make([]int, len(values))
	for i, v := range values {
		switch {
		case v <= q1:
			bins[i] = 1
		case v <= q2:
			bins[i] = 2
		case v <= q3:
			bins[i] = 3
		default:
			bins[i] = 4
		}
	}
	return bins, nil
}

// quantile interpolates linearly between order statistics.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
