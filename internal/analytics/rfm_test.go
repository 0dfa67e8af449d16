package analytics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"retail-analytics/internal/model"
)

func TestScoreRFM_Metrics(t *testing.T) {
	// Three line items for C1; snapshot becomes 2024-02-16.
	txs := []model.Transaction{
		tx("C1", "MUG", 1, "10", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		tx("C1", "MUG", 1, "10", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
		tx("C1", "MUG", 1, "10", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)),
	}
	rows, err := ScoreRFM(txs, model.BinPolicyRank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Recency != 1 {
		t.Fatalf("recency = %d, want 1", r.Recency)
	}
	if r.Frequency != 3 {
		t.Fatalf("frequency = %d, want 3", r.Frequency)
	}
	if got := r.Monetary.String(); got != "30" {
		t.Fatalf("monetary = %s, want 30", got)
	}
}

func TestScoreRFM_ScoreBoundsAndSum(t *testing.T) {
	var txs []model.Transaction
	for i := 0; i < 20; i++ {
		c := fmt.Sprintf("C%02d", i)
		for j := 0; j <= i%5; j++ {
			txs = append(txs, tx(c, "MUG", 1+i%4, "2.5", day(2024, time.Month(1+i%6), 1+j)))
		}
	}
	rows, err := ScoreRFM(txs, model.BinPolicyRank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range rows {
		if r.Score < 3 || r.Score > 12 {
			t.Fatalf("customer %s: score %d out of [3,12]", r.CustomerID, r.Score)
		}
		if r.Score != r.R+r.F+r.M {
			t.Fatalf("customer %s: score %d != R+F+M %d", r.CustomerID, r.Score, r.R+r.F+r.M)
		}
		for _, b := range []int{r.R, r.F, r.M} {
			if b < 1 || b > 4 {
				t.Fatalf("customer %s: bin %d out of [1,4]", r.CustomerID, b)
			}
		}
	}
}

func TestScoreRFM_RecentCustomerScoresHigherR(t *testing.T) {
	txs := []model.Transaction{
		tx("OLD", "MUG", 1, "10", day(2024, 1, 1)),
		tx("MID1", "MUG", 1, "10", day(2024, 2, 1)),
		tx("MID2", "MUG", 1, "10", day(2024, 3, 1)),
		tx("NEW", "MUG", 1, "10", day(2024, 4, 1)),
	}
	rows, err := ScoreRFM(txs, model.BinPolicyRank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byID := map[string]model.RFMRow{}
	for _, r := range rows {
		byID[r.CustomerID] = r
	}
	if byID["NEW"].R != 4 {
		t.Fatalf("most recent customer R = %d, want 4", byID["NEW"].R)
	}
	if byID["OLD"].R != 1 {
		t.Fatalf("least recent customer R = %d, want 1", byID["OLD"].R)
	}
}

func TestScoreRFM_RankPolicyHandlesHeavyTies(t *testing.T) {
	// Every customer has frequency 1: strict quartiles are impossible,
	// the rank policy still spreads customers across four bins.
	var txs []model.Transaction
	for i := 0; i < 8; i++ {
		c := fmt.Sprintf("C%d", i)
		txs = append(txs, tx(c, "MUG", 1, fmt.Sprintf("%d", i+1), day(2024, 1, 1+i)))
	}
	rows, err := ScoreRFM(txs, model.BinPolicyRank)
	if err != nil {
		t.Fatalf("rank policy must not fail on ties: %v", err)
	}
	counts := map[int]int{}
	for _, r := range rows {
		counts[r.F]++
	}
	for b := 1; b <= 4; b++ {
		if counts[b] != 2 {
			t.Fatalf("frequency bin %d holds %d customers, want 2 (equal-frequency)", b, counts[b])
		}
	}
}

func TestScoreRFM_StrictPolicyDegeneracy(t *testing.T) {
	var txs []model.Transaction
	for i := 0; i < 8; i++ {
		txs = append(txs, tx(fmt.Sprintf("C%d", i), "MUG", 1, "5", day(2024, 1, 1+i)))
	}
	_, err := ScoreRFM(txs, model.BinPolicyStrict)
	var qde *QuantileDegeneracyError
	if !errors.As(err, &qde) {
		t.Fatalf("want *QuantileDegeneracyError, got %v", err)
	}
	if qde.Metric != "frequency" {
		t.Fatalf("degenerate metric = %q, want frequency", qde.Metric)
	}
}

func TestScoreRFM_StrictPolicyDistinctValues(t *testing.T) {
	var txs []model.Transaction
	for i := 0; i < 12; i++ {
		c := fmt.Sprintf("C%02d", i)
		// Distinct recency, frequency and monetary per customer.
		for j := 0; j <= i; j++ {
			txs = append(txs, tx(c, "MUG", 1, fmt.Sprintf("%d.50", i+1), day(2024, 1, 1+i).AddDate(0, 0, -j)))
		}
	}
	rows, err := ScoreRFM(txs, model.BinPolicyStrict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 12 {
		t.Fatalf("got %d rows, want 12", len(rows))
	}
	for _, r := range rows {
		if r.Score < 3 || r.Score > 12 {
			t.Fatalf("customer %s: score %d out of [3,12]", r.CustomerID, r.Score)
		}
	}
}

func TestScoreRFM_EmptyInput(t *testing.T) {
	_, err := ScoreRFM(nil, model.BinPolicyRank)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("want ErrEmptyInput, got %v", err)
	}
}
