package analytics

import (
	"github.com/shopspring/decimal"

	"retail-analytics/internal/model"
)

// MovingAverage smooths a chronological monthly series with a
// fixed-window unweighted mean. Each output point is the mean of the
// window ending at that month, so the result is aligned to the last
// month of each window and has length len(series)-window+1. A series
// shorter than the window yields an empty result. This smooths observed
// months only; it never extrapolates past the series.
func MovingAverage(series []model.MonthPoint, window int) []model.MonthPoint {
	if window < 1 || len(series) < window {
		return nil
	}

	out := make([]model.MonthPoint, 0, len(series)-window+1)
	div := decimal.NewFromInt(int64(window))
	var sum decimal.Decimal
	for i, pt := range series {
		sum = sum.Add(pt.Value)
		if i >= window {
			sum = sum.Sub(series[i-window].Value)
		}
		if i >= window-1 {
			out = append(out, model.MonthPoint{Month: pt.Month, Value: sum.Div(div)})
		}
	}
	return out
}
