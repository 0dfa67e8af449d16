package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"retail-analytics/internal/analytics"
	"retail-analytics/internal/model"
)

// Renderer writes HTML charts for the derived tables under Dir.
type Renderer struct {
	Dir    string
	Logger *zap.Logger
}

// RenderAll renders every chart the run's results support and returns
// the written paths. Charts for failed components are skipped.
func (r *Renderer) RenderAll(res *model.Results) ([]string, error) {
	var paths []string
	renderers := []func(*model.Results) (string, error){
		r.monthlySales,
		r.topProducts,
		r.rfmDistribution,
		r.cohortHeatmap,
	}
	for _, fn := range renderers {
		path, err := fn(res)
		if err != nil {
			return paths, err
		}
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// monthlySales draws the revenue series with the SMA forecast overlaid.
// The forecast is aligned to the last month of each window, so its line
// starts window-1 months into the x axis.
func (r *Renderer) monthlySales(res *model.Results) (string, error) {
	if len(res.MonthlyRevenue) == 0 {
		return "", nil
	}
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Monthly Revenue"}))

	months := make([]string, len(res.MonthlyRevenue))
	actual := make([]opts.LineData, len(res.MonthlyRevenue))
	for i, pt := range res.MonthlyRevenue {
		months[i] = analytics.FormatMonth(pt.Month)
		actual[i] = opts.LineData{Value: pt.Value.InexactFloat64()}
	}
	line.SetXAxis(months).AddSeries("Actual", actual)

	if len(res.Forecast) > 0 {
		offset := len(res.MonthlyRevenue) - len(res.Forecast)
		smoothed := make([]opts.LineData, len(res.MonthlyRevenue))
		for i := 0; i < offset; i++ {
			smoothed[i] = opts.LineData{Value: "-"}
		}
		for i, pt := range res.Forecast {
			smoothed[offset+i] = opts.LineData{Value: pt.Value.InexactFloat64()}
		}
		line.AddSeries("Forecast (SMA)", smoothed)
	}
	return r.write("monthly_sales", line)
}

func (r *Renderer) topProducts(res *model.Results) (string, error) {
	if len(res.TopProducts) == 0 {
		return "", nil
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Bestselling Products"}))

	labels := make([]string, len(res.TopProducts))
	data := make([]opts.BarData, len(res.TopProducts))
	for i, p := range res.TopProducts {
		labels[i] = p.Description
		data[i] = opts.BarData{Value: p.Quantity}
	}
	bar.SetXAxis(labels).AddSeries("Quantity Sold", data)
	return r.write("top_products", bar)
}

// rfmDistribution draws a histogram of the composite score over its
// whole 3..12 range.
func (r *Renderer) rfmDistribution(res *model.Results) (string, error) {
	if len(res.RFM) == 0 {
		return "", nil
	}
	counts := make(map[int]int)
	for _, row := range res.RFM {
		counts[row.Score]++
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "RFM Score Distribution"}))

	var labels []string
	var data []opts.BarData
	for score := 3; score <= 12; score++ {
		labels = append(labels, fmt.Sprintf("%d", score))
		data = append(data, opts.BarData{Value: counts[score]})
	}
	bar.SetXAxis(labels).AddSeries("Customers", data)
	return r.write("rfm_segments", bar)
}

func (r *Renderer) cohortHeatmap(res *model.Results) (string, error) {
	m := res.Cohorts
	if m == nil || len(m.Months) == 0 {
		return "", nil
	}
	hm := charts.NewHeatMap()

	xLabels := make([]string, len(m.Offsets))
	maxCount := 0
	for i, off := range m.Offsets {
		xLabels[i] = fmt.Sprintf("+%d", off)
	}
	yLabels := make([]string, len(m.Months))
	var cells []opts.HeatMapData
	for yi, month := range m.Months {
		yLabels[yi] = analytics.FormatMonth(month)
		for xi, off := range m.Offsets {
			if n, ok := m.Cell(month, off); ok {
				cells = append(cells, opts.HeatMapData{Value: [3]interface{}{xi, yi, n}})
				if n > maxCount {
					maxCount = n
				}
			}
		}
	}

	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Cohort Retention"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{Calculable: true, Min: 0, Max: float32(maxCount)}),
	)
	hm.AddSeries("customers", cells)
	return r.write("cohort_retention", hm)
}

type renderable interface {
	Render(w io.Writer) error
}

func (r *Renderer) write(name string, chart renderable) (string, error) {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", fmt.Errorf("create charts directory: %w", err)
	}
	path := filepath.Join(r.Dir, name+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := chart.Render(f); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	if r.Logger != nil {
		r.Logger.Info("rendered chart", zap.String("chart", name), zap.String("path", path))
	}
	return path, nil
}
