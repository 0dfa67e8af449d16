package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"retail-analytics/internal/model"
	"retail-analytics/internal/store"
)

const sampleCSV = `Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country
1,A1,RED MUG,2,2024-01-05 10:00:00,4.25,C1,United Kingdom
2,A1,RED MUG,1,2024-02-03 11:00:00,4.25,C1,United Kingdom
3,B2,DESK LAMP,1,2024-02-10 12:00:00,19.99,C2,France
4,B2,DESK LAMP,3,2024-03-01 09:30:00,19.99,C3,France
5,C3,BLUE PEN,10,2024-03-15 16:00:00,0.50,C2,France
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestExecute_EndToEnd(t *testing.T) {
	outDir := t.TempDir()
	spec := model.AnalysisSpec{
		Input:  model.Input{File: writeSample(t), HasHead: true},
		Window: 2,
		Export: &model.Export{Dir: outDir},
	}

	r := &Runner{}
	res, err := r.Execute(context.Background(), "run-1", spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Transactions != 5 {
		t.Fatalf("transactions = %d, want 5", res.Transactions)
	}
	if len(res.MonthlyRevenue) != 3 {
		t.Fatalf("months = %d, want 3", len(res.MonthlyRevenue))
	}
	if len(res.Forecast) != 2 {
		t.Fatalf("forecast points = %d, want 2", len(res.Forecast))
	}

	for _, name := range []string{"monthly_revenue", "top_products", "forecast", "rfm_scores", "cohort_matrix"} {
		path := filepath.Join(outDir, "run-1", name+".csv")
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("table %s not written: %v", name, err)
		}
	}
}

func TestExecute_PersistsRunState(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	spec := model.AnalysisSpec{Input: model.Input{File: writeSample(t), HasHead: true}}
	if err := s.SaveRun("run-2", spec); err != nil {
		t.Fatalf("save run: %v", err)
	}

	r := &Runner{Store: s}
	if _, err := r.Execute(context.Background(), "run-2", spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run, err := s.GetRun("run-2")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Status != "completed" {
		t.Fatalf("status = %q, want completed", run.Status)
	}
	res, err := s.GetResults("run-2")
	if err != nil {
		t.Fatalf("get results: %v", err)
	}
	if res.Transactions != 5 {
		t.Fatalf("stored transactions = %d, want 5", res.Transactions)
	}
}

func TestExecute_MissingInputFile(t *testing.T) {
	r := &Runner{}
	spec := model.AnalysisSpec{Input: model.Input{File: filepath.Join(t.TempDir(), "absent.csv")}}
	if _, err := r.Execute(context.Background(), "run-3", spec); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestExecute_StageHooks(t *testing.T) {
	var stages []string
	r := &Runner{OnStage: func(s string) { stages = append(stages, s) }}
	spec := model.AnalysisSpec{Input: model.Input{File: writeSample(t), HasHead: true}}
	if _, err := r.Execute(context.Background(), "run-4", spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stages) != len(Stages) {
		t.Fatalf("stages = %v, want all of %v", stages, Stages)
	}
}
