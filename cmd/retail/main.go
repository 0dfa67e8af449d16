package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"retail-analytics/internal/analytics"
	"retail-analytics/internal/config"
	"retail-analytics/internal/runner"
	"retail-analytics/internal/store"
	"retail-analytics/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	input := flag.String("input", "", "path to the transactions CSV (overrides RETAIL_INPUT_FILE)")
	noStore := flag.Bool("no-store", false, "skip recording the run in the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.InputFile = *input
	}
	if cfg.InputFile == "" {
		fmt.Fprintln(os.Stderr, "no input file: pass -input or set RETAIL_INPUT_FILE")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	exec := &runner.Runner{Logger: logger}
	if !*noStore {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			logger.Fatal("failed to open run store", zap.Error(err))
		}
		defer db.Close()
		exec.Store = db
	}

	runID := uuid.New().String()
	spec := cfg.Spec()
	if exec.Store != nil {
		if err := exec.Store.SaveRun(runID, spec); err != nil {
			logger.Fatal("failed to save run", zap.Error(err))
		}
	}

	bar := progressbar.Default(int64(len(runner.Stages)), "analyzing")
	exec.OnStage = func(stage string) {
		_ = bar.Add(1)
	}

	logger.Info("starting analysis run",
		zap.String("runID", runID),
		zap.String("input", cfg.InputFile))

	res, err := exec.Execute(context.Background(), runID, spec)
	_ = bar.Finish()
	if err != nil {
		logger.Fatal("analysis run failed", zap.String("runID", runID), zap.Error(err))
	}

	fmt.Printf("\nRun %s %s\n", runID, status(res.Partial()))
	fmt.Printf("  transactions: %d\n", res.Transactions)
	fmt.Printf("  months:       %d\n", len(res.MonthlyRevenue))
	if len(res.MonthlyRevenue) > 0 {
		last := res.MonthlyRevenue[len(res.MonthlyRevenue)-1]
		fmt.Printf("  last month:   %s revenue %s\n", analytics.FormatMonth(last.Month), last.Value.String())
	}
	fmt.Printf("  customers:    %d scored\n", len(res.RFM))
	fmt.Printf("  forecast:     %d points\n", len(res.Forecast))
	for component, msg := range res.ComponentErrors {
		fmt.Printf("  %s failed: %s\n", component, msg)
	}
	fmt.Printf("  tables:  %s\n", cfg.OutputDir)
	fmt.Printf("  charts:  %s\n", cfg.ChartsDir)
}

func status(partial bool) string {
	if partial {
		return "completed with partial results"
	}
	return "completed"
}
