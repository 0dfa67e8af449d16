package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"retail-analytics/internal/model"
)

// Pipeline stage names, in execution order.
var Stages = []string{"clean", "aggregate", "rfm", "cohort", "forecast"}

// RunRecorder persists run lifecycle state. A nil recorder disables
// persistence, which is how tests and one-shot CLI runs operate.
type RunRecorder interface {
	SetStatus(runID, status string) error
	RecordError(runID, component string, err error) error
}

// Pipeline executes the full analysis synchronously: each component runs
// to completion over the immutable canonical table before the next one
// starts. Runs are idempotent given the same input rows; no state is
// shared between runs.
type Pipeline struct {
	Logger   *zap.Logger
	Recorder RunRecorder
	OnStage  func(stage string) // called as each stage completes
}

// Run cleans the raw rows and computes every derived table. A cleaning
// failure or an empty canonical table fails the whole run. Failures in
// RFM scoring are recorded per component and leave the other results
// intact, so callers can get a partial Results with ComponentErrors set.
func (p *Pipeline) Run(ctx context.Context, runID string, spec model.AnalysisSpec, rows []model.RawRow) (*model.Results, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis spec: %w", err)
	}

	start := time.Now()
	logger.Info("starting analysis run",
		zap.String("run_id", runID),
		zap.Int("raw_rows", len(rows)))
	p.setStatus(runID, "running")

	txs, err := Clean(rows)
	if err != nil {
		return nil, p.fail(runID, "cleaner", err)
	}
	if len(txs) == 0 {
		return nil, p.fail(runID, "cleaner", ErrEmptyInput)
	}
	logger.Info("cleaned transactions",
		zap.String("run_id", runID),
		zap.Int("kept", len(txs)),
		zap.Int("dropped", len(rows)-len(txs)))
	p.stageDone("clean")
	if err := ctx.Err(); err != nil {
		return nil, p.fail(runID, "pipeline", err)
	}

	results := &model.Results{
		RunID:           runID,
		Transactions:    len(txs),
		ComponentErrors: map[string]string{},
	}

	results.MonthlyRevenue = MonthlyRevenue(txs)
	results.TopProducts = TopProducts(txs, spec.TopN)
	logger.Info("aggregated revenue",
		zap.String("run_id", runID),
		zap.Int("months", len(results.MonthlyRevenue)),
		zap.Int("products_ranked", len(results.TopProducts)))
	p.stageDone("aggregate")
	if err := ctx.Err(); err != nil {
		return nil, p.fail(runID, "pipeline", err)
	}

	rfm, err := ScoreRFM(txs, spec.BinPolicy)
	if err != nil {
		// RFM failing does not invalidate the other tables; keep going
		// and report the component failure alongside the results.
		logger.Warn("rfm scoring failed",
			zap.String("run_id", runID),
			zap.Error(err))
		results.ComponentErrors["rfm"] = err.Error()
		p.recordError(runID, "rfm", err)
	} else {
		results.RFM = rfm
	}
	p.stageDone("rfm")
	if err := ctx.Err(); err != nil {
		return nil, p.fail(runID, "pipeline", err)
	}

	results.Cohorts = BuildCohorts(txs)
	p.stageDone("cohort")

	results.Forecast = MovingAverage(results.MonthlyRevenue, spec.Window)
	p.stageDone("forecast")

	results.CompletedAt = time.Now().UTC()
	status := "completed"
	if results.Partial() {
		status = "partial"
	}
	p.setStatus(runID, status)
	if len(results.ComponentErrors) == 0 {
		results.ComponentErrors = nil
	}
	logger.Info("analysis run finished",
		zap.String("run_id", runID),
		zap.String("status", status),
		zap.Duration("took", time.Since(start)))
	return results, nil
}

func (p *Pipeline) fail(runID, component string, err error) error {
	p.recordError(runID, component, err)
	p.setStatus(runID, "failed")
	if errors.Is(err, ErrEmptyInput) {
		return err
	}
	return fmt.Errorf("%s: %w", component, err)
}

func (p *Pipeline) setStatus(runID, status string) {
	if p.Recorder != nil {
		_ = p.Recorder.SetStatus(runID, status)
	}
}

func (p *Pipeline) recordError(runID, component string, err error) {
	if p.Recorder != nil {
		_ = p.Recorder.RecordError(runID, component, err)
	}
}

func (p *Pipeline) stageDone(stage string) {
	if p.OnStage != nil {
		p.OnStage(stage)
	}
}
