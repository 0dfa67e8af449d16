package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"retail-analytics/internal/analytics"
	"retail-analytics/internal/export"
	"retail-analytics/internal/loader"
	"retail-analytics/internal/model"
	"retail-analytics/internal/render"
	"retail-analytics/internal/store"
	"retail-analytics/pkg/utils"
)

// Stages of a full run, in order: loading, the analytical pipeline, then
// the output adapters.
var Stages = append(append([]string{"load"}, analytics.Stages...), "export", "render")

// Runner executes one analysis run end to end: load the input file, run
// the analytical pipeline, persist results, write tables and render
// charts. The CLI and the API are thin callers of this one
// implementation.
type Runner struct {
	Logger  *zap.Logger
	Store   *store.Store       // optional; nil disables run persistence
	OnStage func(stage string) // optional progress hook
}

// Execute runs the given spec under runID and returns the results. The
// returned error covers pipeline failures and output failures alike;
// component-level partial failures live in Results.ComponentErrors.
func (r *Runner) Execute(ctx context.Context, runID string, spec model.AnalysisSpec) (*model.Results, error) {
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis spec: %w", err)
	}

	reader := &loader.Reader{
		Comma:     rune(spec.Input.Comma[0]),
		HasHeader: spec.Input.HasHead,
		Logger:    r.Logger,
	}
	rows, err := reader.ReadFile(spec.Input.File)
	if err != nil {
		r.recordFailure(runID, "loader", err)
		return nil, err
	}
	r.stageDone("load")

	var recorder analytics.RunRecorder
	if r.Store != nil {
		recorder = r.Store
	}
	pipeline := &analytics.Pipeline{
		Logger:   r.Logger,
		Recorder: recorder,
		OnStage:  r.OnStage,
	}
	res, err := pipeline.Run(ctx, runID, spec, rows)
	if err != nil {
		return nil, err
	}
	if r.Store != nil {
		if err := r.Store.SaveResults(runID, res); err != nil {
			return res, fmt.Errorf("save results: %w", err)
		}
	}

	if spec.Export != nil {
		if err := r.export(runID, spec.Export, res); err != nil {
			r.recordFailure(runID, "persister", err)
			return res, err
		}
	}
	r.stageDone("export")

	if spec.Charts != nil {
		dir, err := utils.NewOutputManager(spec.Charts.Dir).RunDir(runID)
		if err != nil {
			return res, err
		}
		renderer := &render.Renderer{Dir: dir, Logger: r.Logger}
		if _, err := renderer.RenderAll(res); err != nil {
			r.recordFailure(runID, "renderer", err)
			return res, err
		}
	}
	r.stageDone("render")

	return res, nil
}

func (r *Runner) export(runID string, spec *model.Export, res *model.Results) error {
	dir, err := utils.NewOutputManager(spec.Dir).RunDir(runID)
	if err != nil {
		return err
	}
	mgr := &export.Manager{Dir: dir, JSON: spec.JSON, Logger: r.Logger}
	written, err := mgr.WriteAll(res)
	if err != nil {
		return err
	}
	if r.Store != nil {
		for _, wr := range written {
			if err := r.Store.SaveTableExport(runID, wr.Table, wr.Path, wr.Rows); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) recordFailure(runID, component string, err error) {
	if r.Store != nil {
		_ = r.Store.RecordError(runID, component, err)
		_ = r.Store.SetStatus(runID, "failed")
	}
}

func (r *Runner) stageDone(stage string) {
	if r.OnStage != nil {
		r.OnStage(stage)
	}
}
