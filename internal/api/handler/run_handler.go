package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"retail-analytics/internal/model"
	"retail-analytics/internal/runner"
	"retail-analytics/internal/store"
	"retail-analytics/pkg/utils"
)

const runPathPrefix = "/api/v1/runs/"

// defaultRunTimeout bounds a run whose spec does not set one.
const defaultRunTimeout = 5 * time.Minute

// RunHandler serves the analysis run endpoints.
type RunHandler struct {
	Store  *store.Store
	Logger *zap.Logger
}

func NewRunHandler(s *store.Store, logger *zap.Logger) *RunHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunHandler{Store: s, Logger: logger}
}

// CreateRun accepts an analysis spec, records the run and starts it
// asynchronously. The response carries the run ID to poll with.
// @Summary Start an analysis run
// @Tags runs
// @Accept json
// @Produce json
// @Param spec body model.AnalysisSpec true "Analysis configuration"
// @Router /runs [post]
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var spec model.AnalysisSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	if err := h.Store.SaveRun(runID, spec); err != nil {
		h.Logger.Error("failed to save run", zap.String("runID", runID), zap.Error(err))
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.RunTimeout, defaultRunTimeout))
	go func() {
		defer cancel()
		exec := &runner.Runner{Logger: h.Logger, Store: h.Store}
		if _, err := exec.Execute(ctx, runID, spec); err != nil {
			h.Logger.Error("run failed", zap.String("runID", runID), zap.Error(err))
		}
	}()

	writeJSON(w, map[string]interface{}{
		"message":   "Analysis run started",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	})
}

// ListRuns returns every recorded run with its current status.
// @Summary List analysis runs
// @Tags runs
// @Produce json
// @Router /runs [get]
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns()
	if err != nil {
		h.Logger.Error("failed to list runs", zap.Error(err))
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

// GetRun returns the stored state of one run.
// @Summary Get a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Router /runs/{id} [get]
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "")
	if !ok {
		return
	}
	run, err := h.Store.GetRun(runID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("failed to fetch run", zap.String("runID", runID), zap.Error(err))
		http.Error(w, "Failed to fetch run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, run)
}

// GetRunResults returns the analytical results of a completed or
// partial run.
// @Summary Get run results
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Router /runs/{id}/results [get]
func (h *RunHandler) GetRunResults(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/results")
	if !ok {
		return
	}
	res, err := h.Store.GetResults(runID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Results not available", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("failed to fetch results", zap.String("runID", runID), zap.Error(err))
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

// GetRunErrors returns the component errors recorded during a run.
// @Summary Get run errors
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Router /runs/{id}/errors [get]
func (h *RunHandler) GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/errors")
	if !ok {
		return
	}
	runErrs, err := h.Store.ListErrors(runID)
	if err != nil {
		h.Logger.Error("failed to fetch run errors", zap.String("runID", runID), zap.Error(err))
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"runID":  runID,
		"errors": runErrs,
		"count":  len(runErrs),
	})
}

func runIDFromPath(w http.ResponseWriter, path, suffix string) (string, bool) {
	if !strings.HasPrefix(path, runPathPrefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	runID := path[len(runPathPrefix) : len(path)-len(suffix)]
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return "", false
	}
	return runID, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
