package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"retail-analytics/internal/model"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// Store persists analysis runs, their errors, their results and the
// tables they exported. It implements analytics.RunRecorder.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			results TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			component TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_tables (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			name TEXT,
			path TEXT,
			row_count INTEGER,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun stores a new pending run.
func (s *Store) SaveRun(runID string, spec model.AnalysisSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, "pending", now, now)
	return err
}

// SetStatus updates a run's status.
func (s *Store) SetStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// RecordError records a component failure for a run.
func (s *Store) RecordError(runID, component string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO run_errors (run_id, component, error_message, created_at) VALUES (?, ?, ?, ?)`,
		runID, component, runErr.Error(), now)
	return err
}

// SaveResults stores the derived tables of a finished run as JSON.
func (s *Store) SaveResults(runID string, res *model.Results) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(`UPDATE runs SET results = ?, updated_at = ? WHERE id = ?`, data, now, runID)
	return err
}

// GetResults loads the stored results of a run. Runs without results
// (still pending, or failed before completing) return ErrNotFound.
func (s *Store) GetResults(runID string) (*model.Results, error) {
	var data sql.NullString
	err := s.db.QueryRow(`SELECT results FROM runs WHERE id = ?`, runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !data.Valid || data.String == "" {
		return nil, ErrNotFound
	}
	var res model.Results
	if err := json.Unmarshal([]byte(data.String), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRuns returns all runs, newest first, without specs or results.
func (s *Store) ListRuns() ([]model.RunInfo, error) {
	rows, err := s.db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunInfo
	for rows.Next() {
		var r model.RunInfo
		if err := rows.Scan(&r.ID, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run including its spec.
func (s *Store) GetRun(runID string) (*model.RunInfo, error) {
	var r model.RunInfo
	var specJSON string
	err := s.db.QueryRow(`SELECT id, spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &specJSON, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var spec model.AnalysisSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}
	r.Spec = &spec
	return &r, nil
}

// ListErrors returns the recorded component errors of a run.
func (s *Store) ListErrors(runID string) ([]model.RunError, error) {
	rows, err := s.db.Query(
		`SELECT component, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []model.RunError
	for rows.Next() {
		var e model.RunError
		if err := rows.Scan(&e.Component, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// SaveTableExport records one table written for a run.
func (s *Store) SaveTableExport(runID, name, path string, rowCount int) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO run_tables (run_id, name, path, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, name, path, rowCount, now)
	return err
}
