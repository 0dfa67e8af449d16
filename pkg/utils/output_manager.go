package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager organizes run-scoped output directories: every analysis
// run writes its tables and charts under <base>/<runID>/.
type OutputManager struct {
	BaseDir string
}

func NewOutputManager(baseDir string) *OutputManager {
	return &OutputManager{BaseDir: baseDir}
}

// RunDir creates and returns the output directory for a run.
func (om *OutputManager) RunDir(runID string) (string, error) {
	dir := filepath.Join(om.BaseDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create run output directory: %w", err)
	}
	return dir, nil
}

// FilePath returns the full path for a named artifact of a run,
// creating the run directory if needed. The name is stripped of any
// path separators first.
func (om *OutputManager) FilePath(runID, name string) (string, error) {
	dir, err := om.RunDir(runID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}
