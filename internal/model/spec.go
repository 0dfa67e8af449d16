package model

import (
	"errors"
	"fmt"
	"time"
)

// Quantile binning policies for RFM scoring.
const (
	BinPolicyRank   = "rank"   // rank-based assignment, never degenerate
	BinPolicyStrict = "strict" // interpolated quartile edges, may degenerate
)

// Input names the transaction file an analysis run reads.
type Input struct {
	File    string `json:"file"`
	Comma   string `json:"comma,omitempty"`   // field delimiter, default ","
	HasHead bool   `json:"hasHeader"`         // first line is a header row
}

// Export defines where derived tables are written.
type Export struct {
	Dir  string `json:"dir"`            // base output directory
	JSON bool   `json:"json,omitempty"` // also write JSON next to each CSV
}

// Charts defines where rendered charts are written.
type Charts struct {
	Dir string `json:"dir"`
}

// AnalysisSpec is the full configuration of one analysis run, accepted by
// POST /api/v1/runs and built from env config by the batch CLI.
type AnalysisSpec struct {
	Input      Input   `json:"input"`
	TopN       int     `json:"topN"`       // 0 means default 10
	Window     int     `json:"window"`     // 0 means default 3
	BinPolicy  string  `json:"binPolicy"`  // "" means rank
	Export     *Export `json:"export,omitempty"`
	Charts     *Charts `json:"charts,omitempty"`
	RunTimeout string  `json:"runTimeout,omitempty"` // e.g. "5m"
}

// Normalize fills defaults in place.
func (s *AnalysisSpec) Normalize() {
	if s.TopN == 0 {
		s.TopN = 10
	}
	if s.Window == 0 {
		s.Window = 3
	}
	if s.BinPolicy == "" {
		s.BinPolicy = BinPolicyRank
	}
	if s.Input.Comma == "" {
		s.Input.Comma = ","
	}
}

// Validate checks the spec after Normalize.
func (s *AnalysisSpec) Validate() error {
	if s.Input.File == "" {
		return errors.New("input file is required")
	}
	if s.TopN < 1 {
		return fmt.Errorf("topN must be positive, got %d", s.TopN)
	}
	if s.Window < 1 {
		return fmt.Errorf("window must be positive, got %d", s.Window)
	}
	if s.BinPolicy != BinPolicyRank && s.BinPolicy != BinPolicyStrict {
		return fmt.Errorf("unknown bin policy %q", s.BinPolicy)
	}
	if len(s.Input.Comma) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", s.Input.Comma)
	}
	return nil
}

// RunInfo is the stored state of an analysis run.
type RunInfo struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Spec      *AnalysisSpec `json:"spec,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// RunError is one recorded component failure of a run.
type RunError struct {
	Component string    `json:"component"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
