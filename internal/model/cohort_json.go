package model

import (
	"encoding/json"
	"time"
)

// cohortEntry is the long-form wire shape of one matrix cell.
type cohortEntry struct {
	Month     time.Time `json:"month"`
	Offset    int       `json:"offset"`
	Customers int       `json:"customers"`
}

type cohortMatrixJSON struct {
	Months  []time.Time   `json:"months"`
	Offsets []int         `json:"offsets"`
	Cells   []cohortEntry `json:"cells"`
}

// MarshalJSON serializes the sparse matrix in long form, since a struct
// key cannot be a JSON object key.
func (m CohortMatrix) MarshalJSON() ([]byte, error) {
	out := cohortMatrixJSON{Months: m.Months, Offsets: m.Offsets}
	for _, month := range m.Months {
		for _, off := range m.Offsets {
			if n, ok := m.Cells[CohortCell{Month: month, Offset: off}]; ok {
				out.Cells = append(out.Cells, cohortEntry{Month: month, Offset: off, Customers: n})
			}
		}
	}
	return json.Marshal(out)
}

func (m *CohortMatrix) UnmarshalJSON(data []byte) error {
	var in cohortMatrixJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Months = in.Months
	m.Offsets = in.Offsets
	m.Cells = make(map[CohortCell]int, len(in.Cells))
	for _, c := range in.Cells {
		m.Cells[CohortCell{Month: c.Month.UTC(), Offset: c.Offset}] = c.Customers
	}
	return nil
}
