package analytics

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when cleaning leaves zero transactions.
// Downstream aggregations are undefined on an empty table, so the run
// surfaces this instead of producing empty derived tables.
var ErrEmptyInput = errors.New("no transactions left after cleaning")

// DataFormatError reports a field that could not be parsed while
// cleaning. It aborts the run: silently coercing a bad timestamp or
// price to a zero value would corrupt every downstream table.
type DataFormatError struct {
	Field string
	Value string
	Row   int // 0-based index into the raw input
	Err   error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("row %d: bad %s value %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// QuantileDegeneracyError reports that a metric does not have enough
// distinct values to form four quartile bins under the strict policy.
type QuantileDegeneracyError struct {
	Metric   string
	Distinct int
}

func (e *QuantileDegeneracyError) Error() string {
	return fmt.Sprintf("metric %s has %d distinct value(s), cannot form 4 quantile bins", e.Metric, e.Distinct)
}
