package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDataLoaded is returned when a query, summary or export is attempted
// before a successful data load.
var ErrNoDataLoaded = errors.New("geen data geladen")

// ParseError reports a single field that could not be interpreted during
// ingestion or aggregation. It carries the offending raw value.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kan %s %q niet verwerken: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("kan %s %q niet verwerken", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FuturePeriodError is returned when a resolved period lies after "now".
// It is user-facing and never retried.
type FuturePeriodError struct {
	// Period is the human-readable description of the requested period.
	Period string
}

func (e *FuturePeriodError) Error() string {
	return fmt.Sprintf("de gevraagde periode %s ligt in de toekomst", e.Period)
}

// RowError identifies a single spreadsheet row that failed to parse.
type RowError struct {
	// Row is the 1-based row number within the data block, header excluded.
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("rij %d, kolom %q, waarde %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IngestionError reports a failed batch load. Loading is all-or-nothing:
// any row failure aborts the load, and every failed row is itemized here
// rather than silently dropped.
type IngestionError struct {
	Rows []*RowError
}

func (e *IngestionError) Error() string {
	if len(e.Rows) == 1 {
		return fmt.Sprintf("laden afgebroken: 1 rij kon niet worden verwerkt (%v)", e.Rows[0])
	}
	details := make([]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		details = append(details, r.Error())
	}
	return fmt.Sprintf("laden afgebroken: %d rijen konden niet worden verwerkt: %s",
		len(e.Rows), strings.Join(details, "; "))
}

// CompletionError wraps a failure of the downstream text-completion service
// after the retry budget is exhausted. Callers surface a generic message,
// never the downstream detail.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion service unavailable: %v", e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
