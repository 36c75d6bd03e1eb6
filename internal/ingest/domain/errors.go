package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned when the calendar date is missing or unparseable.
	ErrInvalidDate = errors.New("ingest: invalid date")
	// ErrHourOutOfRange is returned when hour is outside [0,24].
	ErrHourOutOfRange = errors.New("ingest: hour out of range")
	// ErrMinuteOutOfRange is returned when minute is outside [0,59].
	ErrMinuteOutOfRange = errors.New("ingest: minute out of range")
	// ErrNegativeKWh is returned when a consumption value is negative.
	ErrNegativeKWh = errors.New("ingest: negative kwh")
	// ErrInvalidValue is returned when a numeric field cannot be parsed.
	ErrInvalidValue = errors.New("ingest: invalid numeric value")
	// ErrMissingColumn is returned when a source file lacks a required column.
	ErrMissingColumn = errors.New("ingest: missing required column")
	// ErrEmptySource is returned when a source file has no data rows.
	ErrEmptySource = errors.New("ingest: empty source file")
)

// ParseError reports the source row that could not form a valid reading.
// A single bad row aborts the whole file; partial ingestion of a device
// file would silently skew every downstream total.
type ParseError struct {
	Source string
	Row    int
	Err    error
}

// Error formats the source location and cause.
func (e *ParseError) Error() string {
	return fmt.Sprintf("ingest: %s row %d: %v", e.Source, e.Row, e.Err)
}

// Unwrap exposes the cause for errors.Is checks.
func (e *ParseError) Unwrap() error { return e.Err }
