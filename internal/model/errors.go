package model

import (
	"fmt"
	"time"
)

// ParseError reports a malformed CSV cell or a configured column that is
// absent from the file. Row is 1-based and counts physical file lines,
// including skipped header rows.
type ParseError struct {
	File    string
	Row     int
	Column  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	loc := e.File
	if e.Row > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Row)
	}
	if e.Column != "" {
		loc = fmt.Sprintf("%s column %q", loc, e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", loc, e.Message, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", loc, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateTimestampError is raised when a series contains the same
// timestamp more than once. Construction of the bundle is aborted.
type DuplicateTimestampError struct {
	Timestamp time.Time
	Count     int
}

func (e *DuplicateTimestampError) Error() string {
	return fmt.Sprintf("duplicate timestamp %s appears %d times", e.Timestamp.Format(time.RFC3339), e.Count)
}

// ConversionError is raised for an invalid interval, an unknown unit, or
// a timestamp span whose grid would be too large to synthesize.
type ConversionError struct {
	IntervalMinutes int
	Unit            Unit
	Message         string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion: %s (interval=%dmin, unit=%q)", e.Message, e.IntervalMinutes, e.Unit)
}

// ScalingError is fatal to the scaling step only; the unscaled bundle
// remains valid.
type ScalingError struct {
	Kind    string // "peak" or "total"
	Message string
}

func (e *ScalingError) Error() string {
	return fmt.Sprintf("scaling (%s): %s", e.Kind, e.Message)
}

// ContinuityReport describes the gaps found and repaired by the interval
// normalizer. It is a structured warning, not an error: callers decide
// whether repaired data is acceptable.
type ContinuityReport struct {
	ExpectedRows int
	ActualRows   int

	// Missing lists grid slots that had no source value and were synthesized.
	Missing []time.Time

	// Interpolated and ZeroFilled split Missing by repair policy.
	Interpolated int
	ZeroFilled   int

	// Snapped counts source timestamps that were off the interval grid
	// (typically DST artifacts) and were moved to the nearest free slot.
	Snapped int
}

// Clean reports whether the series needed no repair.
func (r ContinuityReport) Clean() bool {
	return len(r.Missing) == 0 && r.ExpectedRows == r.ActualRows
}
