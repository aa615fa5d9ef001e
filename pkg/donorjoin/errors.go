package donorjoin

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// Input errors
	ErrSchema    = errors.New("schema error")
	ErrIO        = errors.New("io error")
	ErrLineShape = errors.New("line shape error")

	// Configuration errors
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	ErrInvalidWorkers   = errors.New("invalid worker limit")

	// Engine errors
	ErrIncomplete = errors.New("map tasks did not all report")
)

// SchemaError reports required columns missing from a header line.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", name)
	}

	if e.Source == "" {
		return fmt.Sprintf("missing required columns %s", strings.Join(quoted, ", "))
	}

	return fmt.Sprintf("%s: missing required columns %s", e.Source, strings.Join(quoted, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// LineShapeError reports a data line with fewer fields than the resolved
// column indices require. Line is 1-based and counts the header.
type LineShapeError struct {
	Source string
	Line   int
	Column int
	Fields int
}

func (e *LineShapeError) Error() string {
	msg := fmt.Sprintf("column %d requested but line has %d fields", e.Column, e.Fields)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}

	return msg
}

func (e *LineShapeError) Unwrap() error { return ErrLineShape }

// IOError wraps a failure opening or reading a dataset.
type IOError struct {
	Source string
	Op     string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
