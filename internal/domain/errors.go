package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownView is returned by ParseView for an unrecognized selection.
	ErrUnknownView = errors.New("unknown view")
	// ErrUnknownQuery is returned by RunQuery for an unrecognized aggregate name.
	ErrUnknownQuery = errors.New("unknown query")
)

// SchemaError reports required columns absent from the source header.
type SchemaError struct {
	Missing []string // raw column names
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, col := range e.Missing {
		if sem := SemanticName(col); sem != col {
			names[i] = fmt.Sprintf("%s (%s)", col, sem)
			continue
		}
		names[i] = col
	}
	return "schema: missing column(s): " + strings.Join(names, ", ")
}

// UnknownCategoryError reports a categorical code with no label.
type UnknownCategoryError struct {
	Column string // raw column name
	Code   int
	Line   int
}

func (e *UnknownCategoryError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: unknown %s code %d", e.Line, e.Column, e.Code)
	}
	return fmt.Sprintf("unknown %s code %d", e.Column, e.Code)
}

// ParseError reports a field that could not be parsed as its column's type.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: parse %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDatasetError reports a source that yielded no data rows when rows are
// required.
type EmptyDatasetError struct {
	Source string
}

func (e *EmptyDatasetError) Error() string {
	if e.Source == "" {
		return "dataset has no rows"
	}
	return fmt.Sprintf("dataset %s has no rows", e.Source)
}
