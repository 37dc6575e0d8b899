package errs

import (
	"fmt"
	"strings"
)

// SchemaError reports a broken record declaration.
type SchemaError struct {
	Cause  error
	Record string
	Field  string
	Detail string
}

// NewSchemaError creates a SchemaError for the given record and field.
// field may be empty for record-level problems.
func NewSchemaError(cause error, record, field, format string, args ...any) *SchemaError {
	return &SchemaError{
		Cause:  cause,
		Record: record,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder

	b.WriteString("[schema] ")
	b.WriteString(e.Record)
	if e.Field != "" {
		b.WriteByte('.')
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Cause.Error())
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the sentinel describing the problem.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// InsufficientDataError reports that the input ended before a field could be read.
//
// Need and Have are byte counts measured from the start of the input slice.
type InsufficientDataError struct {
	Record string
	Field  string
	Need   int
	Have   int
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[decode] %s: %v: need %d bytes, have %d",
			e.Record, ErrInsufficientData, e.Need, e.Have)
	}

	return fmt.Sprintf("[decode] %s.%s: %v: need %d bytes, have %d",
		e.Record, e.Field, ErrInsufficientData, e.Need, e.Have)
}

// Is reports whether target is ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
