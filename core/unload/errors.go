package unload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrSchema is returned when an option set fails validation.
	ErrSchema = errors.New("invalid unload options")

	// ErrUsage is returned when a builder method is misused.
	ErrUsage = errors.New("invalid builder usage")

	// ErrPrecondition is returned by Build when a required part was never set.
	ErrPrecondition = errors.New("unload statement is incomplete")
)

// SchemaError reports an option set that cannot be constructed.
// Fields lists every option involved in the failure.
type SchemaError struct {
	Fields []string
	Msg    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchema, e.Msg)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// UsageError reports a builder method called in a way its contract forbids.
type UsageError struct {
	Method string
	Msg    string
}

func (e *UsageError) Error() string { return e.Msg }

func (e *UsageError) Unwrap() error { return ErrUsage }

// PreconditionError reports a required statement part missing at Build time.
type PreconditionError struct {
	Missing string
	Method  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s is missing (%s is not called)", ErrPrecondition, e.Missing, e.Method)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

func newFieldError(field, format string, args ...any) *SchemaError {
	return &SchemaError{
		Fields: []string{field},
		Msg:    field + " " + fmt.Sprintf(format, args...),
	}
}

func newUnknownFieldsError(keys []string) *SchemaError {
	return &SchemaError{
		Fields: keys,
		Msg:    fmt.Sprintf("unknown options: %s", strings.Join(keys, ", ")),
	}
}

func newFormatConflictError(format Format, fields []string) *SchemaError {
	return &SchemaError{
		Fields: append([]string{fieldFormat}, fields...),
		Msg:    fmt.Sprintf("%s cannot be used with %s", format, strings.Join(fields, ", ")),
	}
}

func newConflictError(fields []string) *SchemaError {
	return &SchemaError{
		Fields: fields,
		Msg:    fmt.Sprintf("conflicting options cannot be used together: %s", strings.Join(fields, ", ")),
	}
}

func newAlreadyCalledError(method string) *UsageError {
	return &UsageError{Method: method, Msg: method + " is already called"}
}
