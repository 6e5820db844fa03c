package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the parent of every caller-input error: coordinates,
	// Jetset parameters and output format selection.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCoordinates reports a right ascension or declination outside
	// the sky, or a non-finite value.
	ErrInvalidCoordinates = fmt.Errorf("%w: coordinates", ErrInvalidInput)

	// ErrSchemaValidation is matched by every *SchemaError.
	ErrSchemaValidation = errors.New("schema validation failed")
)

// InputError describes a rejected caller-supplied parameter.
type InputError struct {
	Field  string
	Value  any
	Reason string
	Err    error // sentinel identifying the parameter, wraps ErrInvalidInput
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", e.Err, e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

// SchemaError describes why a response document was rejected. Path uses
// dotted/indexed notation, e.g. "Catalogs[0].SourceData[3].Frequency".
type SchemaError struct {
	Path   string
	Reason string
	Err    error // underlying decode error, if any
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrSchemaValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchemaValidation, e.Path, e.Reason)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaValidation }

func (e *SchemaError) Unwrap() error { return e.Err }

func schemaErr(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
