package document

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by template stores when no record matches an id.
	ErrNotFound = errors.New("template not found")

	ErrUnknownSection   = errors.New("unknown section")
	ErrUnknownProperty  = errors.New("unknown style property")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrDuplicateSection = errors.New("duplicate section")
)

// ValidationError reports caller input the model refuses to coerce.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v (%s)", e.Field, e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Err: err, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
