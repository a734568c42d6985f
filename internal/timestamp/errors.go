package timestamp

import (
	"errors"
	"fmt"
)

// ErrMalformedTimestamp is the sentinel matched by every parse failure.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// MalformedError describes a timestamp that could not be parsed.
// Field is the location of the value in the export (e.g. "posts[3].timestamp")
// and is empty when the caller did not supply one.
type MalformedError struct {
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %q", ErrMalformedTimestamp, e.Field, e.Value)
	}
	return fmt.Sprintf("%s: %q", ErrMalformedTimestamp, e.Value)
}

// Is reports whether target is ErrMalformedTimestamp.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedTimestamp
}

// Unwrap returns the underlying parser error, if any.
func (e *MalformedError) Unwrap() error {
	return e.Err
}
