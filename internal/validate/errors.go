package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the sentinel matched by every *ValidationError.
var ErrValidation = errors.New("validation error")

// Violation is one problem found in the input document.
type Violation struct {
	// Path locates the offending value, e.g. "posts[2].like_count".
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String returns "path: message".
func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("%s: %d violation(s): %s",
		ErrValidation, len(e.Violations), strings.Join(msgs, "; "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
