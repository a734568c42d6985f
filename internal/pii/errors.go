package pii

import "errors"

// ErrHashing is returned when a value handed to Hash is not text.
// This is a programmer error: validated exports only carry strings in the
// fields that get hashed.
var ErrHashing = errors.New("hashing error: input is not text")
