package proof

import "errors"

var (
	// ErrNilExport is returned when a proof is requested without an export.
	ErrNilExport = errors.New("proof: nil export")

	// ErrUnsupportedValue is returned when a value has no canonical form.
	ErrUnsupportedValue = errors.New("proof: unsupported value in canonical form")

	// ErrMismatch is returned by Verify when a proof does not match its export.
	ErrMismatch = errors.New("proof does not match export")
)
