package transform

import "errors"

// ErrNilExport is returned when Transform is called without an export.
var ErrNilExport = errors.New("transform: nil export")
