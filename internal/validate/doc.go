// Package validate checks an untyped export document against the expected raw
// export shape and converts it into a typed model.Export.
//
// Exports come from varied producers, so validation never stops at the first
// problem: every missing or mistyped field is collected and returned together
// in a single *ValidationError. Collections that are absent default to empty.
//
// The document is the generic structure produced by encoding/json (maps,
// slices, strings, bools, float64 or json.Number). Numbers must be integral
// where the export expects counts.
package validate
