// Package model defines the data structures shared across the refiner.
//
// This package contains the following main groups of types:
//   - Export and its children: the validated, still fully identifying raw export
//   - Record implementations: the anonymized analytic records written to the store
//   - Proof: the attestation document describing one export
//   - RefinementReport: the accumulated state of one refinement run
//
// Design decision: the analytic records are plain data-transfer structs. Each
// one knows its table name and how to lay itself out as a row, and Schema()
// describes every table declaratively. Storage engines consume the descriptor
// instead of the records depending on a particular ORM.
package model
