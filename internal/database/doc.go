// Package database provides the SQLite store for refined analytic records.
//
// RefinementDB creates one table per analytic record type from
// model.Schema() and implements the analytic sink of the refinement
// pipeline. The resulting file (db.libsql) is what gets sealed and
// published after a run.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. The refined output is a single portable file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Consumers query it with plain SQL using the published schema
//
// Derived aggregates (hashtag usage, activity patterns) have no life beyond
// the run that produced them. SaveRecords therefore replaces everything
// stored for a user instead of merging.
package database
