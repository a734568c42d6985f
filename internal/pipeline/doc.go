// Package pipeline runs refinement steps over raw export documents.
//
// Each document goes through the same sequence: validation, anonymizing
// transformation, proof generation and persistence. Persistence stages the
// analytic records, saves the proof, then commits the records. Each stage is a Step that receives the current
// RefinementReport and fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Storage and publication stay behind narrow interfaces (AnalyticSink,
// ProofSink, storage.Store) so the core steps never touch the filesystem
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between steps
//
// A run is all or nothing. The first failing step stops the document, and
// BatchProcessor stops the batch at the first failed document. Documents are
// processed one at a time; only publication of the finished artifacts runs
// concurrently, using errgroup.
package pipeline
