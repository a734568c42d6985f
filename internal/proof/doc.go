// Package proof builds the attestation document for a raw export.
//
// A proof identifies the account by digest, counts every entity family,
// carries five content hashes over a fixed field subset of the raw export,
// and scores how complete and consistent the export looks. The score and the
// verification method are simple heuristics. Their weights and rules are
// part of the meaning of every proof already issued and must not change.
//
// Content hashes are computed over the raw, pre-anonymization export so that
// anyone holding the same export can recompute them with Verify.
package proof
