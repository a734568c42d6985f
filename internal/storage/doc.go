// Package storage publishes refinement artifacts.
//
// Store is the "store bytes, get a handle" contract used by the refinement
// pipeline. LocalStore implements it on a directory, addressing every blob
// by its CIDv1 (raw codec, sha2-256) so handles are identical to what a
// content-addressed network would return for the same bytes. JSONFile is a
// proof sink that writes the proof to a single file.
package storage
