// Package transform maps a validated export into the anonymized analytic
// record set.
//
// Clear-text identifying strings never leave this package. Usernames, full
// names, conversation ids and hashtags are replaced by digests from package
// pii; bios, captions, comments and messages are replaced by their length.
// Two aggregates are derived on every run: hashtag usage and the sparse
// (hour of day, day of week) activity histogram.
//
// Transform is a pure function of its input. It never reads the wall clock,
// and running it twice on the same export yields identical records in
// identical order.
package transform
