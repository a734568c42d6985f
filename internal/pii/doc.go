// Package pii provides the one-way transformations used to strip personally
// identifying text out of a social-media export.
//
// Every identifying string that reaches the analytic record set is replaced by
// either a SHA-256 hex digest or a length/count surrogate. The digests are
// deliberately unsalted: the same username, conversation id or hashtag always
// maps to the same digest, across records and across exports. This is what lets
// analytics correlate a recurring hashtag or a recurring commenter, and what lets
// a verifier recompute proof hashes independently.
//
// The price of that stability is that short, guessable values (usernames,
// common hashtags) can be recovered with a dictionary or rainbow-table attack
// against the digest. If stronger anonymization is ever required, introduce a
// keyed hash as a new, explicitly versioned scheme; adding a salt to HashText
// would silently change the meaning of every existing analytic record and proof.
package pii
