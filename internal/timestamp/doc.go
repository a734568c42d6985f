// Package timestamp normalizes the timestamp strings found in social-media
// exports into UTC time.Time values.
//
// Exports come from several producers (official data download, API scrapers,
// hand-assembled dumps), so the same field can arrive as RFC 3339 with a "Z",
// ISO-8601 with a numeric offset, ISO-8601 without any zone, or a plain date.
// Parse tries the ISO-8601 layouts first and falls back to
// github.com/araddon/dateparse for the long tail.
//
// Values without a zone designator are taken to be UTC. Every value returned is
// in UTC, so hour-of-day and day-of-week aggregation keys are comparable across
// records.
package timestamp
