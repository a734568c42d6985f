package timestamp

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// isoLayouts are tried in order before falling back to dateparse.
// Layouts with an explicit zone come first.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse converts an export timestamp into a UTC time.
// It returns a *MalformedError (matching ErrMalformedTimestamp) when s is
// empty or in no recognized format.
func Parse(s string) (time.Time, error) {
	return ParseField("", s)
}

// ParseField is Parse with the field location recorded in the error.
func ParseField(field, s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, &MalformedError{Field: field, Value: s}
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	t, err := parseLoose(value)
	if err != nil {
		return time.Time{}, &MalformedError{Field: field, Value: s, Err: err}
	}
	return t, nil
}

var (
	errEpoch          = errors.New("bare numbers are not timestamps")
	errIncompleteDate = errors.New("no explicit four-digit year")
)

// parseLoose accepts the calendar formats dateparse knows, but only when
// the value names a complete date. dateparse also reads bare numbers as
// epoch seconds and fills a missing year with 0; both are rejected so that
// nothing but a real date reaches the activity buckets.
func parseLoose(value string) (time.Time, error) {
	if isDigits(value) {
		return time.Time{}, errEpoch
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()

	if t.Year() < 1000 || !strings.Contains(value, strconv.Itoa(t.Year())) {
		return time.Time{}, errIncompleteDate
	}
	return t, nil
}

func isDigits(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
