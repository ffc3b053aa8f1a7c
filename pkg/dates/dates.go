// Package dates parses the date formats accepted on the wire.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// DateOnly is the calendar-date layout used by clients that send no time part.
const DateOnly = "2006-01-02"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateOnly,
}

// Parse accepts an RFC 3339 timestamp, a timestamp without zone (read as UTC)
// or a bare calendar date (midnight UTC).
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed date %q", s)
}

// ParsePtr parses s when it is non-nil.
func ParsePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseUpper parses an inclusive upper bound. A bare calendar date covers the
// whole day, so it resolves to the last instant of that day.
func ParseUpper(s string) (time.Time, error) {
	t, err := Parse(s)
	if err != nil {
		return t, err
	}
	if _, dateOnly := time.Parse(DateOnly, strings.TrimSpace(s)); dateOnly == nil {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
