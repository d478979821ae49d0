package utils

import (
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

// ParseRangeStart accepts RFC3339 or YYYY-MM-DD (start of that day, UTC).
func ParseRangeStart(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return &t, nil
}

// ParseRangeEnd is ParseRangeStart except a bare date covers the whole day.
func ParseRangeEnd(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	end := t.Add(24*time.Hour - time.Nanosecond)
	return &end, nil
}
