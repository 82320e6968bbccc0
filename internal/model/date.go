package model

import (
	"fmt"
	"strings"
	"time"

	apperrors "holidaytracker/internal/errors"
)

// DateLayout is the calendar date format accepted alongside RFC 3339.
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD (interpreted as UTC midnight) or an RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date: %w", apperrors.ErrInvalidDate)
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, apperrors.ErrInvalidDate)
	}
	return t.UTC(), nil
}
