// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

const (
	// ExportDateLayout is the ISO date format used in export file names.
	ExportDateLayout = constants.ExportDateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// UnixMillis returns the number of milliseconds since the Unix epoch for t.
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMillis converts milliseconds since the Unix epoch into a UTC time.
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ISODate formats t as a UTC calendar date, e.g. 2026-10-17.
func ISODate(t time.Time) string {
	return t.UTC().Format(ExportDateLayout)
}

// FormatMillis renders a millisecond timestamp as an RFC 3339 UTC string for display.
func FormatMillis(ms int64) string {
	return FromUnixMillis(ms).Format(time.RFC3339)
}
