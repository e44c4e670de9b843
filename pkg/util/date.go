package util

import (
	"fmt"
	"time"
)

const isoDate = "2006-01-02"

var dateLayouts = []string{
	isoDate,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate accepts an ISO calendar date or one of the timestamp forms that
// spreadsheet and dataframe exports tend to emit, and returns midnight UTC of
// that calendar day. The wall-clock date is kept as written; no zone shift is applied.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(isoDate)
}

// Day truncates t to midnight UTC of its own wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
