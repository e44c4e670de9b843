package util

import (
	"testing"
	"time"
)

func TestParseDateISO(t *testing.T) {
	got, err := ParseDate("2014-01-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateTimestampKeepsWallDate(t *testing.T) {
	got, err := ParseDate("2014-01-02 00:00:00-05:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDate(got) != "2014-01-02" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("02/01/2014"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
