package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewSubmissionRequiresName(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

	for _, name := range []string{"", " ", "\t\n  "} {
		_, err := NewSubmission(now, name, "answer", DefaultCoordinates)
		if !errors.Is(err, ErrNameRequired) {
			t.Errorf("name %q: err = %v, want ErrNameRequired", name, err)
		}
	}
}

func TestNewSubmissionTruncatesToSecond(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 987654321, time.Local)

	s, err := NewSubmission(now, "Alice", "", Coordinates{Lat: -23.5, Lon: -46.6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.CreatedAt.Nanosecond() != 0 {
		t.Fatalf("nanoseconds = %d, want 0", s.CreatedAt.Nanosecond())
	}
	if got := s.Timestamp(); got != "2024-01-01 12:00:00" {
		t.Fatalf("timestamp = %q, want %q", got, "2024-01-01 12:00:00")
	}
	if s.Answer != "" {
		t.Fatalf("answer = %q, want empty", s.Answer)
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 30, 23, 59, 58, 0, time.Local)
	s, err := NewSubmission(now, "Bob", "x", DefaultCoordinates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ParseTimestamp(s.Timestamp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(s.CreatedAt) {
		t.Fatalf("parsed = %v, want %v", got, s.CreatedAt)
	}
}
