package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrNameRequired is returned when a submission is attempted with a blank name.
var ErrNameRequired = errors.New("name is required")

// TimestampLayout is the persisted timestamp format: second precision, no zone.
const TimestampLayout = "2006-01-02 15:04:05"

// Represents one recorded answer. A Submission is created once, on an explicit
// submit action, and never updated. Identity is its position in the table.
type Submission struct {
	CreatedAt time.Time
	Name      string
	Answer    string
	Coords    Coordinates
}

// NewSubmission validates the form values and stamps them with now,
// truncated to the second. Answer and coordinates are not independently
// required.
func NewSubmission(now time.Time, name, answer string, coords Coordinates) (Submission, error) {
	if strings.TrimSpace(name) == "" {
		return Submission{}, ErrNameRequired
	}

	return Submission{
		CreatedAt: now.Truncate(time.Second),
		Name:      name,
		Answer:    answer,
		Coords:    coords,
	}, nil
}

// Timestamp returns CreatedAt in the persisted layout.
func (s Submission) Timestamp() string {
	return s.CreatedAt.Format(TimestampLayout)
}

// ParseTimestamp reads a persisted timestamp in the server's local zone.
func ParseTimestamp(v string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, v, time.Local)
}
