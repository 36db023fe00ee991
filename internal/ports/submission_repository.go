package ports

import (
	"context"
	"errors"
	"geo-form-service/internal/domain"
)

// ErrTableNotFound is returned by List when nothing has been recorded yet.
var ErrTableNotFound = errors.New("submission table not found")

// Port: the append-only persisted table of submissions.
//
// Implementations must serialize Append so that concurrent submitters never
// produce a corrupted or lost row, and List must return rows in append order.
type SubmissionRepository interface {
	// Append one record, creating the table on first use.
	Append(ctx context.Context, s domain.Submission) error
	// Return every record in append order, or ErrTableNotFound.
	List(ctx context.Context) ([]domain.Submission, error)
}
