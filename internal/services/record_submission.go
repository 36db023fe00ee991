package services

import (
	"context"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/ports"
	"strings"
	"time"
)

type RecordSubmissionRequest struct {
	SessionID string
	Name      string
	Answer    string
	// Coordinates typed into the form, if any. They count as a manual edit
	// and are applied to the session before the record is built.
	Coords  *domain.Coordinates
	Seq     int64
	Default domain.Coordinates
	Now     time.Time
}

// RecordSubmission validates the form and appends it to the persisted table.
//
// A blank name returns domain.ErrNameRequired and nothing is written. Storage
// errors are returned wrapped; there is no retry.
func RecordSubmission(
	ctx context.Context,
	req RecordSubmissionRequest,
	store ports.SessionStore,
	repo ports.SubmissionRepository,
) (domain.Submission, domain.Session, error) {
	if repo == nil {
		return domain.Submission{}, domain.Session{}, errors.New("record submission: repository is nil")
	}

	// A rejected submit leaves the session untouched, pin included.
	if strings.TrimSpace(req.Name) == "" {
		sess, err := CurrentLocation(ctx, store, req.SessionID, req.Default)
		if err != nil {
			return domain.Submission{}, domain.Session{}, fmt.Errorf("record submission: %w", err)
		}
		return domain.Submission{}, sess, fmt.Errorf("record submission: %w", domain.ErrNameRequired)
	}

	var (
		sess domain.Session
		err  error
	)
	if req.Coords != nil {
		ev, evErr := domain.NewManualEvent(req.Coords.Lat, req.Coords.Lon, req.Seq)
		if evErr != nil {
			return domain.Submission{}, domain.Session{}, fmt.Errorf("record submission: %w", evErr)
		}
		sess, _, err = ApplyLocation(ctx, store, req.SessionID, req.Default, ev)
	} else {
		sess, err = CurrentLocation(ctx, store, req.SessionID, req.Default)
	}
	if err != nil {
		return domain.Submission{}, domain.Session{}, fmt.Errorf("record submission: %w", err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	sub, err := domain.NewSubmission(now, req.Name, req.Answer, sess.Location.Current)
	if err != nil {
		return domain.Submission{}, sess, fmt.Errorf("record submission: %w", err)
	}

	if err := repo.Append(ctx, sub); err != nil {
		return domain.Submission{}, sess, fmt.Errorf("record submission: append: %w", err)
	}

	return sub, sess, nil
}
