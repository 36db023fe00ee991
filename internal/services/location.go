package services

import (
	"context"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/ports"
	"time"
)

func sessionInit(def domain.Coordinates) func() domain.Session {
	return func() domain.Session {
		return domain.NewSession("", def, time.Now())
	}
}

// CurrentLocation returns the session, creating it at def when it does not
// exist yet.
func CurrentLocation(
	ctx context.Context,
	store ports.SessionStore,
	sessionID string,
	def domain.Coordinates,
) (domain.Session, error) {
	if store == nil {
		return domain.Session{}, errors.New("current location: session store is nil")
	}

	sess, err := store.Update(ctx, sessionID, sessionInit(def), func(*domain.Session) error { return nil })
	if err != nil {
		return domain.Session{}, fmt.Errorf("current location: %w", err)
	}

	return sess, nil
}

// ApplyLocation feeds one click or manual edit into the session's selector.
// The returned bool is false when the event was stale and ignored.
func ApplyLocation(
	ctx context.Context,
	store ports.SessionStore,
	sessionID string,
	def domain.Coordinates,
	ev domain.LocationEvent,
) (domain.Session, bool, error) {
	if store == nil {
		return domain.Session{}, false, errors.New("apply location: session store is nil")
	}

	applied := false
	sess, err := store.Update(ctx, sessionID, sessionInit(def), func(s *domain.Session) error {
		applied = s.Location.Apply(ev)
		return nil
	})
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("apply location: %w", err)
	}

	return sess, applied, nil
}
