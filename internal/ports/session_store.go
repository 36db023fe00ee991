package ports

import (
	"context"
	"geo-form-service/internal/domain"
)

// Port: per-session key-value state.
type SessionStore interface {
	// Update loads the session with the given id (or init() when absent),
	// applies fn and stores the result atomically with respect to other
	// updates of the same id. If fn returns an error nothing is stored.
	Update(
		ctx context.Context,
		id string,
		init func() domain.Session,
		fn func(*domain.Session) error,
	) (domain.Session, error)
}
