package domain

import "time"

// Session is the per-user state carried across interaction cycles.
// It is loaded and stored explicitly on every request; nothing is shared
// between sessions.
type Session struct {
	ID        string
	Location  LocationSelector
	UpdatedAt time.Time
}

func NewSession(id string, def Coordinates, now time.Time) Session {
	return Session{
		ID:        id,
		Location:  NewLocationSelector(def),
		UpdatedAt: now,
	}
}
