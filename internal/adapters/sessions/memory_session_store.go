package sessions

import (
	"context"
	"errors"
	"geo-form-service/internal/domain"
	"sync"
	"time"
)

// In-process SessionStore. A session idle for longer than TTL reads as new;
// expired entries are swept at most once per sweep interval.
type MemorySessionStore struct {
	mu            sync.Mutex
	sessions      map[string]domain.Session
	ttl           time.Duration
	sweepInterval time.Duration
	lastSweep     time.Time
	now           func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:      make(map[string]domain.Session),
		ttl:           ttl,
		sweepInterval: ttl,
		now:           time.Now,
	}
}

func (m *MemorySessionStore) Update(
	ctx context.Context,
	id string,
	init func() domain.Session,
	fn func(*domain.Session) error,
) (domain.Session, error) {
	if id == "" {
		return domain.Session{}, errors.New("memory session store: id must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= m.sweepInterval {
		m.evictLocked(now)
		m.lastSweep = now
	}

	sess, ok := m.sessions[id]
	if ok && m.expired(sess, now) {
		ok = false
	}
	if !ok {
		sess = init()
		sess.ID = id
	}

	if err := fn(&sess); err != nil {
		return domain.Session{}, err
	}
	sess.UpdatedAt = now
	m.sessions[id] = sess

	return sess, nil
}

// Len reports how many live sessions are held.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemorySessionStore) expired(s domain.Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.UpdatedAt) > m.ttl
}

func (m *MemorySessionStore) evictLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
		}
	}
}
