package sessions

import (
	"context"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const maxUpdateAttempts = 5

type redisSession struct {
	Lat       float64 `msgpack:"lat"`
	Lon       float64 `msgpack:"lon"`
	Source    string  `msgpack:"source"`
	Seq       int64   `msgpack:"seq"`
	UpdatedAt int64   `msgpack:"updated_at"`
}

// Redis-backed SessionStore. Each session is one msgpack value under
// "<prefix><id>"; updates use WATCH/MULTI so concurrent requests of the same
// session never lose a write.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "geoform:session:",
		ttl:    ttl,
	}
}

func (r *RedisSessionStore) Update(
	ctx context.Context,
	id string,
	init func() domain.Session,
	fn func(*domain.Session) error,
) (domain.Session, error) {
	if r.client == nil {
		return domain.Session{}, errors.New("redis session store: client is nil")
	}
	if id == "" {
		return domain.Session{}, errors.New("redis session store: id must not be empty")
	}

	key := r.prefix + id
	var out domain.Session

	txf := func(tx *redis.Tx) error {
		sess, err := r.load(ctx, tx, key, id, init)
		if err != nil {
			return err
		}

		if err := fn(&sess); err != nil {
			return err
		}
		sess.UpdatedAt = time.Now()

		val, err := encodeSession(sess)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, val, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		out = sess
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return domain.Session{}, fmt.Errorf("redis session store: update %q: %w", id, err)
		}
	}

	return domain.Session{}, fmt.Errorf("redis session store: update %q: too much contention", id)
}

func (r *RedisSessionStore) load(
	ctx context.Context,
	tx *redis.Tx,
	key, id string,
	init func() domain.Session,
) (domain.Session, error) {
	b, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		sess := init()
		sess.ID = id
		return sess, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}

	sess, err := decodeSession(b)
	if err != nil {
		return domain.Session{}, err
	}
	sess.ID = id
	return sess, nil
}

func encodeSession(s domain.Session) ([]byte, error) {
	b, err := msgpack.Marshal(&redisSession{
		Lat:       s.Location.Current.Lat,
		Lon:       s.Location.Current.Lon,
		Source:    string(s.Location.Source),
		Seq:       s.Location.Seq,
		UpdatedAt: s.UpdatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return b, nil
}

func decodeSession(b []byte) (domain.Session, error) {
	var rs redisSession
	if err := msgpack.Unmarshal(b, &rs); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return domain.Session{
		Location: domain.LocationSelector{
			Current: domain.Coordinates{Lat: rs.Lat, Lon: rs.Lon},
			Source:  domain.InputSource(rs.Source),
			Seq:     rs.Seq,
		},
		UpdatedAt: time.UnixMilli(rs.UpdatedAt),
	}, nil
}
