package repositories

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/obs"
	"geo-form-service/internal/ports"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var submissionsBucket = []byte("submissions")

type boltSubmission struct {
	CreatedAt int64   `msgpack:"data"`
	Name      string  `msgpack:"nome"`
	Answer    string  `msgpack:"resposta"`
	Lat       float64 `msgpack:"latitude"`
	Lon       float64 `msgpack:"longitude"`
}

// bbolt-backed append-only log of submissions. Keys are the bucket sequence
// encoded big-endian, so cursor order is append order. The bucket is created
// lazily by the first Append.
type BoltSubmissionRepository struct {
	DB *bbolt.DB
}

func NewBoltSubmissionRepository(db *bbolt.DB) *BoltSubmissionRepository {
	return &BoltSubmissionRepository{DB: db}
}

func (s *BoltSubmissionRepository) Append(ctx context.Context, sub domain.Submission) (err error) {
	defer obs.Time(ctx, "bolt.Append")(&err)

	if s.DB == nil {
		return errors.New("bolt submission repository: DB is nil")
	}

	val, err := msgpack.Marshal(&boltSubmission{
		CreatedAt: sub.CreatedAt.Unix(),
		Name:      sub.Name,
		Answer:    sub.Answer,
		Lat:       sub.Coords.Lat,
		Lon:       sub.Coords.Lon,
	})
	if err != nil {
		return fmt.Errorf("append submission: encode: %w", err)
	}

	err = s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(submissionsBucket)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, val)
	})
	if err != nil {
		return fmt.Errorf("append submission: %w", err)
	}

	return nil
}

func (s *BoltSubmissionRepository) List(ctx context.Context) (_ []domain.Submission, err error) {
	defer obs.Time(ctx, "bolt.List")(&err)

	if s.DB == nil {
		return nil, errors.New("bolt submission repository: DB is nil")
	}

	var out []domain.Submission
	err = s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(submissionsBucket)
		if b == nil {
			return ports.ErrTableNotFound
		}

		return b.ForEach(func(k, v []byte) error {
			var rec boltSubmission
			if err := msgpack.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode key %d: %w", binary.BigEndian.Uint64(k), err)
			}
			out = append(out, domain.Submission{
				CreatedAt: time.Unix(rec.CreatedAt, 0),
				Name:      rec.Name,
				Answer:    rec.Answer,
				Coords:    domain.Coordinates{Lat: rec.Lat, Lon: rec.Lon},
			})
			return nil
		})
	})
	if errors.Is(err, ports.ErrTableNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	if len(out) == 0 {
		return nil, ports.ErrTableNotFound
	}

	return out, nil
}
