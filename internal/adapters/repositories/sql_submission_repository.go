package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/obs"
	"geo-form-service/internal/ports"
	"time"
)

// SQLSubmissionRepository is the Postgres flavour of the submission table
// (pgx stdlib driver, $n placeholders). created_at is a zone-less TIMESTAMP
// holding the server's local clock reading.
type SQLSubmissionRepository struct {
	DB *sql.DB
}

func NewSQLSubmissionRepository(db *sql.DB) *SQLSubmissionRepository {
	return &SQLSubmissionRepository{DB: db}
}

func (s *SQLSubmissionRepository) Append(ctx context.Context, sub domain.Submission) (err error) {
	defer obs.Time(ctx, "postgres.Append")(&err)

	if s.DB == nil {
		return errors.New("sql submission repository: DB is nil")
	}

	q := `
	INSERT INTO submissions (created_at, name, answer, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := s.DB.ExecContext(ctx, q,
		wallClock(sub.CreatedAt, time.UTC), sub.Name, sub.Answer, sub.Coords.Lat, sub.Coords.Lon,
	); err != nil {
		return fmt.Errorf("append submission: insert row: %w", err)
	}

	return nil
}

func (s *SQLSubmissionRepository) List(ctx context.Context) (_ []domain.Submission, err error) {
	defer obs.Time(ctx, "postgres.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql submission repository: DB is nil")
	}

	q := `
	SELECT created_at, name, answer, latitude, longitude
	FROM submissions
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list submissions: query submissions table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Submission, 0, 64)
	for rows.Next() {
		var sub domain.Submission
		var createdAt time.Time
		if err := rows.Scan(&createdAt, &sub.Name, &sub.Answer, &sub.Coords.Lat, &sub.Coords.Lon); err != nil {
			return nil, fmt.Errorf("list submissions: scan row: %w", err)
		}
		sub.CreatedAt = wallClock(createdAt, time.Local)
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: row iteration: %w", err)
	}

	if len(out) == 0 {
		return nil, ports.ErrTableNotFound
	}

	return out, nil
}

// wallClock keeps the date and clock reading of t and places it in loc.
// TIMESTAMP columns carry no zone, and the server clock is local time.
func wallClock(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
