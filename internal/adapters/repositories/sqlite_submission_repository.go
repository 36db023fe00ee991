package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/obs"
	"geo-form-service/internal/ports"
)

// SQLite-backed implementation of the SubmissionRepository port.
// Rows are ordered by an autoincrement sequence; an empty table reads as
// ErrTableNotFound, matching a CSV file that was never created.
type SqliteSubmissionRepository struct{ DB *sql.DB }

func NewSqliteSubmissionRepository(db *sql.DB) *SqliteSubmissionRepository {
	return &SqliteSubmissionRepository{DB: db}
}

func (s *SqliteSubmissionRepository) Append(ctx context.Context, sub domain.Submission) (err error) {
	defer obs.Time(ctx, "sqlite.Append")(&err)

	if s.DB == nil {
		return errors.New("sqlite submission repository: DB is nil")
	}

	query := `
	INSERT INTO submissions (
		created_at,
		name,
		answer,
		latitude,
		longitude
	)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		sub.Timestamp(), sub.Name, sub.Answer, sub.Coords.Lat, sub.Coords.Lon,
	)
	if err != nil {
		return fmt.Errorf("append submission: insert row: %w", err)
	}

	return nil
}

func (s *SqliteSubmissionRepository) List(ctx context.Context) (_ []domain.Submission, err error) {
	defer obs.Time(ctx, "sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite submission repository: DB is nil")
	}

	query := `
	SELECT
		created_at,
		name,
		answer,
		latitude,
		longitude
	FROM submissions
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list submissions: query submissions table: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// scanSubmissions reads rows whose created_at is stored as TEXT.
func scanSubmissions(rows *sql.Rows) ([]domain.Submission, error) {
	out := make([]domain.Submission, 0, 64)
	for rows.Next() {
		var ts, name, answer string
		var lat, lon float64
		if err := rows.Scan(&ts, &name, &answer, &lat, &lon); err != nil {
			return nil, fmt.Errorf("list submissions: scan row: %w", err)
		}

		createdAt, err := domain.ParseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("list submissions: parse created_at %q: %w", ts, err)
		}

		out = append(out, domain.Submission{
			CreatedAt: createdAt,
			Name:      name,
			Answer:    answer,
			Coords:    domain.Coordinates{Lat: lat, Lon: lon},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: row iteration: %w", err)
	}

	if len(out) == 0 {
		return nil, ports.ErrTableNotFound
	}

	return out, nil
}
