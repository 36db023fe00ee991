package repositories

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/obs"
	"geo-form-service/internal/ports"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
)

// CSVHeader is the fixed column layout of the persisted table.
var CSVHeader = []string{"Data", "Nome", "Resposta", "Latitude", "Longitude"}

// CSV-file implementation of the SubmissionRepository port.
//
// The exists-check and the create-or-append that follows run under one lock,
// and every row is written with a single write on an O_APPEND descriptor, so
// concurrent submitters in this process never interleave or duplicate the
// header. The file is created with O_EXCL, which keeps the header decision
// atomic across processes too.
type CSVSubmissionRepository struct {
	Path string
	mu   sync.RWMutex
}

func NewCSVSubmissionRepository(path string) *CSVSubmissionRepository {
	return &CSVSubmissionRepository{Path: path}
}

// Append one record, writing the header first when the file is new.
func (s *CSVSubmissionRepository) Append(ctx context.Context, sub domain.Submission) (err error) {
	defer obs.Time(ctx, "csv.Append")(&err)

	if s.Path == "" {
		return errors.New("csv submission repository: path is empty")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("append submission: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("append submission: create directory %q: %w", dir, err)
		}
	}

	f, created, err := openForAppend(s.Path)
	if err != nil {
		return fmt.Errorf("append submission: %w", err)
	}

	if !created {
		// An existing but empty file never received its header.
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return fmt.Errorf("append submission: stat %q: %w", s.Path, err)
		}
		created = info.Size() == 0
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if created {
		if err := w.Write(CSVHeader); err != nil {
			f.Close()
			return fmt.Errorf("append submission: encode header: %w", err)
		}
	}
	if err := w.Write(submissionToRecord(sub)); err != nil {
		f.Close()
		return fmt.Errorf("append submission: encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("append submission: flush row: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("append submission: write %q: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append submission: close %q: %w", s.Path, err)
	}

	return nil
}

// Return every record in file order.
func (s *CSVSubmissionRepository) List(ctx context.Context) (_ []domain.Submission, err error) {
	defer obs.Time(ctx, "csv.List")(&err)

	if s.Path == "" {
		return nil, errors.New("csv submission repository: path is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ports.ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: open %q: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(CSVHeader)

	header, err := r.Read()
	if err == io.EOF {
		return nil, ports.ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: read header: %w", err)
	}
	if !slices.Equal(header, CSVHeader) {
		return nil, fmt.Errorf("list submissions: unexpected header %q", header)
	}

	out := make([]domain.Submission, 0, 64)
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list submissions: read row %d: %w", row, err)
		}

		sub, err := recordToSubmission(rec)
		if err != nil {
			return nil, fmt.Errorf("list submissions: row %d: %w", row, err)
		}
		out = append(out, sub)
	}

	return out, nil
}

// openForAppend creates the file exclusively when it is missing and reports
// whether this call created it.
func openForAppend(path string) (*os.File, bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		return f, true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return nil, false, fmt.Errorf("create %q: %w", path, err)
	}

	f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("open %q: %w", path, err)
	}
	return f, false, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func submissionToRecord(s domain.Submission) []string {
	return []string{
		s.Timestamp(),
		s.Name,
		s.Answer,
		formatFloat(s.Coords.Lat),
		formatFloat(s.Coords.Lon),
	}
}

func recordToSubmission(rec []string) (domain.Submission, error) {
	createdAt, err := domain.ParseTimestamp(rec[0])
	if err != nil {
		return domain.Submission{}, fmt.Errorf("parse %s %q: %w", CSVHeader[0], rec[0], err)
	}

	lat, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("parse %s %q: %w", CSVHeader[3], rec[3], err)
	}

	lon, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("parse %s %q: %w", CSVHeader[4], rec[4], err)
	}

	return domain.Submission{
		CreatedAt: createdAt,
		Name:      rec[1],
		Answer:    rec[2],
		Coords:    domain.Coordinates{Lat: lat, Lon: lon},
	}, nil
}
