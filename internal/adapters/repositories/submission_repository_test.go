package repositories

import (
	"context"
	"fmt"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/db"
	"geo-form-service/internal/ports"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	_ "modernc.org/sqlite"
)

type repoFactory func(t *testing.T) ports.SubmissionRepository

func backends() map[string]repoFactory {
	return map[string]repoFactory{
		"csv": func(t *testing.T) ports.SubmissionRepository {
			return NewCSVSubmissionRepository(filepath.Join(t.TempDir(), "dados_coletados.csv"))
		},
		"sqlite": func(t *testing.T) ports.SubmissionRepository {
			conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
			require.NoError(t, err)
			t.Cleanup(func() { conn.Close() })
			require.NoError(t, InitSchema(conn))
			return NewSqliteSubmissionRepository(conn)
		},
		"bolt": func(t *testing.T) ports.SubmissionRepository {
			conn, err := bbolt.Open(filepath.Join(t.TempDir(), "app.bolt"), 0o600, nil)
			require.NoError(t, err)
			t.Cleanup(func() { conn.Close() })
			return NewBoltSubmissionRepository(conn)
		},
	}
}

func mustSubmission(t *testing.T, sec int, name, answer string, lat, lon float64) domain.Submission {
	t.Helper()
	now := time.Date(2024, 1, 1, 12, 0, sec, 0, time.Local)
	s, err := domain.NewSubmission(now, name, answer, domain.Coordinates{Lat: lat, Lon: lon})
	require.NoError(t, err)
	return s
}

// submissionsEqual compares instants rather than time.Location pointers.
var submissionsEqual = cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })

func TestSubmissionRepositories(t *testing.T) {
	ctx := context.Background()

	for name, newRepo := range backends() {
		t.Run(name+"/absent table", func(t *testing.T) {
			repo := newRepo(t)

			_, err := repo.List(ctx)
			require.ErrorIs(t, err, ports.ErrTableNotFound)
		})

		t.Run(name+"/round trip keeps order", func(t *testing.T) {
			repo := newRepo(t)

			want := []domain.Submission{
				mustSubmission(t, 0, "Alice", "hello", -23.5, -46.6),
				mustSubmission(t, 1, "Bob", "answer, with comma", -22.969208, -43.179623),
				mustSubmission(t, 2, "Carol", "line one\nline two \"quoted\"", 0, 0),
				mustSubmission(t, 3, "Dan", "", 123.456789012345, -999.5),
			}
			for _, s := range want {
				require.NoError(t, repo.Append(ctx, s))
			}

			got, err := repo.List(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got, submissionsEqual); diff != "" {
				t.Fatalf("row mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run(name+"/concurrent appends", func(t *testing.T) {
			repo := newRepo(t)

			const n = 50
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					s, err := domain.NewSubmission(
						time.Now(), fmt.Sprintf("user-%02d", i), "concurrent", domain.Coordinates{Lat: float64(i), Lon: -float64(i)},
					)
					if err != nil {
						errs <- err
						return
					}
					errs <- repo.Append(ctx, s)
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			got, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, got, n)

			seen := make(map[string]bool, n)
			for _, s := range got {
				require.Equal(t, "concurrent", s.Answer)
				require.Equal(t, s.Coords.Lat, -s.Coords.Lon)
				seen[s.Name] = true
			}
			require.Len(t, seen, n)
		})
	}
}
