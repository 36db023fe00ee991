package storage

import (
	"context"
	"errors"
	"geo-form-service/internal/adapters/sessions"
	"geo-form-service/internal/config"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/ports"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestOpenSubmissionsBackends(t *testing.T) {
	dir := t.TempDir()
	cases := []Options{
		{Backend: config.BackendCSV, CSVPath: filepath.Join(dir, "dados_coletados.csv")},
		{Backend: config.BackendSQLite, DBPath: filepath.Join(dir, "app.db")},
		{Backend: config.BackendBolt, BoltPath: filepath.Join(dir, "nested", "s.bolt")},
	}

	for _, opts := range cases {
		t.Run(opts.Backend, func(t *testing.T) {
			ctx := context.Background()
			repo, closeFn, err := OpenSubmissions(opts)
			require.NoError(t, err)
			defer closeFn()

			_, err = repo.List(ctx)
			require.True(t, errors.Is(err, ports.ErrTableNotFound), "fresh store should report no table, got %v", err)

			sub, err := domain.NewSubmission(time.Now(), "Alice", "hello", domain.DefaultCoordinates)
			require.NoError(t, err)
			require.NoError(t, repo.Append(ctx, sub))

			rows, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			require.Equal(t, "Alice", rows[0].Name)
		})
	}
}

func TestOpenSubmissionsUnknownBackend(t *testing.T) {
	_, _, err := OpenSubmissions(Options{Backend: "mongo"})
	require.Error(t, err)
}

func TestOpenSessions(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := OpenSessions(ctx, config.Config{SessionBackend: config.SessionMemory, SessionTTL: time.Hour})
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &sessions.MemorySessionStore{}, store)

	mr := miniredis.RunT(t)
	store, closeRedis, err := OpenSessions(ctx, config.Config{SessionBackend: config.SessionRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer closeRedis()
	require.IsType(t, &sessions.RedisSessionStore{}, store)

	_, _, err = OpenSessions(ctx, config.Config{SessionBackend: "memcached"})
	require.Error(t, err)
}
