package storage

import (
	"context"
	"fmt"
	"geo-form-service/internal/adapters/repositories"
	"geo-form-service/internal/adapters/sessions"
	"geo-form-service/internal/config"
	"geo-form-service/internal/platform/db"
	"geo-form-service/internal/ports"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.etcd.io/bbolt"
	_ "modernc.org/sqlite"
)

// Closer releases whatever the backend holds open.
type Closer func() error

func noop() error { return nil }

// Options selects and locates one submission backend.
type Options struct {
	Backend     string
	CSVPath     string
	DBPath      string
	DatabaseURL string
	BoltPath    string
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Backend:     cfg.StoreBackend,
		CSVPath:     cfg.CSVPath,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		BoltPath:    cfg.BoltPath,
	}
}

// OpenSubmissions opens the configured table store. SQL backends get their
// schema created on open.
func OpenSubmissions(opts Options) (ports.SubmissionRepository, Closer, error) {
	switch opts.Backend {
	case config.BackendCSV:
		return repositories.NewCSVSubmissionRepository(opts.CSVPath), noop, nil

	case config.BackendSQLite:
		sqlDB, err := db.OpenSQLite(opts.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open submissions: %w", err)
		}
		if err := repositories.InitSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("open submissions: %w", err)
		}
		return repositories.NewSqliteSubmissionRepository(sqlDB), sqlDB.Close, nil

	case config.BackendPostgres:
		sqlDB, err := db.Open(opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open submissions: %w", err)
		}
		if err := repositories.InitPostgresSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("open submissions: %w", err)
		}
		return repositories.NewSQLSubmissionRepository(sqlDB), sqlDB.Close, nil

	case config.BackendBolt:
		if err := os.MkdirAll(filepath.Dir(opts.BoltPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("open submissions: create directory for %q: %w", opts.BoltPath, err)
		}
		bdb, err := bbolt.Open(opts.BoltPath, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
		if err != nil {
			return nil, nil, fmt.Errorf("open submissions: open bolt %q: %w", opts.BoltPath, err)
		}
		return repositories.NewBoltSubmissionRepository(bdb), bdb.Close, nil
	}

	return nil, nil, fmt.Errorf("open submissions: unknown backend %q", opts.Backend)
}

// OpenSessions opens the configured session store.
func OpenSessions(ctx context.Context, cfg config.Config) (ports.SessionStore, Closer, error) {
	switch cfg.SessionBackend {
	case config.SessionMemory:
		return sessions.NewMemorySessionStore(cfg.SessionTTL), noop, nil

	case config.SessionRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("open sessions: ping redis %s: %w", cfg.RedisAddr, err)
		}
		return sessions.NewRedisSessionStore(client, cfg.SessionTTL), client.Close, nil
	}

	return nil, nil, fmt.Errorf("open sessions: unknown backend %q", cfg.SessionBackend)
}
