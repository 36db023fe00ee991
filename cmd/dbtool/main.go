package main

import (
	"context"
	"errors"
	"fmt"
	"geo-form-service/internal/config"
	"geo-form-service/internal/platform/logger"
	"geo-form-service/internal/platform/storage"
	"geo-form-service/internal/ports"
	"log"
	"os"

	"go.uber.org/zap"
)

// dbtool creates the target store (schema included) and copies every
// submission from SOURCE_BACKEND into it, e.g. the CSV table into SQLite.
func main() {
	dotErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, cleanup, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if dotErr != nil {
		zl.Info("no .env file found (using environment variables)")
	}

	if err := run(context.Background(), cfg, zl); err != nil {
		zl.Error("dbtool failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	base := storage.OptionsFromConfig(cfg)
	srcOpts, dstOpts := base, base
	srcOpts.Backend = config.Get("SOURCE_BACKEND", config.BackendCSV)
	dstOpts.Backend = config.Get("TARGET_BACKEND", config.BackendSQLite)

	if srcOpts.Backend == dstOpts.Backend {
		return fmt.Errorf("run: source and target backend are both %q", srcOpts.Backend)
	}

	src, closeSrc, err := storage.OpenSubmissions(srcOpts)
	if err != nil {
		return fmt.Errorf("run: open source: %w", err)
	}
	defer closeSrc()

	zl.Info("initializing target store", zap.String("backend", dstOpts.Backend))
	dst, closeDst, err := storage.OpenSubmissions(dstOpts)
	if err != nil {
		return fmt.Errorf("run: open target: %w", err)
	}
	defer closeDst()
	zl.Info("target ready")

	n, err := copyTable(ctx, src, dst)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	zl.Info("copy complete",
		zap.String("from", srcOpts.Backend),
		zap.String("to", dstOpts.Backend),
		zap.Int("rows", n),
	)
	return nil
}

// copyTable appends every row of src to dst in order. It refuses to run
// against a target that already holds rows.
func copyTable(ctx context.Context, src, dst ports.SubmissionRepository) (int, error) {
	existing, err := dst.List(ctx)
	switch {
	case errors.Is(err, ports.ErrTableNotFound):
	case err != nil:
		return 0, fmt.Errorf("copy table: read target: %w", err)
	case len(existing) > 0:
		return 0, fmt.Errorf("copy table: target already has %d rows", len(existing))
	}

	rows, err := src.List(ctx)
	if errors.Is(err, ports.ErrTableNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("copy table: read source: %w", err)
	}

	for i, s := range rows {
		if err := dst.Append(ctx, s); err != nil {
			return i, fmt.Errorf("copy table: row %d: %w", i+1, err)
		}
	}

	return len(rows), nil
}
