package main

import (
	"context"
	"geo-form-service/internal/adapters/repositories"
	"geo-form-service/internal/config"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/platform/db"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func TestCopyTableCSVToSQLite(t *testing.T) {
	ctx := context.Background()
	src := repositories.NewCSVSubmissionRepository(filepath.Join(t.TempDir(), "dados_coletados.csv"))

	sqlDB, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()
	if err := repositories.InitSchema(sqlDB); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	dst := repositories.NewSqliteSubmissionRepository(sqlDB)

	if n, err := copyTable(ctx, src, dst); err != nil || n != 0 {
		t.Fatalf("copy of absent table = %d, %v; want 0, nil", n, err)
	}

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	var want []domain.Submission
	for i, name := range []string{"Alice", "Bob"} {
		s, err := domain.NewSubmission(base.Add(time.Duration(i)*time.Second), name, "a,b", domain.DefaultCoordinates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := src.Append(ctx, s); err != nil {
			t.Fatalf("append: %v", err)
		}
		want = append(want, s)
	}

	n, err := copyTable(ctx, src, dst)
	if err != nil || n != 2 {
		t.Fatalf("copy = %d, %v; want 2, nil", n, err)
	}

	got, err := dst.List(ctx)
	if err != nil {
		t.Fatalf("list target: %v", err)
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("target rows mismatch (-want +got):\n%s", diff)
	}

	if _, err := copyTable(ctx, src, dst); err == nil {
		t.Fatal("second copy into a filled target should fail")
	}
}

func TestRunReportsFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Config{
		CSVPath:  filepath.Join(dir, "dados_coletados.csv"),
		BoltPath: filepath.Join(dir, "submissions.bolt"),
	}
	zl := zap.NewNop()

	t.Setenv("SOURCE_BACKEND", config.BackendCSV)
	t.Setenv("TARGET_BACKEND", config.BackendCSV)
	if err := run(ctx, cfg, zl); err == nil {
		t.Fatal("same source and target should fail")
	}

	src := repositories.NewCSVSubmissionRepository(cfg.CSVPath)
	s, err := domain.NewSubmission(time.Now(), "Alice", "oi", domain.DefaultCoordinates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := src.Append(ctx, s); err != nil {
		t.Fatalf("append: %v", err)
	}

	t.Setenv("TARGET_BACKEND", config.BackendBolt)
	if err := run(ctx, cfg, zl); err != nil {
		t.Fatalf("first copy: %v", err)
	}
	if err := run(ctx, cfg, zl); err == nil {
		t.Fatal("copy into a filled target should fail so the process exits non-zero")
	}
}
