package main

import (
	"context"
	"errors"
	"fmt"
	"geo-form-service/internal/api"
	"geo-form-service/internal/config"
	"geo-form-service/internal/platform/logger"
	"geo-form-service/internal/platform/storage"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires the configured adapters behind ports and starts the HTTP server.
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

	if err := run(cfg, zl); err != nil {
		zl.Error("server stopped", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := storage.OpenSubmissions(storage.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer closeRepo()

	sessions, closeSessions, err := storage.OpenSessions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer closeSessions()

	router := api.NewRouter(api.Deps{
		Sessions:   sessions,
		Repo:       repo,
		Default:    cfg.Default,
		Zoom:       cfg.MapZoom,
		TileURL:    cfg.TileURL,
		SessionTTL: cfg.SessionTTL,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           http.TimeoutHandler(router, cfg.APITimeout, "request timed out"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.APITimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreBackend),
			zap.String("sessions", cfg.SessionBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
