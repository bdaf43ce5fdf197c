package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"learnboard/internal/cache"
	"learnboard/internal/config"
	"learnboard/internal/database"
	"learnboard/internal/handlers"
	"learnboard/internal/render"
	"learnboard/internal/router"
	"learnboard/internal/session"
	"learnboard/internal/store"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"driver", cfg.DriverName(),
	)

	// Seed demo data in development (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	flashes, closeFlashes, err := newFlashStore(cfg)
	if err != nil {
		return err
	}
	defer closeFlashes()

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("init templates: %w", err)
	}

	tracker := handlers.NewTracker(renderer, flashes, store.New(db))
	r, err := router.New(router.Options{
		DB:      db,
		Flashes: flashes,
		Tracker: tracker,
		Secure:  !cfg.IsDev(),
	})
	if err != nil {
		return fmt.Errorf("init router: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

// newFlashStore keeps flashes in Valkey when a host is configured and in a
// signed cookie otherwise.
func newFlashStore(cfg *config.Config) (session.FlashStore, func(), error) {
	secure := !cfg.IsDev()
	if !cfg.ValkeyEnabled() {
		slog.Info("valkey not configured, using cookie flashes")
		return session.NewCookieStore(cfg.SecretKey, secure), func() {}, nil
	}

	client, err := cache.ConnectValkey(cfg.Valkey.Host, cfg.Valkey.Port, cfg.Valkey.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("connect valkey: %w", err)
	}
	return session.NewStore(client, secure), func() { client.Close() }, nil
}
