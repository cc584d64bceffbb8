package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playverse/cardbot/internal/config"
	"github.com/playverse/cardbot/internal/database"
	"github.com/playverse/cardbot/internal/engine"
	"github.com/playverse/cardbot/internal/migrations"
	"github.com/playverse/cardbot/internal/render"
	"github.com/playverse/cardbot/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Engines ---
	client := engine.NewClient(cfg.FetchTimeout)
	registry := engine.NewRegistry(client, cfg.CacheTTL, logger)
	logger.Info("engine registry ready", "engines", registry.Names())

	// --- Rendering ---
	composer, err := render.NewComposer(cfg.FontPath)
	if err != nil {
		return fmt.Errorf("loading font: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Registry:       registry,
		Groups:         config.NewGroups(filepath.Join(cfg.DataDir, "groups.json")),
		Store:          server.NewSQLiteStore(db),
		Composer:       composer,
		DB:             db,
		DataDir:        cfg.DataDir,
		AdminTokenHash: cfg.AdminTokenHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
