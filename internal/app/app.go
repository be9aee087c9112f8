package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"bptracker/internal/config"
	"bptracker/internal/httpapi"
	"bptracker/internal/storage/bolt"
	"bptracker/internal/storage/sqlite"
	"bptracker/internal/store"
)

type App struct {
	version      string
	buildDate    string
	logger       zerolog.Logger
	server       *http.Server
	store        *store.Store
	storageClose io.Closer
}

func New(version, buildDate string, logger zerolog.Logger) (*App, error) {
	cfg := config.Load()

	var (
		persistence store.Persistence
		closer      io.Closer
	)
	switch cfg.Storage {
	case "bolt":
		st, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt storage: %w", err)
		}
		persistence, closer = st, st
	case "sqlite":
		st, err := sqlite.New(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		persistence, closer = st, st
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	recordingStore := store.NewStore(persistence, logger)
	router := httpapi.NewRouter(recordingStore, logger, cfg.MaxRequestBytes)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &App{
		version:      version,
		buildDate:    buildDate,
		logger:       logger,
		server:       server,
		store:        recordingStore,
		storageClose: closer,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() { _ = a.storageClose.Close() }()

	a.store.Start(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error().Err(err).Msg("http server error")
		}
	}()

	a.logger.Info().
		Str("version", a.version).
		Str("buildDate", a.buildDate).
		Str("addr", a.server.Addr).
		Msg("bptracker server listening")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.server.Shutdown(shutdownCtx)
	a.store.Flush()
	return err
}
