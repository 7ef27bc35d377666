package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"

	sessioninadapter "studyplan/internal/modules/session/adapter/in"
	sessionoutadapter "studyplan/internal/modules/session/adapter/out"
	sessionout "studyplan/internal/modules/session/port/out"
	sessionservice "studyplan/internal/modules/session/service"
	sessionusecase "studyplan/internal/modules/session/usecase"
	"studyplan/internal/platform/catalog"
	"studyplan/internal/platform/clock"
	"studyplan/internal/platform/config"
	"studyplan/internal/platform/httpapi"
	"studyplan/internal/platform/id"
)

type App struct {
	Config      config.Config
	Logger      hclog.Logger
	Clock       clock.Clock
	Catalog     *catalog.Catalog
	SessionCLI  sessioninadapter.CLIHandler
	SessionHTTP sessioninadapter.HTTPHandler

	closers []io.Closer
}

type Options struct {
	Logger hclog.Logger
	// Notifications receives styled notifications. When nil they are logged.
	Notifications io.Writer
}

func New(cfg config.Config, opts Options) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cat, err := catalog.New(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	app := &App{Config: cfg, Logger: logger, Clock: clk, Catalog: cat}

	var blobs sessionout.BlobStore
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		sqliteStore, err := sessionoutadapter.NewSQLiteBlobStore(cfg.DBPath, clk)
		if err != nil {
			return nil, fmt.Errorf("new sqlite blob store: %w", err)
		}
		app.closers = append(app.closers, sqliteStore)
		blobs = sqliteStore
	default:
		blobs = sessionoutadapter.NewFileBlobStore(cfg.StateDir)
	}

	var notifier sessionout.Notifier
	if opts.Notifications != nil {
		notifier = sessionoutadapter.NewConsoleNotifier(opts.Notifications)
	} else {
		notifier = sessionoutadapter.NewLogNotifier(logger.Named("notify"))
	}

	store := sessionservice.NewSessionStore(clk, ids, blobs, notifier, cat, sessionservice.StoreOptions{
		Key:            cfg.StoreKey,
		ResetOnCorrupt: cfg.ResetOnCorrupt,
		Logger:         logger.Named("store"),
	})
	sessionUC := sessionusecase.NewInteractor(
		store,
		sessionoutadapter.NewShareLinkCodec(cfg.ShareBaseURL),
		cat,
		clk,
		cfg.ReminderLead,
	)

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.SessionHTTP = sessioninadapter.NewHTTPHandler(sessionUC)
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunServer serves the HTTP API until ctx is cancelled.
func RunServer(ctx context.Context, app *App, address string) error {
	if address == "" {
		address = app.Config.ServerAddress
	}
	srv := httpapi.NewServer(httpapi.Options{
		Address: address,
		Logger:  app.Logger.Named("http"),
	}, app.SessionHTTP)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-errCh
}
