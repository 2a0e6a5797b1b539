package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Beclomethason/url-shortner-api/internal/adapter/repository/memory"
	"github.com/Beclomethason/url-shortner-api/internal/adapter/repository/postgres"
	"github.com/Beclomethason/url-shortner-api/internal/config"
	"github.com/Beclomethason/url-shortner-api/internal/entity"
	"github.com/Beclomethason/url-shortner-api/internal/shortcode"
	"github.com/Beclomethason/url-shortner-api/internal/usecase"

	delivery "github.com/Beclomethason/url-shortner-api/internal/adapter/delivery/http"
	pgpkg "github.com/Beclomethason/url-shortner-api/pkg/postgres"
)

const serviceName = "url-shortener"

type urlStore interface {
	Save(ctx context.Context, shortCode, originalURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	IncrementClicks(ctx context.Context, shortCode string) error
	Ping(ctx context.Context) error
}

func newLogger(cfg *config.Config) *httplog.Logger {
	opts := httplog.Options{
		JSON:           true,
		LogLevel:       slog.LevelInfo,
		Concise:        true,
		RequestHeaders: false,
		Tags: map[string]string{
			"env": cfg.Env,
		},
	}

	if cfg.Env == config.EnvDev {
		opts.JSON = false
		opts.LogLevel = slog.LevelDebug
		opts.RequestHeaders = true
	}

	return httplog.NewLogger(serviceName, opts)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (urlStore, func() error, error) {
	const op = "app.openStore"

	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data will be lost on shutdown")
		return memory.NewURLRepository(), func() error { return nil }, nil
	}

	db, err := pgpkg.New(
		ctx,
		cfg.Postgres.DSN(),
		pgpkg.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pgpkg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pgpkg.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pgpkg.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	if err := pgpkg.RunMigrations(logger, cfg.Postgres.MigrationsPath, cfg.Postgres.DSN()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	logger.Info("connected to postgres",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("db", cfg.Postgres.DB),
	)

	return postgres.NewURLRepository(db), db.Close, nil
}

func newURLUseCase(cfg *config.Config, store urlStore) *usecase.URLUseCase {
	return usecase.NewURLUseCase(
		store,
		shortcode.NewGenerator(shortcode.DefaultLength),
		cfg.ShortCode.MaxAttempts,
	)
}

// Run wires the service from cfg and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg)

	store, closeStore, err := openStore(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close storage", slog.Any("err", err))
		}
	}()

	urlUseCase := newURLUseCase(cfg, store)

	r := delivery.NewRouter(logger, urlUseCase, store, cfg.BaseURL)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("storage", cfg.Storage),
			slog.String("base_url", cfg.BaseURL),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
