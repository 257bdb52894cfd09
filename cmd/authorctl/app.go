package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"authorstore/internal/adapter/cache/memory"
	"authorstore/internal/adapter/cache/redis"
	"authorstore/internal/adapter/database/postgres"
	"authorstore/internal/adapter/database/repository"
	"authorstore/internal/adapter/database/sqlite"
	adaptertelemetry "authorstore/internal/adapter/telemetry"
	"authorstore/internal/core/port"
	"authorstore/internal/core/service"
	"authorstore/internal/core/telemetry"
	"authorstore/pkg/config"
	"authorstore/pkg/logging"
)

const (
	serviceName    = "authorctl"
	serviceVersion = "1.0.0"
)

// app holds everything a subcommand needs. closers run in reverse order.
type app struct {
	cfg     *config.AppConfig
	logger  *otelzap.Logger
	service port.AuthorService
	out     io.Writer
	closers []func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.AppConfig, out io.Writer) (a *app, err error) {
	logger, err := logging.NewLogger(serviceName, cfg.IsProduction())

	if err != nil {
		return nil, err
	}

	a = &app{cfg: cfg, logger: logger, out: out}

	defer func() {
		if err != nil {
			a.close(ctx)
		}
	}()

	slogger := logging.NewSlog(cfg.IsProduction())
	slog.SetDefault(slogger)

	probe := telemetry.NewNoOpProbe()

	if cfg.TelemetryEnabled {
		container, err := adaptertelemetry.NewContainer(ctx, adaptertelemetry.Config{
			ServiceName:    serviceName,
			ServiceVersion: serviceVersion,
			Environment:    cfg.Environment,
			MetricsPort:    cfg.MetricsPort,
			OTLPEndpoint:   cfg.OTLPEndpoint,
		}, slogger)

		if err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}

		a.closers = append(a.closers, container.Shutdown)
		probe = container.NewTelemetryProbe(slogger)
	}

	store, queryBuilder, err := a.openStore(ctx)

	if err != nil {
		return nil, err
	}

	cache, err := a.openCache(ctx)

	if err != nil {
		return nil, err
	}

	repo := repository.NewAuthorRepository(store, queryBuilder, probe)
	a.service = service.NewAuthorService(repo, cache, cfg.CacheTTL, probe)

	return a, nil
}

func (a *app) openStore(ctx context.Context) (port.Store, squirrel.StatementBuilderType, error) {
	switch a.cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, postgres.Options{
			URL:            a.cfg.DatabaseURL,
			MigrationsPath: a.cfg.MigrationsPath,
		})

		if err != nil {
			return nil, squirrel.StatementBuilderType{}, fmt.Errorf("postgres: %w", err)
		}

		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		a.logger.Debug("Connected to postgres")

		return db, *db.QueryBuilder, nil
	default:
		db, err := sqlite.NewDB(sqlite.Options{
			Path:           a.cfg.DatabasePath,
			MigrationsPath: a.cfg.MigrationsPath,
			LogQueries:     a.cfg.DBLogQueries,
		})

		if err != nil {
			return nil, squirrel.StatementBuilderType{}, fmt.Errorf("sqlite: %w", err)
		}

		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		a.logger.Debug("Opened sqlite database", zap.String("path", a.cfg.DatabasePath))

		return db, *db.QueryBuilder, nil
	}
}

func (a *app) openCache(ctx context.Context) (port.CacheRepository, error) {
	var cache port.CacheRepository

	switch a.cfg.CacheDriver {
	case config.CacheNone:
		return nil, nil
	case config.CacheRedis:
		redisCache, err := redis.NewRedisRepository(ctx, a.cfg.RedisURL, "authorstore:")

		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}

		cache = redisCache
	default:
		cache = memory.NewMemoryRepository(a.cfg.CacheTTL)
	}

	a.closers = append(a.closers, func(context.Context) error { return cache.Close() })

	return cache, nil
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Ctx(ctx).Warn("Failed to release resource", zap.Error(err))
		}
	}

	a.closers = nil
	_ = a.logger.Sync()
}
