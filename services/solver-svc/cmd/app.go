package main

import (
	"context"
	"time"

	"kflow/migrations"
	"kflow/pkg/apperror"
	"kflow/pkg/cache"
	"kflow/pkg/config"
	"kflow/pkg/database"
	"kflow/pkg/logger"
	"kflow/pkg/metrics"
	"kflow/pkg/telemetry"
	"kflow/services/solver-svc/internal/repository"
)

const shutdownTimeout = 5 * time.Second

// application зависимости одного запуска команды
type application struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	tracing *telemetry.Provider
	db      *database.PostgresDB
	closers []func() error
}

// startup загружает конфигурацию и поднимает логгер, метрики и трейсинг
func startup(ctx context.Context) (*application, error) {
	var opts []config.LoaderOption
	if globalCfg.Config != "" {
		opts = append(opts, config.WithConfigFile(globalCfg.Config))
	}

	loader := config.NewLoader(opts...)
	cfg, err := loader.Load()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeConfig, "failed to load config")
	}

	if globalCfg.LogLevel != "" {
		cfg.Log.Level = globalCfg.LogLevel
	}
	if globalCfg.LogFormat != "" {
		cfg.Log.Format = globalCfg.LogFormat
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	logger.Log = logger.WithService(cfg.App.Name)
	if src := loader.Source(); src != "" {
		logger.Debug("Config loaded", "source", src)
	}

	app := &application{cfg: cfg}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		logger.Warn("Failed to init telemetry", "error", err)
	} else {
		app.tracing = tp
	}

	if cfg.Metrics.Enabled {
		app.metrics = metrics.Init(cfg.Metrics.Namespace)
		app.metrics.SetBuildInfo(cfg.App.Version, cfg.App.Environment)
	}

	return app, nil
}

// Close сбрасывает метрики и трейсы и освобождает соединения
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Failed to close resource", "error", err)
		}
	}

	if a.db != nil {
		a.db.Close()
	}

	if path := a.cfg.Metrics.Textfile; path != "" && a.metrics != nil {
		if err := a.metrics.WriteToTextfile(path); err != nil {
			logger.Warn("Failed to write metrics textfile", "path", path, "error", err)
		}
	}

	if a.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.tracing.Shutdown(ctx); err != nil {
			logger.Warn("Failed to shutdown telemetry", "error", err)
		}
	}
}

// database открывает пул PostgreSQL один раз за запуск
func (a *application) database(ctx context.Context) (*database.PostgresDB, error) {
	if a.db != nil {
		return a.db, nil
	}
	if !a.cfg.Database.Enabled {
		return nil, apperror.New(apperror.CodeConfig, "database is disabled, set database.enabled")
	}

	db, err := database.NewPostgresDB(ctx, &a.cfg.Database)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeDatabase, "failed to connect to database")
	}
	a.db = db

	logger.Debug("Database connected", "host", a.cfg.Database.Host, "database", a.cfg.Database.Database)
	return db, nil
}

// solverCache возвращает кэш решений или nil, если он выключен или недоступен
func (a *application) solverCache() *cache.SolverCache {
	if !a.cfg.Cache.Enabled {
		return nil
	}

	c, err := cache.New(cache.FromConfig(&a.cfg.Cache))
	if err != nil {
		logger.Warn("Failed to create cache, continuing without cache", "error", err)
		return nil
	}
	a.closers = append(a.closers, c.Close)

	logger.Debug("Solver cache initialized", "driver", a.cfg.Cache.Driver, "ttl", a.cfg.Cache.DefaultTTL)
	return cache.NewSolverCache(c, a.cfg.Cache.DefaultTTL)
}

// history возвращает репозиторий для записи запусков или nil, если история выключена
func (a *application) history(ctx context.Context) (repository.RunRepository, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	if a.cfg.History.Driver != repository.DriverPostgres {
		return repository.New(&a.cfg.History, nil)
	}
	return a.storedHistory(ctx)
}

// storedHistory репозиторий в PostgreSQL, нужен командам history
func (a *application) storedHistory(ctx context.Context) (repository.RunRepository, error) {
	if a.cfg.History.Driver != repository.DriverPostgres {
		return nil, apperror.Newf(apperror.CodeConfig,
			"history is kept only by the postgres driver, got %q", a.cfg.History.Driver).
			WithField("history.driver")
	}

	db, err := a.database(ctx)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(ctx, db.Pool(), &a.cfg.Database, migrations.Postgres()); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeDatabase, "failed to run migrations")
	}

	repo, err := repository.New(&a.cfg.History, db)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeConfig, "failed to create history repository")
	}
	return repo, nil
}
