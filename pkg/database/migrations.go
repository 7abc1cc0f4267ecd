package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"kflow/pkg/config"
	"kflow/pkg/logger"
)

// MigrationStatus состояние одной миграции
type MigrationStatus struct {
	Version int64
	Source  string
	Applied bool
}

// Migrator управляет миграциями goose
type Migrator struct {
	db       *sql.DB
	provider *goose.Provider
}

// NewMigrator создаёт мигратор поверх пула. fsys содержит *.sql в корне.
func NewMigrator(pool *pgxpool.Pool, fsys fs.FS) (*Migrator, error) {
	return NewMigratorWithDB(stdlib.OpenDBFromPool(pool), fsys)
}

// NewMigratorWithDB создаёт мигратор поверх *sql.DB
func NewMigratorWithDB(db *sql.DB, fsys fs.FS) (*Migrator, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{db: db, provider: provider}, nil
}

// Up применяет все миграции и возвращает число применённых
func (m *Migrator) Up(ctx context.Context) (int, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, r := range results {
		logger.Log.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return len(results), nil
}

// Down откатывает последнюю миграцию
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	logger.Log.Info("migration rolled back", "version", result.Source.Version)
	return nil
}

// Status возвращает состояние всех миграций
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	result := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, MigrationStatus{
			Version: s.Source.Version,
			Source:  s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return result, nil
}

// Close закрывает *sql.DB мигратора. Пул при этом не закрывается.
func (m *Migrator) Close() error {
	return m.db.Close()
}

// RunMigrations запускает миграции если включено в конфигурации
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, cfg *config.DatabaseConfig, fsys fs.FS) error {
	if !cfg.AutoMigrate {
		logger.Log.Debug("auto-migration is disabled")
		return nil
	}

	migrator, err := NewMigrator(pool, fsys)
	if err != nil {
		return err
	}
	defer migrator.Close()

	_, err = migrator.Up(ctx)
	return err
}
