package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kflow/pkg/config"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// ============================================================
// TRANSACTIONS
// ============================================================

func TestWithTransaction_Commit(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM runs").
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := WithTransaction(ctx, mock, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "DELETE FROM runs WHERE id = $1", "run-1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()
	expectedErr := errors.New("db error")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTransaction(ctx, mock, func(tx pgx.Tx) error {
		return expectedErr
	})

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackFails(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()
	rbErr := errors.New("connection lost")

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(rbErr)

	err := WithTransaction(ctx, mock, func(tx pgx.Tx) error {
		return errors.New("db error")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, rbErr)
	assert.Contains(t, err.Error(), "db error")
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTransaction(ctx, mock, func(tx pgx.Tx) error {
			panic("unexpected")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_BeginFails(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := WithTransaction(context.Background(), mock, func(tx pgx.Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, called)
}

func TestWithTransactionResult(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))
	mock.ExpectCommit()

	count, err := WithTransactionResult(ctx, mock, func(tx pgx.Tx) (int64, error) {
		var n int64
		err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM runs").Scan(&n)
		return n, err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionResult_CommitFails(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	_, err := WithTransactionResult(context.Background(), mock, func(tx pgx.Tx) (int, error) {
		return 1, nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
}

// ============================================================
// MIGRATIONS
// ============================================================

func TestRunMigrations_Disabled(t *testing.T) {
	cfg := &config.DatabaseConfig{AutoMigrate: false}

	// Пул не нужен, миграции выключены
	err := RunMigrations(context.Background(), nil, cfg, nil)
	assert.NoError(t, err)
}

// ============================================================
// POOL CONFIG
// ============================================================

func TestNewPoolConfig(t *testing.T) {
	base := config.DatabaseConfig{
		Host:         "localhost",
		Port:         5432,
		Database:     "kflow",
		Username:     "kflow",
		Password:     "secret",
		SSLMode:      "disable",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}

	tests := []struct {
		name             string
		mutate           func(c *config.DatabaseConfig)
		statementTimeout string
		applicationName  string
		connectTimeout   time.Duration
	}{
		{
			name: "session parameters",
			mutate: func(c *config.DatabaseConfig) {
				c.StatementTimeout = 1500 * time.Millisecond
				c.ApplicationName = "kflow-test"
				c.ConnectTimeout = 3 * time.Second
			},
			statementTimeout: "1500",
			applicationName:  "kflow-test",
			connectTimeout:   3 * time.Second,
		},
		{
			name:           "zero values keep defaults",
			mutate:         func(c *config.DatabaseConfig) {},
			connectTimeout: defaultConnectTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			pc, err := NewPoolConfig(&cfg)
			require.NoError(t, err)

			assert.Equal(t, int32(4), pc.MaxConns)
			assert.Equal(t, int32(2), pc.MinConns)
			assert.Equal(t, tt.connectTimeout, pc.ConnConfig.ConnectTimeout)

			params := pc.ConnConfig.RuntimeParams
			if tt.statementTimeout == "" {
				assert.NotContains(t, params, "statement_timeout")
			} else {
				assert.Equal(t, tt.statementTimeout, params["statement_timeout"])
			}
			if tt.applicationName != "" {
				assert.Equal(t, tt.applicationName, params["application_name"])
			}
		})
	}
}
