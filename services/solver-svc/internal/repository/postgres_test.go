package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kflow/pkg/domain"
)

// ============================================================
// HELPER FUNCTIONS
// ============================================================

const testRunID = "5b0f3d8e-8a0c-4f4e-9d7a-1c2b3a4d5e6f"

func setupMockDB(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRunRepository) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewPostgresRunRepository(mock)
}

func sampleSolution() *domain.Solution {
	return &domain.Solution{
		Feasible:    true,
		K:           2,
		TotalCost:   8,
		AverageCost: 4,
		Paths: []domain.Path{
			{Edges: []int{1, 2}, Vertices: []int{1, 2, 3}, Cost: 3},
			{Edges: []int{3}, Vertices: []int{1, 3}, Cost: 5},
		},
		EdgeFlows: map[int]int64{1: 1, 2: 1, 3: 1},
		Rounds:    2,
	}
}

func sampleRun() *Run {
	return &Run{
		ID:          testRunID,
		Name:        "triangle",
		Vertices:    3,
		Edges:       3,
		K:           2,
		EdgeMode:    "undirected",
		Feasible:    true,
		TotalCost:   8,
		AverageCost: 4,
		Rounds:      2,
		DurationMs:  0.25,
		InputHash:   "abc123",
		Solution:    sampleSolution(),
	}
}

var runColumns = []string{
	"id", "name", "vertices", "edges", "k", "edge_mode",
	"feasible", "total_cost", "average_cost", "rounds",
	"duration_ms", "input_hash", "solution", "created_at",
}

var summaryColumns = []string{
	"id", "name", "vertices", "edges", "k", "feasible",
	"total_cost", "average_cost", "duration_ms", "created_at",
}

// ============================================================
// SAVE TESTS
// ============================================================

func TestPostgresRunRepository_Save_Success(t *testing.T) {
	mock, repo := setupMockDB(t)
	ctx := context.Background()
	now := time.Now()

	run := sampleRun()
	solution, err := json.Marshal(run.Solution)
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO runs`).
		WithArgs(
			run.ID,
			run.Name,
			run.Vertices,
			run.Edges,
			run.K,
			run.EdgeMode,
			run.Feasible,
			run.TotalCost,
			run.AverageCost,
			run.Rounds,
			run.DurationMs,
			run.InputHash,
			solution,
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	err = repo.Save(ctx, run)

	require.NoError(t, err)
	assert.Equal(t, now, run.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_Save_AssignsID(t *testing.T) {
	mock, repo := setupMockDB(t)

	run := sampleRun()
	run.ID = ""

	mock.ExpectQuery(`INSERT INTO runs`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	require.NoError(t, repo.Save(context.Background(), run))
	assert.Len(t, run.ID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_Save_InvalidID(t *testing.T) {
	_, repo := setupMockDB(t)

	run := sampleRun()
	run.ID = "not-a-uuid"

	err := repo.Save(context.Background(), run)
	assert.ErrorIs(t, err, ErrInvalidRunID)
}

func TestPostgresRunRepository_Save_DBError(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO runs`).
		WillReturnError(errors.New("connection refused"))

	err := repo.Save(context.Background(), sampleRun())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ============================================================
// GET TESTS
// ============================================================

func TestPostgresRunRepository_Get_Success(t *testing.T) {
	mock, repo := setupMockDB(t)
	now := time.Now()

	expected := sampleRun()
	solution, err := json.Marshal(expected.Solution)
	require.NoError(t, err)

	rows := pgxmock.NewRows(runColumns).AddRow(
		expected.ID, expected.Name, expected.Vertices, expected.Edges, expected.K,
		expected.EdgeMode, expected.Feasible, expected.TotalCost, expected.AverageCost,
		expected.Rounds, expected.DurationMs, expected.InputHash, solution, now,
	)

	mock.ExpectQuery(`SELECT .+ FROM runs WHERE id = \$1`).
		WithArgs(testRunID).
		WillReturnRows(rows)

	run, err := repo.Get(context.Background(), testRunID)

	require.NoError(t, err)
	assert.Equal(t, "triangle", run.Name)
	assert.Equal(t, int64(8), run.TotalCost)
	assert.Equal(t, now, run.CreatedAt)
	require.NotNil(t, run.Solution)
	assert.Equal(t, expected.Solution.Paths, run.Solution.Paths)
	assert.Equal(t, expected.Solution.EdgeFlows, run.Solution.EdgeFlows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_Get_NotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT .+ FROM runs`).
		WithArgs(testRunID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), testRunID)

	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_Get_InvalidID(t *testing.T) {
	mock, repo := setupMockDB(t)

	_, err := repo.Get(context.Background(), "42")

	assert.ErrorIs(t, err, ErrInvalidRunID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_Get_CorruptedSolution(t *testing.T) {
	mock, repo := setupMockDB(t)

	rows := pgxmock.NewRows(runColumns).AddRow(
		testRunID, "broken", 3, 3, 2, "undirected", true, int64(8), 4.0,
		2, 0.25, "abc123", []byte("{not json"), time.Now(),
	)
	mock.ExpectQuery(`SELECT .+ FROM runs`).WithArgs(testRunID).WillReturnRows(rows)

	_, err := repo.Get(context.Background(), testRunID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode solution")
}

// ============================================================
// DELETE TESTS
// ============================================================

func TestPostgresRunRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
		contains string
	}{
		{name: "deleted", affected: 1},
		{name: "not found", affected: 0, wantErr: ErrRunNotFound},
		{name: "db error", execErr: errors.New("timeout"), contains: "failed to delete run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := setupMockDB(t)

			exp := mock.ExpectExec(`DELETE FROM runs WHERE id = \$1`).WithArgs(testRunID)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))
			}

			err := repo.Delete(context.Background(), testRunID)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.contains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.contains)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ============================================================
// LIST / COUNT TESTS
// ============================================================

func TestPostgresRunRepository_List(t *testing.T) {
	mock, repo := setupMockDB(t)
	now := time.Now()

	mock.ExpectBeginTx(listTxOptions)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM runs`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT id, name, .+ FROM runs\s+ORDER BY created_at DESC`).
		WithArgs(2, 1).
		WillReturnRows(pgxmock.NewRows(summaryColumns).
			AddRow("id-2", "second", 4, 5, 1, true, int64(7), 7.0, 1.5, now).
			AddRow("id-1", "first", 3, 3, 2, false, int64(0), 0.0, 0.5, now.Add(-time.Minute)))
	mock.ExpectCommit()

	runs, total, err := repo.List(context.Background(), &ListOptions{Limit: 2, Offset: 1})

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, runs, 2)
	assert.Equal(t, "id-2", runs[0].ID)
	assert.True(t, runs[0].Feasible)
	assert.Equal(t, "first", runs[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_List_DefaultLimit(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBeginTx(listTxOptions)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM runs`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs(DefaultListLimit, 0).
		WillReturnRows(pgxmock.NewRows(summaryColumns))
	mock.ExpectCommit()

	runs, total, err := repo.List(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_List_CountError(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBeginTx(listTxOptions)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM runs`)).
		WillReturnError(errors.New("relation \"runs\" does not exist"))
	mock.ExpectRollback()

	_, _, err := repo.List(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count runs")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRunRepository_Count(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM runs`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
