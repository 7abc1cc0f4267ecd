// services/solver-svc/internal/repository/postgres.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"kflow/pkg/database"
	"kflow/pkg/domain"
	"kflow/pkg/telemetry"
)

const runsTable = "runs"

// listTxOptions снимок для согласованных COUNT и SELECT
var listTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// PostgresRunRepository PostgreSQL реализация
type PostgresRunRepository struct {
	db database.DB
}

// NewPostgresRunRepository создаёт новый репозиторий
func NewPostgresRunRepository(db database.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) Save(ctx context.Context, run *Run) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Save")
	defer span.End()
	telemetry.SetAttributes(ctx, attribute.String(telemetry.AttrDBTable, runsTable))

	if run.ID == "" {
		run.ID = uuid.New().String()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRunID, run.ID)
	}

	solution, err := json.Marshal(run.Solution)
	if err != nil {
		return fmt.Errorf("failed to encode solution: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, name, vertices, edges, k, edge_mode,
			feasible, total_cost, average_cost, rounds,
			duration_ms, input_hash, solution
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	err = r.db.QueryRow(ctx, query,
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
	).Scan(&run.CreatedAt)

	if err != nil {
		telemetry.SetError(ctx, err)
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

func (r *PostgresRunRepository) Get(ctx context.Context, id string) (*Run, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Get")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRunID, id)
	}

	query := `
		SELECT
			id, name, vertices, edges, k, edge_mode,
			feasible, total_cost, average_cost, rounds,
			duration_ms, input_hash, solution, created_at
		FROM runs
		WHERE id = $1
	`

	run := &Run{}
	var solution []byte

	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Name,
		&run.Vertices,
		&run.Edges,
		&run.K,
		&run.EdgeMode,
		&run.Feasible,
		&run.TotalCost,
		&run.AverageCost,
		&run.Rounds,
		&run.DurationMs,
		&run.InputHash,
		&solution,
		&run.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		telemetry.SetError(ctx, err)
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if len(solution) > 0 {
		run.Solution = &domain.Solution{}
		if err := json.Unmarshal(solution, run.Solution); err != nil {
			return nil, fmt.Errorf("failed to decode solution of run %s: %w", id, err)
		}
	}

	return run, nil
}

func (r *PostgresRunRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Delete")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRunID, id)
	}

	result, err := r.db.Exec(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		telemetry.SetError(ctx, err)
		return fmt.Errorf("failed to delete run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRunNotFound
	}

	return nil
}

type listResult struct {
	runs  []*RunSummary
	total int64
}

func (r *PostgresRunRepository) List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.List")
	defer span.End()

	o := opts.normalize()

	res, err := database.WithTransactionOptions(ctx, r.db, listTxOptions, func(tx pgx.Tx) (listResult, error) {
		var out listResult

		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM runs`).Scan(&out.total); err != nil {
			return out, fmt.Errorf("failed to count runs: %w", err)
		}

		rows, err := tx.Query(ctx, `
			SELECT id, name, vertices, edges, k, feasible,
				total_cost, average_cost, duration_ms, created_at
			FROM runs
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, o.Limit, o.Offset)
		if err != nil {
			return out, fmt.Errorf("failed to list runs: %w", err)
		}
		defer rows.Close()

		out.runs = make([]*RunSummary, 0, o.Limit)
		for rows.Next() {
			s := &RunSummary{}
			err := rows.Scan(
				&s.ID,
				&s.Name,
				&s.Vertices,
				&s.Edges,
				&s.K,
				&s.Feasible,
				&s.TotalCost,
				&s.AverageCost,
				&s.DurationMs,
				&s.CreatedAt,
			)
			if err != nil {
				return out, fmt.Errorf("failed to scan run: %w", err)
			}
			out.runs = append(out.runs, s)
		}
		return out, rows.Err()
	})
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, 0, err
	}

	return res.runs, res.total, nil
}

func (r *PostgresRunRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Count")
	defer span.End()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return total, nil
}
