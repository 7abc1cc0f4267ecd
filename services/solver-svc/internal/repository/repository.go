// services/solver-svc/internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kflow/pkg/config"
	"kflow/pkg/database"
	"kflow/pkg/domain"
)

// Стандартные ошибки
var (
	ErrRunNotFound  = errors.New("run not found")
	ErrInvalidRunID = errors.New("invalid run id")
)

// Драйверы хранилища истории
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Лимиты списка
const (
	DefaultListLimit = 20
	MaxListLimit     = 1000
)

// Run сохранённый запуск решателя
type Run struct {
	ID          string
	Name        string
	Vertices    int
	Edges       int
	K           int
	EdgeMode    string
	Feasible    bool
	TotalCost   int64
	AverageCost float64
	Rounds      int
	DurationMs  float64
	InputHash   string
	Solution    *domain.Solution
	CreatedAt   time.Time
}

// RunSummary краткая информация для списка
type RunSummary struct {
	ID          string
	Name        string
	Vertices    int
	Edges       int
	K           int
	Feasible    bool
	TotalCost   int64
	AverageCost float64
	DurationMs  float64
	CreatedAt   time.Time
}

// ListOptions опции для списка
type ListOptions struct {
	Limit  int
	Offset int
}

// normalize подставляет значения по умолчанию
func (o *ListOptions) normalize() ListOptions {
	if o == nil {
		return ListOptions{Limit: DefaultListLimit}
	}
	opts := *o
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

// Summary возвращает краткую информацию о запуске
func (r *Run) Summary() *RunSummary {
	return &RunSummary{
		ID:          r.ID,
		Name:        r.Name,
		Vertices:    r.Vertices,
		Edges:       r.Edges,
		K:           r.K,
		Feasible:    r.Feasible,
		TotalCost:   r.TotalCost,
		AverageCost: r.AverageCost,
		DurationMs:  r.DurationMs,
		CreatedAt:   r.CreatedAt,
	}
}

// NewRun собирает запись истории из задачи и решения
func NewRun(p *domain.Problem, s *domain.Solution, inputHash string) *Run {
	return &Run{
		Name:        p.Name,
		Vertices:    p.VertexCount,
		Edges:       p.EdgeCount(),
		K:           p.K,
		EdgeMode:    p.Mode.String(),
		Feasible:    s.Feasible,
		TotalCost:   s.TotalCost,
		AverageCost: s.AverageCost,
		Rounds:      s.Rounds,
		DurationMs:  float64(s.ComputationTime.Microseconds()) / 1000,
		InputHash:   inputHash,
		Solution:    s,
	}
}

// RunRepository интерфейс репозитория истории
type RunRepository interface {
	// Save присваивает ID и CreatedAt, если они пусты
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	Delete(ctx context.Context, id string) error

	// List возвращает запуски от новых к старым и общее количество
	List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error)
	Count(ctx context.Context) (int64, error)
}

// New создаёт репозиторий по конфигурации. db нужен только для postgres.
func New(cfg *config.HistoryConfig, db database.DB) (RunRepository, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryRunRepository(), nil
	case DriverPostgres:
		if db == nil {
			return nil, errors.New("postgres history requires a database connection")
		}
		return NewPostgresRunRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown history driver: %s", cfg.Driver)
	}
}
