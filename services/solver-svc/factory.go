// services/solver-svc/factory.go
package solversvc

import (
	"context"

	"kflow/pkg/config"
	"kflow/pkg/domain"
	"kflow/services/solver-svc/internal/service"
)

// Solver решает задачу вне CLI, без кэша, истории и метрик
type Solver interface {
	Solve(ctx context.Context, p *domain.Problem) (*domain.Solution, error)
}

type solver struct {
	svc *service.SolverService
}

func (s solver) Solve(ctx context.Context, p *domain.Problem) (*domain.Solution, error) {
	res, err := s.svc.Solve(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Solution, nil
}

// NewBenchmarkSolver создаёт экземпляр сервиса для внешних бенчмарков.
// Он возвращает интерфейс, скрывая внутреннюю структуру реализации.
// Проверка сохранения потока выключена, чтобы мерить только алгоритм.
func NewBenchmarkSolver() Solver {
	return solver{svc: service.NewSolverService("benchmark",
		service.WithSolverConfig(config.SolverConfig{VerifyConservation: false}),
	)}
}
