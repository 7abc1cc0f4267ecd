package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kflow/pkg/apperror"
	"kflow/pkg/cache"
	"kflow/pkg/config"
	"kflow/pkg/domain"
	"kflow/pkg/logger"
	"kflow/pkg/metrics"
	"kflow/pkg/telemetry"
	"kflow/services/solver-svc/internal/algorithms"
	"kflow/services/solver-svc/internal/converter"
	"kflow/services/solver-svc/internal/graph"
	"kflow/services/solver-svc/internal/repository"
)

// SolveResult результат одного вызова Solve
type SolveResult struct {
	RunID    string
	Solution *domain.Solution
	CacheHit bool
	// UsedBellmanFord начальные потенциалы считались Bellman-Ford
	UsedBellmanFord bool
	Duration        time.Duration
}

// Option настраивает SolverService
type Option func(*SolverService)

// WithCache включает кэш решений
func WithCache(c *cache.SolverCache) Option {
	return func(s *SolverService) { s.solverCache = c }
}

// WithHistory включает сохранение истории запусков
func WithHistory(repo repository.RunRepository) Option {
	return func(s *SolverService) { s.history = repo }
}

// WithMetrics задаёт коллекторы Prometheus
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SolverService) { s.metrics = m }
}

// WithSolverConfig задаёт параметры решателя
func WithSolverConfig(cfg config.SolverConfig) Option {
	return func(s *SolverService) { s.solverCfg = cfg }
}

type SolverService struct {
	version     string
	solverCfg   config.SolverConfig
	metrics     *metrics.Metrics
	solverCache *cache.SolverCache
	history     repository.RunRepository
}

func NewSolverService(version string, opts ...Option) *SolverService {
	s := &SolverService{
		version:   version,
		solverCfg: config.SolverConfig{VerifyConservation: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version возвращает версию сервиса
func (s *SolverService) Version() string {
	return s.version
}

// Solve решает задачу: кэш, построение графа, k раундов, декомпозиция, пути.
// Недостижимый поток не ошибка, а Solution.Feasible == false.
func (s *SolverService) Solve(ctx context.Context, p *domain.Problem) (*SolveResult, error) {
	if p == nil {
		return nil, apperror.ErrNilProblem
	}

	runID := uuid.New().String()
	log := logger.WithRun(runID)
	ctx = logger.IntoContext(ctx, log)

	ctx, span := telemetry.StartSpan(ctx, "SolverService.Solve",
		trace.WithAttributes(telemetry.ProblemAttributes(
			p.VertexCount, p.EdgeCount(), p.K, p.Source, p.Sink, p.Mode.String(),
		)...),
		trace.WithAttributes(attribute.String(telemetry.AttrRunID, runID)),
	)
	defer span.End()

	start := time.Now()
	result := &SolveResult{RunID: runID}

	// Проверяем кэш
	if s.solverCache != nil {
		cached, found, err := s.solverCache.Get(ctx, p)
		switch {
		case err != nil:
			log.Warn("cache lookup failed", "error", err)
		case found:
			s.metrics.RecordCacheHit()
			telemetry.AddEvent(ctx, "cache_hit",
				attribute.String(telemetry.AttrCacheKey, s.solverCache.Key(p)),
			)
			span.SetAttributes(attribute.Bool("cache_hit", true))

			result.Solution = cached
			result.CacheHit = true
			result.Duration = time.Since(start)

			log.Debug("solution served from cache", "feasible", cached.Feasible)
			s.saveRun(ctx, p, result)
			return result, nil
		default:
			s.metrics.RecordCacheMiss()
		}
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))

	solution, usedBF, err := s.compute(ctx, p)
	result.Duration = time.Since(start)
	if err != nil {
		s.metrics.RecordSolve(metrics.StatusError, result.Duration, 0)
		telemetry.SetError(ctx, err)
		log.Error("solve failed",
			"error", err,
			"code", apperror.Code(err),
			"critical", apperror.IsCritical(err),
			"vertices", p.VertexCount,
			"edges", p.EdgeCount(),
			"k", p.K,
		)
		return nil, err
	}

	solution.ComputationTime = result.Duration
	result.Solution = solution
	result.UsedBellmanFord = usedBF

	span.SetAttributes(telemetry.FlowAttributes(solution.Rounds, solution.TotalCost, solution.Feasible, usedBF)...)
	span.SetAttributes(attribute.Int(telemetry.AttrPathsFound, len(solution.Paths)))

	if solution.Feasible {
		s.metrics.RecordSolve(metrics.StatusOK, result.Duration, solution.Rounds)
		log.Info("solved",
			"k", solution.K,
			"total_cost", solution.TotalCost,
			"rounds", solution.Rounds,
			"duration", result.Duration,
		)
	} else {
		s.metrics.RecordSolve(metrics.StatusInfeasible, result.Duration, solution.Rounds)
		telemetry.AddEvent(ctx, "infeasible", attribute.Int(telemetry.AttrRounds, solution.Rounds))
		log.Warn("required flow is not achievable",
			"k", p.K,
			"pushed", solution.Rounds,
			"sink_reachable", domain.SinkReachable(p),
			"flow_upper_bound", domain.FlowUpperBound(p),
		)
	}

	if s.solverCache != nil {
		if err := s.solverCache.Set(ctx, p, solution, 0); err != nil {
			log.Warn("failed to cache solution", "error", err)
		}
	}

	s.saveRun(ctx, p, result)
	return result, nil
}

// compute строит граф, запускает k раундов и раскладывает поток на пути
func (s *SolverService) compute(ctx context.Context, p *domain.Problem) (*domain.Solution, bool, error) {
	g, index, err := converter.Build(p)
	if err != nil {
		return nil, false, err
	}
	s.metrics.RecordGraphSize(p.VertexCount, p.EdgeCount())

	opts := algorithms.DefaultSolverOptions().
		WithTrackDistances(s.solverCfg.TrackDistances).
		WithInvariantChecks(s.solverCfg.VerifyConservation).
		WithTimeout(s.solverCfg.Timeout)

	var res *algorithms.FlowResult
	err = telemetry.WithSpan(ctx, "algorithms.MinCostKFlow", func(ctx context.Context) error {
		var runErr error
		res, runErr = algorithms.MinCostKFlow(ctx, g, p.Source, p.Sink, p.K, opts)
		return runErr
	})
	if err != nil {
		return nil, false, err
	}

	if res.Status == algorithms.StateInfeasible {
		return domain.InfeasibleSolution(p.K, res.Rounds), res.UsedBellmanFord, nil
	}

	if s.solverCfg.VerifyConservation {
		if err := verifyFlow(g, p); err != nil {
			return nil, false, err
		}
	}

	// Поток по входным рёбрам снимаем до того, как декомпозиция его израсходует
	edgeFlows := converter.ToEdgeFlows(g, index)

	var paths [][]graph.EdgeID
	err = telemetry.WithSpan(ctx, "algorithms.DecomposePaths", func(ctx context.Context) error {
		var decErr error
		paths, decErr = algorithms.DecomposePaths(g, p.Source, p.Sink, p.K)
		return decErr
	})
	if err != nil {
		s.metrics.RecordDecompositionFailure()
		return nil, false, err
	}

	domainPaths, err := converter.ToPaths(g, index, p.Source, paths)
	if err != nil {
		return nil, false, err
	}

	return &domain.Solution{
		Feasible:    true,
		K:           p.K,
		TotalCost:   res.Cost,
		AverageCost: domain.AverageOf(res.Cost, p.K),
		Paths:       domainPaths,
		EdgeFlows:   edgeFlows,
		Rounds:      res.Rounds,
	}, res.UsedBellmanFord, nil
}

// verifyFlow проверяет сохранение потока и границы пропускной способности
func verifyFlow(g *graph.ResidualGraph, p *domain.Problem) error {
	if err := g.CheckConservation(p.Source, p.Sink, int64(p.K)); err != nil {
		return apperror.Wrap(err, apperror.CodeConservationViolation, "flow conservation violated").
			WithSeverity(apperror.SeverityCritical)
	}
	if err := g.CheckCapacity(); err != nil {
		return apperror.Wrap(err, apperror.CodeConservationViolation, "capacity bound violated").
			WithSeverity(apperror.SeverityCritical)
	}
	return nil
}

// saveRun сохраняет запуск в историю. Ошибка только логируется.
func (s *SolverService) saveRun(ctx context.Context, p *domain.Problem, result *SolveResult) {
	if s.history == nil {
		return
	}

	run := repository.NewRun(p, result.Solution, cache.ProblemHash(p))
	run.ID = result.RunID
	if result.CacheHit {
		run.DurationMs = float64(result.Duration.Microseconds()) / 1000
	}

	if err := s.history.Save(ctx, run); err != nil {
		logger.FromContext(ctx).Warn("failed to save run history", "error", err)
	}
}
