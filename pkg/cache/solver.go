package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kflow/pkg/domain"
)

// SolverCache типизированный кэш решений поверх Cache
type SolverCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// NewSolverCache создаёт кэш для решений
func NewSolverCache(cache Cache, defaultTTL time.Duration) *SolverCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &SolverCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Key возвращает ключ кэша для задачи
func (sc *SolverCache) Key(p *domain.Problem) string {
	return BuildSolveKey(p.Mode, ProblemHash(p))
}

// Get возвращает решение из кэша. Промах не является ошибкой.
func (sc *SolverCache) Get(ctx context.Context, p *domain.Problem) (*domain.Solution, bool, error) {
	key := sc.Key(p)

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var solution domain.Solution
	if err := json.Unmarshal(data, &solution); err != nil {
		// Повреждённая запись: удаляем, ошибку удаления игнорируем
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &solution, true, nil
}

// Set сохраняет решение в кэш
func (sc *SolverCache) Set(ctx context.Context, p *domain.Problem, solution *domain.Solution, ttl time.Duration) error {
	if solution == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	data, err := json.Marshal(solution)
	if err != nil {
		return fmt.Errorf("marshal solution: %w", err)
	}

	return sc.cache.Set(ctx, sc.Key(p), data, ttl)
}

// Invalidate удаляет решения задачи во всех режимах
func (sc *SolverCache) Invalidate(ctx context.Context, p *domain.Problem) error {
	_, err := sc.cache.DeleteByPattern(ctx, fmt.Sprintf("solve:*:%s", ProblemHash(p)))
	return err
}

// InvalidateAll удаляет все закэшированные решения
func (sc *SolverCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "solve:*")
}

// Stats возвращает статистику нижележащего кэша
func (sc *SolverCache) Stats(ctx context.Context) (*Stats, error) {
	return sc.cache.Stats(ctx)
}
