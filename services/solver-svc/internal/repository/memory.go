package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRunRepository хранит историю в памяти процесса
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*memoryRun
	seq  uint64
}

type memoryRun struct {
	run *Run
	seq uint64
}

// NewMemoryRunRepository создаёт пустой репозиторий
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{runs: make(map[string]*memoryRun)}
}

func (r *MemoryRunRepository) Save(_ context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	r.seq++
	r.runs[run.ID] = &memoryRun{run: copyRun(run), seq: r.seq}
	return nil
}

func (r *MemoryRunRepository) Get(_ context.Context, id string) (*Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return copyRun(stored.run), nil
}

func (r *MemoryRunRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[id]; !ok {
		return ErrRunNotFound
	}
	delete(r.runs, id)
	return nil
}

func (r *MemoryRunRepository) List(_ context.Context, opts *ListOptions) ([]*RunSummary, int64, error) {
	o := opts.normalize()

	r.mu.RLock()
	all := make([]*memoryRun, 0, len(r.runs))
	for _, stored := range r.runs {
		all = append(all, stored)
	}
	r.mu.RUnlock()

	// Новые первыми, при равном времени по порядку сохранения
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.run.CreatedAt.Equal(b.run.CreatedAt) {
			return a.run.CreatedAt.After(b.run.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := int64(len(all))
	if o.Offset >= len(all) {
		return []*RunSummary{}, total, nil
	}
	end := o.Offset + o.Limit
	if end > len(all) {
		end = len(all)
	}

	results := make([]*RunSummary, 0, end-o.Offset)
	for _, stored := range all[o.Offset:end] {
		results = append(results, stored.run.Summary())
	}
	return results, total, nil
}

func (r *MemoryRunRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.runs)), nil
}

func copyRun(run *Run) *Run {
	clone := *run
	if run.Solution != nil {
		clone.Solution = run.Solution.Clone()
	}
	return &clone
}
