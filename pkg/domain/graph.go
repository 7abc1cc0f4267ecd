package domain

import (
	"fmt"
)

// InputEdge ребро из входных данных
type InputEdge struct {
	// Index 1-based номер строки во входе
	Index int   `json:"index"`
	From  int   `json:"from"`
	To    int   `json:"to"`
	Cost  int64 `json:"cost"`
}

// String возвращает строковое представление ребра (вершины 1-based)
func (e InputEdge) String() string {
	return fmt.Sprintf("#%d %d->%d (%d)", e.Index, e.From+1, e.To+1, e.Cost)
}

// Problem задача поиска k единиц потока минимальной стоимости.
// Вершины хранятся 0-based.
type Problem struct {
	Name        string      `json:"name,omitempty"`
	VertexCount int         `json:"vertex_count"`
	K           int         `json:"k"`
	Source      int         `json:"source"`
	Sink        int         `json:"sink"`
	Mode        EdgeMode    `json:"mode"`
	Edges       []InputEdge `json:"edges"`
}

// NewProblem создаёт задачу с source = 0 и sink = n-1
func NewProblem(n, k int) *Problem {
	sink := n - 1
	if sink < 0 {
		sink = 0
	}
	return &Problem{
		VertexCount: n,
		K:           k,
		Source:      0,
		Sink:        sink,
		Mode:        ModeUndirected,
	}
}

// AddEdge добавляет входное ребро и присваивает ему следующий номер
func (p *Problem) AddEdge(from, to int, cost int64) InputEdge {
	e := InputEdge{
		Index: len(p.Edges) + 1,
		From:  from,
		To:    to,
		Cost:  cost,
	}
	p.Edges = append(p.Edges, e)
	return e
}

// EdgeCount возвращает количество входных рёбер
func (p *Problem) EdgeCount() int {
	return len(p.Edges)
}

// HasNegativeCost проверяет наличие рёбер с отрицательной стоимостью
func (p *Problem) HasNegativeCost() bool {
	for _, e := range p.Edges {
		if e.Cost < 0 {
			return true
		}
	}
	return false
}

// Clone создаёт глубокую копию задачи
func (p *Problem) Clone() *Problem {
	clone := *p
	clone.Edges = make([]InputEdge, len(p.Edges))
	copy(clone.Edges, p.Edges)
	return &clone
}

// Validate проверяет корректность задачи
func (p *Problem) Validate() []error {
	var errs []error

	if p.VertexCount < 1 {
		errs = append(errs, fmt.Errorf("vertex count must be positive, got %d", p.VertexCount))
	}
	if p.VertexCount > MaxVertices {
		errs = append(errs, fmt.Errorf("vertex count %d exceeds limit %d", p.VertexCount, MaxVertices))
	}
	if len(p.Edges) > MaxEdges {
		errs = append(errs, fmt.Errorf("edge count %d exceeds limit %d", len(p.Edges), MaxEdges))
	}
	if p.K < 0 {
		errs = append(errs, fmt.Errorf("required flow must be non-negative, got %d", p.K))
	}
	if p.K > MaxDemand {
		errs = append(errs, fmt.Errorf("required flow %d exceeds limit %d", p.K, MaxDemand))
	}
	if !p.inRange(p.Source) {
		errs = append(errs, fmt.Errorf("source vertex %d out of range [1, %d]", p.Source+1, p.VertexCount))
	}
	if !p.inRange(p.Sink) {
		errs = append(errs, fmt.Errorf("sink vertex %d out of range [1, %d]", p.Sink+1, p.VertexCount))
	}

	costLimit := MaxAbsCost(p.VertexCount, len(p.Edges))
	for _, e := range p.Edges {
		if !CostInRange(e.Cost, p.VertexCount, len(p.Edges)) {
			errs = append(errs, fmt.Errorf("edge %d: cost %d outside [-%d, %d]", e.Index, e.Cost, costLimit, costLimit))
		}
		if !p.inRange(e.From) {
			errs = append(errs, fmt.Errorf("edge %d references vertex %d out of range", e.Index, e.From+1))
		}
		if !p.inRange(e.To) {
			errs = append(errs, fmt.Errorf("edge %d references vertex %d out of range", e.Index, e.To+1))
		}
		// Неориентированное ребро с отрицательной стоимостью образует отрицательный цикл
		if p.Mode == ModeUndirected && e.Cost < 0 {
			errs = append(errs, fmt.Errorf("edge %d: undirected edge has negative cost %d", e.Index, e.Cost))
		}
	}

	return errs
}

func (p *Problem) inRange(v int) bool {
	return v >= 0 && v < p.VertexCount
}
