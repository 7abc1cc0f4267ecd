package converter

import (
	"kflow/pkg/apperror"
	"kflow/pkg/domain"
	"kflow/services/solver-svc/internal/graph"
)

// EdgeIndex хранит соответствие внутренних рёбер входным рёбрам.
// Каждое внутреннее ребро (прямое и обратное) знает 1-based номер строки входа.
type EdgeIndex struct {
	mode    domain.EdgeMode
	inputOf []int
}

// InputOf возвращает 1-based номер входного ребра для внутреннего ребра
func (x *EdgeIndex) InputOf(id graph.EdgeID) (int, bool) {
	if id < 0 || int(id) >= len(x.inputOf) {
		return 0, false
	}
	return x.inputOf[id], true
}

// Len возвращает количество внутренних рёбер
func (x *EdgeIndex) Len() int {
	return len(x.inputOf)
}

// Mode возвращает режим раскрытия рёбер
func (x *EdgeIndex) Mode() domain.EdgeMode {
	return x.mode
}

func (x *EdgeIndex) record(id graph.EdgeID, input int) {
	for int(id)+1 >= len(x.inputOf) {
		x.inputOf = append(x.inputOf, 0)
	}
	x.inputOf[id] = input
	x.inputOf[graph.ReverseID(id)] = input
}

// Build строит остаточную сеть по задаче.
// В неориентированном режиме каждая строка входа даёт два единичных ребра
// u->v и v->u (4 записи), в ориентированном одно ребро u->v (2 записи).
func Build(p *domain.Problem) (*graph.ResidualGraph, *EdgeIndex, error) {
	if p == nil {
		return nil, nil, apperror.ErrNilProblem
	}

	if errs := p.Validate(); len(errs) > 0 {
		ve := apperror.NewValidationErrors()
		for _, err := range errs {
			ve.AddError(apperror.CodeInvalidGraph, err.Error())
		}
		return nil, nil, ve.Err()
	}

	stride := p.Mode.Stride()
	g := graph.NewResidualGraphWithCapacity(p.VertexCount, len(p.Edges)*stride)
	index := &EdgeIndex{
		mode:    p.Mode,
		inputOf: make([]int, 0, len(p.Edges)*stride),
	}

	for _, e := range p.Edges {
		id := g.AddEdge(e.From, e.To, domain.UnitCapacity, e.Cost)
		index.record(id, e.Index)

		if p.Mode == domain.ModeUndirected {
			id = g.AddEdge(e.To, e.From, domain.UnitCapacity, e.Cost)
			index.record(id, e.Index)
		}
	}

	return g, index, nil
}

// ToPath переводит путь из внутренних рёбер в доменный путь:
// номера входных рёбер, вершины (1-based) и стоимость
func ToPath(g *graph.ResidualGraph, index *EdgeIndex, source int, path []graph.EdgeID) (domain.Path, error) {
	result := domain.Path{
		Edges:    make([]int, 0, len(path)),
		Vertices: make([]int, 0, len(path)+1),
	}

	for _, id := range path {
		input, ok := index.InputOf(id)
		if !ok {
			return domain.Path{}, apperror.Newf(apperror.CodeInternal, "edge %d has no input mapping", id)
		}
		result.Edges = append(result.Edges, input)
	}

	for _, v := range graph.PathVertices(g, source, path) {
		result.Vertices = append(result.Vertices, v+1)
	}
	result.Cost = graph.PathCost(g, path)

	return result, nil
}

// ToPaths переводит все пути декомпозиции
func ToPaths(g *graph.ResidualGraph, index *EdgeIndex, source int, paths [][]graph.EdgeID) ([]domain.Path, error) {
	result := make([]domain.Path, 0, len(paths))
	for _, p := range paths {
		path, err := ToPath(g, index, source, p)
		if err != nil {
			return nil, err
		}
		result = append(result, path)
	}
	return result, nil
}

// ToEdgeFlows собирает поток по входным рёбрам (номер входа -> единицы).
// Учитываются только прямые рёбра с положительным потоком.
func ToEdgeFlows(g *graph.ResidualGraph, index *EdgeIndex) map[int]int64 {
	flows := make(map[int]int64)
	for _, e := range g.ForwardEdges() {
		if e.Flow <= 0 {
			continue
		}
		if input, ok := index.InputOf(e.ID); ok {
			flows[input] += e.Flow
		}
	}
	return flows
}
