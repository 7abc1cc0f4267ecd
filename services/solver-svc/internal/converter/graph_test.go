package converter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kflow/pkg/apperror"
	"kflow/pkg/domain"
	"kflow/services/solver-svc/internal/algorithms"
	"kflow/services/solver-svc/internal/graph"
)

func triangleProblem(mode domain.EdgeMode) *domain.Problem {
	p := domain.NewProblem(3, 2)
	p.Mode = mode
	p.AddEdge(0, 1, 1)
	p.AddEdge(1, 2, 2)
	p.AddEdge(0, 2, 5)
	return p
}

func TestBuild_Undirected(t *testing.T) {
	g, index, err := Build(triangleProblem(domain.ModeUndirected))
	require.NoError(t, err)

	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 12, g.EdgeCount())
	assert.Equal(t, 12, index.Len())
	assert.Equal(t, domain.ModeUndirected, index.Mode())

	// Второе прямое ребро строки идёт в обратную сторону
	e := g.Edge(2)
	assert.Equal(t, 1, e.From)
	assert.Equal(t, 0, e.To)
	assert.Equal(t, int64(1), e.Capacity)
	assert.Equal(t, int64(1), e.Cost)

	for id := 0; id < g.EdgeCount(); id++ {
		input, ok := index.InputOf(graph.EdgeID(id))
		require.True(t, ok)
		assert.Equal(t, id/domain.UndirectedStride+1, input, "edge %d", id)
	}
}

func TestBuild_Directed(t *testing.T) {
	g, index, err := Build(triangleProblem(domain.ModeDirected))
	require.NoError(t, err)

	assert.Equal(t, 6, g.EdgeCount())
	for id := 0; id < g.EdgeCount(); id++ {
		input, ok := index.InputOf(graph.EdgeID(id))
		require.True(t, ok)
		assert.Equal(t, id/domain.DirectedStride+1, input, "edge %d", id)
	}

	_, ok := index.InputOf(graph.EdgeID(6))
	assert.False(t, ok)
	_, ok = index.InputOf(graph.NoEdge)
	assert.False(t, ok)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		problem *domain.Problem
		code    apperror.ErrorCode
	}{
		{
			name:    "nil problem",
			problem: nil,
			code:    apperror.CodeNilInput,
		},
		{
			name: "vertex out of range",
			problem: func() *domain.Problem {
				p := domain.NewProblem(2, 1)
				p.AddEdge(0, 5, 1)
				return p
			}(),
			code: apperror.CodeInvalidGraph,
		},
		{
			name: "undirected negative cost",
			problem: func() *domain.Problem {
				p := domain.NewProblem(2, 1)
				p.AddEdge(0, 1, -3)
				return p
			}(),
			code: apperror.CodeInvalidGraph,
		},
		{
			name: "several problems",
			problem: func() *domain.Problem {
				p := domain.NewProblem(2, -1)
				p.AddEdge(0, 7, 1)
				return p
			}(),
			code: apperror.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, index, err := Build(tt.problem)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.Nil(t, index)
			assert.Equal(t, tt.code, apperror.Code(err))
		})
	}
}

func TestBuild_DirectedNegativeCostAccepted(t *testing.T) {
	p := domain.NewProblem(2, 1)
	p.Mode = domain.ModeDirected
	p.AddEdge(0, 1, -3)

	g, _, err := Build(p)
	require.NoError(t, err)
	assert.True(t, g.HasNegativeCost())
}

func TestToPaths(t *testing.T) {
	p := triangleProblem(domain.ModeUndirected)
	g, index, err := Build(p)
	require.NoError(t, err)

	res, err := algorithms.MinCostKFlow(context.Background(), g, p.Source, p.Sink, p.K, algorithms.DefaultSolverOptions())
	require.NoError(t, err)
	require.Equal(t, algorithms.StateDone, res.Status)
	assert.Equal(t, int64(8), res.Cost)

	flows := ToEdgeFlows(g, index)
	assert.Equal(t, map[int]int64{1: 1, 2: 1, 3: 1}, flows)

	raw, err := algorithms.DecomposePaths(g, p.Source, p.Sink, p.K)
	require.NoError(t, err)

	paths, err := ToPaths(g, index, p.Source, raw)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, []int{1, 2}, paths[0].Edges)
	assert.Equal(t, []int{1, 2, 3}, paths[0].Vertices)
	assert.Equal(t, int64(3), paths[0].Cost)

	assert.Equal(t, []int{3}, paths[1].Edges)
	assert.Equal(t, []int{1, 3}, paths[1].Vertices)
	assert.Equal(t, int64(5), paths[1].Cost)
}

func TestToPath_SourceIsSink(t *testing.T) {
	p := domain.NewProblem(1, 1)
	g, index, err := Build(p)
	require.NoError(t, err)

	path, err := ToPath(g, index, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, path.Edges)
	assert.Equal(t, []int{1}, path.Vertices)
	assert.Zero(t, path.Cost)
}

func TestToPath_UnknownEdge(t *testing.T) {
	g, index, err := Build(triangleProblem(domain.ModeDirected))
	require.NoError(t, err)

	_, err = ToPath(g, index, 0, []graph.EdgeID{42})
	assert.Equal(t, apperror.CodeInternal, apperror.Code(err))
}
