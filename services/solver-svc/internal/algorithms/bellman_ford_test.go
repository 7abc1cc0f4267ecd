package algorithms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/graph"
)

func TestInitialPotentials(t *testing.T) {
	tests := []struct {
		name       string
		buildGraph func() *graph.ResidualGraph
		expected   []int64
	}{
		{
			name: "negative edge shortcut",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(3)
				g.AddEdge(0, 1, 1, 4)
				g.AddEdge(0, 2, 1, 5)
				g.AddEdge(2, 1, 1, -3)
				return g
			},
			expected: []int64{0, 2, 5},
		},
		{
			name: "unreachable vertex",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(3)
				g.AddEdge(0, 1, 1, -1)
				return g
			},
			expected: []int64{0, -1, graph.Infinity},
		},
		{
			name: "reverse edges have no capacity",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(2)
				g.AddEdge(1, 0, 1, -5)
				return g
			},
			expected: []int64{0, graph.Infinity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := InitialPotentials(context.Background(), tt.buildGraph(), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table.Distances())
		})
	}
}

func TestInitialPotentials_NegativeCycle(t *testing.T) {
	tests := []struct {
		name       string
		buildGraph func() *graph.ResidualGraph
	}{
		{
			name: "two vertex cycle",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(4)
				g.AddEdge(0, 1, 1, 0)
				g.AddEdge(1, 2, 1, -3)
				g.AddEdge(2, 1, 1, 1)
				g.AddEdge(2, 3, 1, 0)
				return g
			},
		},
		{
			name: "negative self loop at source",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(2)
				g.AddEdge(0, 0, 1, -1)
				return g
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InitialPotentials(context.Background(), tt.buildGraph(), 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrNegativeCycle)
		})
	}
}

func TestInitialPotentials_UnreachableNegativeCycle(t *testing.T) {
	g := graph.NewResidualGraph(3)
	g.AddEdge(1, 2, 1, -3)
	g.AddEdge(2, 1, 1, 1)

	table, err := InitialPotentials(context.Background(), g, 0)
	require.NoError(t, err)
	assert.False(t, table.Reached(1))
}
