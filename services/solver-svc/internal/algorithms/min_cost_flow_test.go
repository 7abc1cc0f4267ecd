package algorithms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/graph"
)

// addUndirected adds both directions of a unit-capacity input edge.
func addUndirected(g *graph.ResidualGraph, u, v int, cost int64) {
	g.AddEdge(u, v, 1, cost)
	g.AddEdge(v, u, 1, cost)
}

func TestMinCostKFlow(t *testing.T) {
	tests := []struct {
		name       string
		buildGraph func() *graph.ResidualGraph
		source     int
		sink       int
		k          int
		wantStatus FlowState
		wantFlow   int64
		wantCost   int64
		wantBF     bool
	}{
		{
			name: "triangle_two_units",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(4)
				addUndirected(g, 0, 1, 1)
				addUndirected(g, 1, 2, 2)
				addUndirected(g, 0, 2, 5)
				return g
			},
			source:     0,
			sink:       2,
			k:          2,
			wantStatus: StateDone,
			wantFlow:   2,
			wantCost:   8, // 0-1-2 (3) и 0-2 (5)
		},
		{
			name: "choose_cheaper_path",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(4)
				g.AddEdge(0, 1, 1, 3)
				g.AddEdge(1, 3, 1, 7)
				g.AddEdge(0, 2, 1, 2)
				g.AddEdge(2, 3, 1, 3)
				return g
			},
			source:     0,
			sink:       3,
			k:          1,
			wantStatus: StateDone,
			wantFlow:   1,
			wantCost:   5,
		},
		{
			name: "use_both_paths",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(4)
				g.AddEdge(0, 1, 1, 3)
				g.AddEdge(1, 3, 1, 7)
				g.AddEdge(0, 2, 1, 2)
				g.AddEdge(2, 3, 1, 3)
				return g
			},
			source:     0,
			sink:       3,
			k:          2,
			wantStatus: StateDone,
			wantFlow:   2,
			wantCost:   15,
		},
		{
			name: "reroute_through_reverse_edge",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(4)
				g.AddEdge(0, 1, 1, 1)
				g.AddEdge(1, 2, 1, 1)
				g.AddEdge(2, 3, 1, 1)
				g.AddEdge(0, 2, 1, 10)
				g.AddEdge(1, 3, 1, 10)
				return g
			},
			source:     0,
			sink:       3,
			k:          2,
			wantStatus: StateDone,
			wantFlow:   2,
			wantCost:   22, // 3 + (10 - 1 + 10)
		},
		{
			name: "k_exceeds_max_flow",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(2)
				g.AddEdge(0, 1, 1, 4)
				return g
			},
			source:     0,
			sink:       1,
			k:          2,
			wantStatus: StateInfeasible,
			wantFlow:   1,
		},
		{
			name: "disconnected",
			buildGraph: func() *graph.ResidualGraph {
				return graph.NewResidualGraph(3)
			},
			source:     0,
			sink:       2,
			k:          1,
			wantStatus: StateInfeasible,
			wantFlow:   0,
		},
		{
			name: "k_zero",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(2)
				g.AddEdge(0, 1, 1, 4)
				return g
			},
			source:     0,
			sink:       1,
			k:          0,
			wantStatus: StateDone,
			wantFlow:   0,
			wantCost:   0,
		},
		{
			name: "source_equals_sink",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(2)
				addUndirected(g, 0, 1, 4)
				return g
			},
			source:     0,
			sink:       0,
			k:          3,
			wantStatus: StateDone,
			wantFlow:   3,
			wantCost:   0,
		},
		{
			name: "negative_costs_use_bellman_ford",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(3)
				g.AddEdge(0, 1, 1, -2)
				g.AddEdge(1, 2, 1, 1)
				g.AddEdge(0, 2, 1, 0)
				return g
			},
			source:     0,
			sink:       2,
			k:          2,
			wantStatus: StateDone,
			wantFlow:   2,
			wantCost:   -1,
			wantBF:     true,
		},
		{
			name: "capacity_above_one",
			buildGraph: func() *graph.ResidualGraph {
				g := graph.NewResidualGraph(3)
				g.AddEdge(0, 1, 3, 1)
				g.AddEdge(1, 2, 2, 1)
				g.AddEdge(0, 2, 5, 4)
				return g
			},
			source:     0,
			sink:       2,
			k:          4,
			wantStatus: StateDone,
			wantFlow:   4,
			wantCost:   12, // 2*2 + 2*4
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.buildGraph()
			opts := DefaultSolverOptions().WithInvariantChecks(true)

			res, err := MinCostKFlow(context.Background(), g, tt.source, tt.sink, tt.k, opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantFlow, res.Flow)
			assert.Equal(t, tt.wantBF, res.UsedBellmanFord)
			if tt.wantStatus == StateDone {
				assert.Equal(t, tt.wantCost, res.Cost)
				assert.Equal(t, int(tt.wantFlow), res.Rounds)
				if tt.source != tt.sink {
					assert.Equal(t, tt.wantCost, g.TotalCost(), "accumulated cost must match flow*cost")
				}
			}

			require.NoError(t, g.CheckCapacity())
			require.NoError(t, g.CheckConservation(tt.source, tt.sink, res.Flow))
		})
	}
}

func TestMinCostKFlow_Histories(t *testing.T) {
	g := graph.NewResidualGraph(4)
	g.AddEdge(0, 1, 1, 1)
	g.AddEdge(1, 2, 1, 1)
	g.AddEdge(2, 3, 1, 1)
	g.AddEdge(0, 2, 1, 10)
	g.AddEdge(1, 3, 1, 10)

	opts := DefaultSolverOptions().WithTrackDistances(true).WithRoundPaths(true)
	res, err := MinCostKFlow(context.Background(), g, 0, 3, 2, opts)
	require.NoError(t, err)

	require.Len(t, res.Distances, 2)
	require.Len(t, res.RoundPaths, 2)

	assert.Equal(t, int64(3), res.Distances[0].Get(3))
	assert.Equal(t, int64(19), res.Distances[1].Get(3))
	assert.Equal(t, []graph.EdgeID{0, 2, 4}, res.RoundPaths[0])
	// Второй раунд проходит по обратному ребру 2->1
	assert.Equal(t, []graph.EdgeID{6, 3, 8}, res.RoundPaths[1])
}

func TestMinCostKFlow_InvalidInput(t *testing.T) {
	g := graph.NewResidualGraph(2)

	tests := []struct {
		name   string
		g      *graph.ResidualGraph
		source int
		sink   int
		k      int
		code   apperror.ErrorCode
	}{
		{"nil graph", nil, 0, 1, 1, apperror.CodeNilInput},
		{"source out of range", g, -1, 1, 1, apperror.CodeInvalidVertex},
		{"sink out of range", g, 0, 2, 1, apperror.CodeInvalidVertex},
		{"negative k", g, 0, 1, -1, apperror.CodeInvalidDemand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MinCostKFlow(context.Background(), tt.g, tt.source, tt.sink, tt.k, nil)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestMinCostKFlow_NegativeCycle(t *testing.T) {
	g := graph.NewResidualGraph(4)
	g.AddEdge(0, 1, 1, 0)
	g.AddEdge(1, 2, 1, -3)
	g.AddEdge(2, 1, 1, 1)
	g.AddEdge(2, 3, 1, 0)

	res, err := MinCostKFlow(context.Background(), g, 0, 3, 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNegativeCycle)
	assert.Equal(t, int64(0), res.Flow)
}

func TestMinCostKFlow_Cancelled(t *testing.T) {
	g := graph.NewResidualGraph(2)
	g.AddEdge(0, 1, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := MinCostKFlow(ctx, g, 0, 1, 1, nil)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeCancelled))
	assert.Equal(t, StateAugmenting, res.Status)
}

func TestMinCostKFlow_DeadlineExceeded(t *testing.T) {
	g := graph.NewResidualGraph(2)
	g.AddEdge(0, 1, 1, 1)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	opts := DefaultSolverOptions().WithTimeout(time.Minute)
	_, err := MinCostKFlow(ctx, g, 0, 1, 1, opts)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeTimeout))
}

func TestFlowState_String(t *testing.T) {
	assert.Equal(t, "augmenting", StateAugmenting.String())
	assert.Equal(t, "infeasible", StateInfeasible.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", FlowState(9).String())
}
