package algorithms

import (
	"context"

	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/graph"
)

// =============================================================================
// Bellman-Ford (queue-based)
// =============================================================================
//
// Computes the round-0 potentials when some forward edge has a negative cost.
// Dijkstra needs non-negative reduced costs from the very first round, and
// all-zero potentials only guarantee that for non-negative costs.
//
// The queue-based variant relaxes only vertices whose distance changed.
// A vertex whose shortest path would need n or more edges proves a negative
// cycle reachable from the source.
//
// Time Complexity: O(V * E) worst case
// Space Complexity: O(V)
// =============================================================================

// InitialPotentials returns exact shortest distances from source over edges
// with spare residual capacity. Unreachable vertices keep Infinity and no
// later round can reach them.
func InitialPotentials(ctx context.Context, g *graph.ResidualGraph, source int) (*graph.DistanceTable, error) {
	n := g.VertexCount()
	dist := graph.NewDistanceTable(n, source)

	// hops[v] is the edge count of the current best path to v
	hops := make([]int, n)
	inQueue := make([]bool, n)

	queue := graph.NewQueue(n)
	queue.Push(source)
	inQueue[source] = true

	relaxed := 0
	for !queue.Empty() {
		if relaxed%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperror.FromContext(err)
			}
		}

		u := queue.Pop()
		inQueue[u] = false
		relaxed++

		du := dist.Get(u)
		for _, id := range g.EdgesFrom(u) {
			e := g.Edge(id)
			if !e.HasCapacity() {
				continue
			}

			candidate := du + e.Cost
			if candidate >= dist.Get(e.To) {
				continue
			}

			dist.Set(e.To, candidate, id)
			hops[e.To] = hops[u] + 1
			if hops[e.To] >= n {
				return nil, apperror.Wrap(apperror.ErrNegativeCycle, apperror.CodeNegativeCycle,
					"negative cost cycle reachable from the source").
					WithDetails("vertex", e.To)
			}

			if !inQueue[e.To] {
				queue.Push(e.To)
				inQueue[e.To] = true
			}
		}
	}

	return dist, nil
}
