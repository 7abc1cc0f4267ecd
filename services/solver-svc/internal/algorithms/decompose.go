package algorithms

import (
	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/graph"
)

// dfsFrame is one vertex on the explicit DFS stack.
type dfsFrame struct {
	vertex int
	next   int          // next adjacency position to try
	via    graph.EdgeID // edge that entered vertex
}

// DecomposePaths peels k source→sink unit paths off the flow left by
// MinCostKFlow. Every extraction is a fresh depth-first search over edges
// with positive flow, after which one unit is removed from each edge on the
// path so later extractions only see the remaining flow.
//
// The search keeps its own stack, so depth is bounded by memory and not by
// the goroutine stack. When source == sink every path is empty.
//
// Failing to find a path after a feasible k-unit flow means flow conservation
// was broken; it returns a critical CodeConservationViolation error.
func DecomposePaths(g *graph.ResidualGraph, source, sink, k int) ([][]graph.EdgeID, error) {
	if err := validateGraph(g, source, sink); err != nil {
		return nil, err
	}

	paths := make([][]graph.EdgeID, 0, k)
	visited := make([]bool, g.VertexCount())
	stack := make([]dfsFrame, 0, g.VertexCount())

	for i := 0; i < k; i++ {
		clear(visited)

		path, ok := extractPath(g, source, sink, visited, stack[:0])
		if !ok {
			return paths, internalFault(apperror.CodeConservationViolation,
				"path %d of %d: no source-to-sink path over positive flow", i+1, k).
				WithDetails("extracted", i).
				WithDetails("required", k)
		}

		for _, id := range path {
			g.PushFlow(id, -1)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// extractPath runs one iterative DFS and returns the edge ids of the first
// source→sink path found over edges with positive flow.
func extractPath(g *graph.ResidualGraph, source, sink int, visited []bool, stack []dfsFrame) ([]graph.EdgeID, bool) {
	stack = append(stack, dfsFrame{vertex: source, via: graph.NoEdge})
	visited[source] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.vertex == sink {
			path := make([]graph.EdgeID, 0, len(stack)-1)
			for _, f := range stack[1:] {
				path = append(path, f.via)
			}
			return path, true
		}

		adj := g.EdgesFrom(top.vertex)
		advanced := false
		for top.next < len(adj) {
			id := adj[top.next]
			top.next++

			e := g.Edge(id)
			if e.Flow <= 0 || visited[e.To] {
				continue
			}

			visited[e.To] = true
			stack = append(stack, dfsFrame{vertex: e.To, via: id})
			advanced = true
			break
		}

		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}

	return nil, false
}

// PathFlowTotals sums, per edge id, the units consumed by paths.
func PathFlowTotals(edgeCount int, paths [][]graph.EdgeID) []int64 {
	totals := make([]int64, edgeCount)
	for _, p := range paths {
		for _, id := range p {
			totals[id]++
		}
	}
	return totals
}
