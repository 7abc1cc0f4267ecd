package algorithms

import (
	"container/heap"
	"context"

	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/graph"
)

// =============================================================================
// Dijkstra over Reduced Costs
// =============================================================================
//
// For an edge e = (u, v) with spare residual capacity the reduced cost is
//
//	cost(e) + potential[u] - potential[v]
//
// When the potentials are exact shortest distances from the previous round,
// every reduced cost is non-negative, so plain Dijkstra applies even though
// reverse edges carry negative costs.
//
// Time Complexity: O((V + E) log V) with a binary heap and decrease-key
// Space Complexity: O(V)
// =============================================================================

// ctxCheckInterval is how many settled vertices pass between context checks.
const ctxCheckInterval = 1024

// ShortestPathResult is the output of one shortest-path round.
type ShortestPathResult struct {
	// Reduced holds reduced distances and predecessor edges.
	Reduced *graph.DistanceTable

	// Potentials is the potential table the round was computed with.
	Potentials *graph.DistanceTable

	// Settled is the number of vertices popped from the queue.
	Settled int
}

// TrueDistance converts the reduced distance of v back to real edge costs.
func (r *ShortestPathResult) TrueDistance(v int) int64 {
	if !r.Reduced.Reached(v) {
		return graph.Infinity
	}
	s := r.Reduced.Source()
	return r.Reduced.Get(v) + r.Potentials.Get(v) - r.Potentials.Get(s)
}

// TrueDistances builds a fresh table holding true distances and the same
// predecessor edges. It becomes the potential table of the next round.
func (r *ShortestPathResult) TrueDistances() *graph.DistanceTable {
	n := r.Reduced.Len()
	table := graph.NewDistanceTable(n, r.Reduced.Source())
	for v := 0; v < n; v++ {
		if r.Reduced.Reached(v) {
			table.Set(v, r.TrueDistance(v), r.Reduced.Pred(v))
		}
	}
	return table
}

// priorityQueueItem represents a vertex in the priority queue.
type priorityQueueItem struct {
	vertex   int
	distance int64
	index    int // Index in the heap for updates
}

// priorityQueue implements heap.Interface. It is a min-heap on distance with
// ties broken by vertex index for determinism.
type priorityQueue []*priorityQueueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].distance != pq[j].distance {
		return pq[i].distance < pq[j].distance
	}
	return pq[i].vertex < pq[j].vertex
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*priorityQueueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // Avoid memory leak
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// update lowers the key of an item that is still in the queue.
func (pq *priorityQueue) update(item *priorityQueueItem, distance int64) {
	item.distance = distance
	heap.Fix(pq, item.index)
}

// ReducedCostDijkstra computes reduced shortest distances from source over
// edges with positive residual capacity.
//
// Edges into or out of a vertex whose potential is Infinity are skipped: such
// a vertex was unreachable in an earlier round and residual reachability only
// shrinks between rounds. A negative reduced cost means the potentials are not
// exact and is reported as a critical error.
func ReducedCostDijkstra(
	ctx context.Context,
	g *graph.ResidualGraph,
	source int,
	potentials *graph.DistanceTable,
) (*ShortestPathResult, error) {
	n := g.VertexCount()
	dist := graph.NewDistanceTable(n, source)

	items := make([]*priorityQueueItem, n)
	done := make([]bool, n)

	pq := make(priorityQueue, 0, n)
	items[source] = &priorityQueueItem{vertex: source, distance: 0}
	heap.Push(&pq, items[source])

	settled := 0
	for pq.Len() > 0 {
		if settled%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperror.FromContext(err)
			}
		}

		current := heap.Pop(&pq).(*priorityQueueItem)
		u := current.vertex
		done[u] = true
		settled++

		potU := potentials.Get(u)
		if potU == graph.Infinity {
			continue
		}

		for _, id := range g.EdgesFrom(u) {
			e := g.Edge(id)
			if !e.HasCapacity() || done[e.To] {
				continue
			}

			potV := potentials.Get(e.To)
			if potV == graph.Infinity {
				continue
			}

			reduced := e.Cost + potU - potV
			if reduced < 0 {
				return nil, internalFault(apperror.CodeAlgorithmError,
					"negative reduced cost %d on edge %d (%d->%d)", reduced, id, e.From, e.To).
					WithDetails("edge", int(id))
			}

			candidate := current.distance + reduced
			if candidate >= dist.Get(e.To) {
				continue
			}

			dist.Set(e.To, candidate, id)
			if items[e.To] == nil {
				items[e.To] = &priorityQueueItem{vertex: e.To, distance: candidate}
				heap.Push(&pq, items[e.To])
			} else {
				pq.update(items[e.To], candidate)
			}
		}
	}

	return &ShortestPathResult{
		Reduced:    dist,
		Potentials: potentials,
		Settled:    settled,
	}, nil
}
