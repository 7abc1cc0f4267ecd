package graph

// =============================================================================
// Queue Implementation
// =============================================================================

// Queue is a FIFO of vertices backed by a slice with a head index.
// Reset keeps the underlying storage for reuse.
type Queue struct {
	items []int
	head  int
}

// NewQueue creates a queue with room for capacity vertices.
func NewQueue(capacity int) *Queue {
	return &Queue{items: make([]int, 0, capacity)}
}

// Push appends v.
func (q *Queue) Push(v int) {
	q.items = append(q.items, v)
}

// Pop removes and returns the front vertex. Panics on an empty queue.
func (q *Queue) Pop() int {
	v := q.items[q.head]
	q.head++
	return v
}

// Empty reports whether the queue has no vertices.
func (q *Queue) Empty() bool {
	return q.head >= len(q.items)
}

// Len returns the number of queued vertices.
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Reset clears the queue.
func (q *Queue) Reset() {
	q.items = q.items[:0]
	q.head = 0
}

// =============================================================================
// Reachability
// =============================================================================

// ReachableResidual returns the vertices reachable from source over edges
// with positive residual capacity, visiting adjacency lists in insertion order.
func ReachableResidual(g *ResidualGraph, source int) []bool {
	return reachable(g, source, (*Edge).HasCapacity)
}

// ReachableByFlow returns the vertices reachable from source over edges that
// carry positive flow.
func ReachableByFlow(g *ResidualGraph, source int) []bool {
	return reachable(g, source, func(e *Edge) bool { return e.Flow > 0 })
}

func reachable(g *ResidualGraph, source int, usable func(*Edge) bool) []bool {
	visited := make([]bool, g.VertexCount())
	if source < 0 || source >= len(visited) {
		return visited
	}

	queue := NewQueue(len(visited))
	queue.Push(source)
	visited[source] = true

	for !queue.Empty() {
		u := queue.Pop()
		for _, id := range g.EdgesFrom(u) {
			e := g.Edge(id)
			if visited[e.To] || !usable(e) {
				continue
			}
			visited[e.To] = true
			queue.Push(e.To)
		}
	}

	return visited
}
