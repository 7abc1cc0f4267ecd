// Package graph provides the data structures shared by the flow algorithms:
// the residual graph over a flat edge arena, the per-round distance table and
// path helpers.
package graph

import (
	"fmt"

	"kflow/pkg/domain"
)

// =============================================================================
// Constants
// =============================================================================

// Infinity marks an unreachable vertex in a distance table.
const Infinity = domain.Infinity

// EdgeID is the position of an edge in the residual graph's arena.
type EdgeID int

// NoEdge is the predecessor of the source and of unreached vertices.
const NoEdge EdgeID = domain.NoEdge

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed arc of the residual graph.
//
// Every call to AddEdge allocates two edges next to each other:
//   - the forward edge at an even id with the requested capacity and cost
//   - the reverse edge at the following odd id with capacity 0 and negated cost
//
// Flow on the pair always satisfies Flow(forward) == -Flow(reverse), so the
// residual capacity of the reverse edge equals the flow on the forward one.
type Edge struct {
	ID       EdgeID
	From     int
	To       int
	Flow     int64
	Capacity int64
	Cost     int64
}

// Residual returns capacity minus flow.
func (e *Edge) Residual() int64 {
	return e.Capacity - e.Flow
}

// HasCapacity reports whether at least one more unit fits through the edge.
func (e *Edge) HasCapacity() bool {
	return e.Capacity-e.Flow > 0
}

// IsReverse reports whether the edge is the reverse half of a pair.
func (e *Edge) IsReverse() bool {
	return e.ID&1 == 1
}

// String returns a compact description for logs and test failures.
func (e *Edge) String() string {
	return fmt.Sprintf("e%d %d->%d flow=%d/%d cost=%d", e.ID, e.From, e.To, e.Flow, e.Capacity, e.Cost)
}

// =============================================================================
// Residual Graph
// =============================================================================

// ResidualGraph stores a capacitated directed multigraph together with the
// live flow on every edge.
//
// # Edge Storage
//
// Edges live in a single slice indexed by EdgeID. The reverse of edge i is
// i^1, so reverse lookup is an index computation and never a pointer.
//
// # Determinism
//
// adj[v] lists the ids of edges leaving v in insertion order. Algorithms that
// iterate adjacency lists in this order produce the same result on every run.
//
// # Lifecycle
//
// The vertex count is fixed at construction. Edges are added while building
// the graph; after the first flow mutation the graph is only changed through
// PushFlow. The graph is not safe for concurrent use.
type ResidualGraph struct {
	edges []Edge
	adj   [][]EdgeID
}

// NewResidualGraph creates a graph with n vertices and no edges.
func NewResidualGraph(n int) *ResidualGraph {
	if n < 0 {
		n = 0
	}
	return &ResidualGraph{
		adj: make([][]EdgeID, n),
	}
}

// NewResidualGraphWithCapacity pre-allocates the arena for m AddEdge calls.
func NewResidualGraphWithCapacity(n, m int) *ResidualGraph {
	g := NewResidualGraph(n)
	if m > 0 {
		g.edges = make([]Edge, 0, 2*m)
	}
	return g
}

// VertexCount returns the number of vertices.
func (g *ResidualGraph) VertexCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of edges in the arena, reverse edges included.
func (g *ResidualGraph) EdgeCount() int {
	return len(g.edges)
}

// AddEdge appends a forward/reverse pair and returns the forward edge's id.
//
// The forward edge from→to gets the given capacity and cost, the reverse edge
// to→from gets capacity 0 and cost -cost. Both adjacency lists are extended.
// Vertices must be in [0, VertexCount()).
func (g *ResidualGraph) AddEdge(from, to int, capacity, cost int64) EdgeID {
	id := EdgeID(len(g.edges))

	g.edges = append(g.edges,
		Edge{ID: id, From: from, To: to, Capacity: capacity, Cost: cost},
		Edge{ID: id + 1, From: to, To: from, Capacity: 0, Cost: -cost},
	)

	g.adj[from] = append(g.adj[from], id)
	g.adj[to] = append(g.adj[to], id+1)

	return id
}

// Edge returns the edge with the given id.
func (g *ResidualGraph) Edge(id EdgeID) *Edge {
	return &g.edges[id]
}

// EdgeAt returns the i-th edge leaving vertex v in insertion order.
func (g *ResidualGraph) EdgeAt(v, i int) *Edge {
	return &g.edges[g.adj[v][i]]
}

// Degree returns the number of edges leaving v, reverse edges included.
func (g *ResidualGraph) Degree(v int) int {
	return len(g.adj[v])
}

// EdgesFrom returns the ids of edges leaving v in insertion order.
// The returned slice is owned by the graph and must not be modified.
func (g *ResidualGraph) EdgesFrom(v int) []EdgeID {
	return g.adj[v]
}

// ReverseID returns the id of the edge created in the same AddEdge call.
func ReverseID(id EdgeID) EdgeID {
	return id ^ 1
}

// ReverseOf returns the partner of edge id.
func (g *ResidualGraph) ReverseOf(id EdgeID) *Edge {
	return &g.edges[id^1]
}

// PushFlow adds amount to the flow of edge id and subtracts it from the
// reverse edge. Capacity bounds are the caller's responsibility.
func (g *ResidualGraph) PushFlow(id EdgeID, amount int64) {
	g.edges[id].Flow += amount
	g.edges[id^1].Flow -= amount
}

// =============================================================================
// Inspection
// =============================================================================

// ForwardEdges returns copies of all forward edges in id order.
func (g *ResidualGraph) ForwardEdges() []Edge {
	result := make([]Edge, 0, len(g.edges)/2)
	for i := 0; i < len(g.edges); i += 2 {
		result = append(result, g.edges[i])
	}
	return result
}

// FlowSnapshot returns the flow of every edge indexed by id.
func (g *ResidualGraph) FlowSnapshot() []int64 {
	flows := make([]int64, len(g.edges))
	for i := range g.edges {
		flows[i] = g.edges[i].Flow
	}
	return flows
}

// TotalCost returns the sum of flow*cost over forward edges.
func (g *ResidualGraph) TotalCost() int64 {
	var total int64
	for i := 0; i < len(g.edges); i += 2 {
		total += g.edges[i].Flow * g.edges[i].Cost
	}
	return total
}

// NetOutflow returns, per vertex, positive forward flow leaving it minus
// positive forward flow entering it.
func (g *ResidualGraph) NetOutflow() []int64 {
	net := make([]int64, len(g.adj))
	for i := 0; i < len(g.edges); i += 2 {
		e := &g.edges[i]
		net[e.From] += e.Flow
		net[e.To] -= e.Flow
	}
	return net
}

// HasNegativeCost reports whether any forward edge has a negative cost.
func (g *ResidualGraph) HasNegativeCost() bool {
	for i := 0; i < len(g.edges); i += 2 {
		if g.edges[i].Cost < 0 {
			return true
		}
	}
	return false
}

// ResetFlow sets the flow of every edge back to zero.
func (g *ResidualGraph) ResetFlow() {
	for i := range g.edges {
		g.edges[i].Flow = 0
	}
}

// Clone returns an independent copy of the graph with its current flow.
func (g *ResidualGraph) Clone() *ResidualGraph {
	clone := &ResidualGraph{
		edges: make([]Edge, len(g.edges)),
		adj:   make([][]EdgeID, len(g.adj)),
	}
	copy(clone.edges, g.edges)
	for v, ids := range g.adj {
		clone.adj[v] = append([]EdgeID(nil), ids...)
	}
	return clone
}

// =============================================================================
// Invariants
// =============================================================================

// CheckCapacity verifies 0 <= flow <= capacity on every forward edge and the
// pair relation Flow(forward) == -Flow(reverse).
func (g *ResidualGraph) CheckCapacity() error {
	for i := 0; i < len(g.edges); i += 2 {
		fwd, rev := &g.edges[i], &g.edges[i+1]
		if fwd.Flow != -rev.Flow {
			return fmt.Errorf("edge %d: flow %d does not mirror reverse flow %d", fwd.ID, fwd.Flow, rev.Flow)
		}
		if fwd.Flow < 0 || fwd.Flow > fwd.Capacity {
			return fmt.Errorf("edge %d: flow %d outside [0, %d]", fwd.ID, fwd.Flow, fwd.Capacity)
		}
	}
	return nil
}

// CheckConservation verifies that every vertex other than source and sink
// has equal inflow and outflow, and that the source emits exactly want units.
func (g *ResidualGraph) CheckConservation(source, sink int, want int64) error {
	net := g.NetOutflow()
	for v, n := range net {
		if v == source || v == sink {
			continue
		}
		if n != 0 {
			return fmt.Errorf("vertex %d: net outflow %d", v, n)
		}
	}
	if source != sink && net[source] != want {
		return fmt.Errorf("source %d: net outflow %d, want %d", source, net[source], want)
	}
	return nil
}
