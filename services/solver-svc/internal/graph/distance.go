package graph

import (
	"fmt"
	"slices"
)

// DistanceTable holds, per vertex, the best known distance from the source
// and the edge through which the vertex was reached.
//
// A table is produced once per shortest-path round and is never mutated by a
// later round: the driver replaces it wholesale. The distances of one round
// serve as vertex potentials for the next.
type DistanceTable struct {
	source int
	dist   []int64
	pred   []EdgeID
}

// NewDistanceTable creates a table for n vertices. Every vertex starts at
// Infinity with no predecessor, except source which starts at 0.
func NewDistanceTable(n, source int) *DistanceTable {
	t := &DistanceTable{
		source: source,
		dist:   make([]int64, n),
		pred:   make([]EdgeID, n),
	}
	for v := range t.dist {
		t.dist[v] = Infinity
		t.pred[v] = NoEdge
	}
	if source >= 0 && source < n {
		t.dist[source] = 0
	}
	return t
}

// ZeroPotentials returns a table with distance 0 for every vertex. It is the
// potential input of the first round when all costs are non-negative.
func ZeroPotentials(n, source int) *DistanceTable {
	t := NewDistanceTable(n, source)
	for v := range t.dist {
		t.dist[v] = 0
	}
	return t
}

// Len returns the number of vertices.
func (t *DistanceTable) Len() int {
	return len(t.dist)
}

// Source returns the vertex the table was computed from.
func (t *DistanceTable) Source() int {
	return t.source
}

// Get returns the distance of v.
func (t *DistanceTable) Get(v int) int64 {
	return t.dist[v]
}

// Pred returns the edge that reached v, or NoEdge.
func (t *DistanceTable) Pred(v int) EdgeID {
	return t.pred[v]
}

// Set records distance d for v reached through edge via.
func (t *DistanceTable) Set(v int, d int64, via EdgeID) {
	t.dist[v] = d
	t.pred[v] = via
}

// Reached reports whether v has a finite distance.
func (t *DistanceTable) Reached(v int) bool {
	return t.dist[v] != Infinity
}

// Distances returns a copy of the distance column.
func (t *DistanceTable) Distances() []int64 {
	return slices.Clone(t.dist)
}

// Clone returns an independent copy of the table.
func (t *DistanceTable) Clone() *DistanceTable {
	return &DistanceTable{
		source: t.source,
		dist:   slices.Clone(t.dist),
		pred:   slices.Clone(t.pred),
	}
}

// PathTo walks predecessor edges back from target and returns the edge ids in
// source→target order. The path to the source itself is empty.
//
// The walk is bounded by the vertex count so a corrupted predecessor chain
// cannot loop forever.
func (t *DistanceTable) PathTo(g *ResidualGraph, target int) ([]EdgeID, error) {
	if !t.Reached(target) {
		return nil, fmt.Errorf("vertex %d is not reachable from %d", target, t.source)
	}

	var path []EdgeID
	for v := target; v != t.source; {
		id := t.pred[v]
		if id == NoEdge {
			return nil, fmt.Errorf("vertex %d has no predecessor edge", v)
		}
		if len(path) >= len(t.dist) {
			return nil, fmt.Errorf("predecessor chain from %d does not reach %d", target, t.source)
		}
		path = append(path, id)
		v = g.Edge(id).From
	}

	slices.Reverse(path)
	return path, nil
}
