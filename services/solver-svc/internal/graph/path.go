package graph

// PathCost returns the sum of edge costs along path.
func PathCost(g *ResidualGraph, path []EdgeID) int64 {
	var cost int64
	for _, id := range path {
		cost += g.Edge(id).Cost
	}
	return cost
}

// PathVertices returns the vertex sequence visited by path starting at start.
// An empty path yields just the start vertex.
func PathVertices(g *ResidualGraph, start int, path []EdgeID) []int {
	vertices := make([]int, 0, len(path)+1)
	vertices = append(vertices, start)
	for _, id := range path {
		vertices = append(vertices, g.Edge(id).To)
	}
	return vertices
}

// MinResidualOnPath returns the smallest residual capacity along path, or 0
// for an empty path.
func MinResidualOnPath(g *ResidualGraph, path []EdgeID) int64 {
	if len(path) == 0 {
		return 0
	}

	minResidual := Infinity
	for _, id := range path {
		if r := g.Edge(id).Residual(); r < minResidual {
			minResidual = r
		}
	}
	return minResidual
}

// AugmentPath pushes amount units along every edge of path.
func AugmentPath(g *ResidualGraph, path []EdgeID, amount int64) {
	for _, id := range path {
		g.PushFlow(id, amount)
	}
}

// IsContiguous reports whether path is a walk from start to end, each edge
// leaving the vertex the previous one entered.
func IsContiguous(g *ResidualGraph, start, end int, path []EdgeID) bool {
	v := start
	for _, id := range path {
		e := g.Edge(id)
		if e.From != v {
			return false
		}
		v = e.To
	}
	return v == end
}
