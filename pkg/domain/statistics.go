package domain

// ProblemStatistics статистика входной задачи
type ProblemStatistics struct {
	VertexCount      int
	EdgeCount        int
	IsolatedVertices int
	SelfLoops        int
	MinCost          int64
	MaxCost          int64
	TotalCost        int64
	AverageDegree    float64
	MaxDegree        int
	Density          float64
}

// SolutionStatistics статистика найденных путей
type SolutionStatistics struct {
	PathCount     int
	MinPathLength int
	MaxPathLength int
	AvgPathLength float64
	MinPathCost   int64
	MaxPathCost   int64
	DistinctEdges int
	// CostSpread разница между самым дорогим и самым дешёвым путём
	CostSpread int64
}

// CalculateProblemStatistics вычисляет статистику задачи
func CalculateProblemStatistics(p *Problem) *ProblemStatistics {
	stats := &ProblemStatistics{
		VertexCount: p.VertexCount,
		EdgeCount:   len(p.Edges),
	}
	if p.VertexCount <= 0 {
		return stats
	}

	degree := make([]int, p.VertexCount)
	for i, e := range p.Edges {
		if i == 0 || e.Cost < stats.MinCost {
			stats.MinCost = e.Cost
		}
		if i == 0 || e.Cost > stats.MaxCost {
			stats.MaxCost = e.Cost
		}
		stats.TotalCost += e.Cost

		if e.From == e.To {
			stats.SelfLoops++
		}
		if p.inRange(e.From) {
			degree[e.From]++
		}
		if p.inRange(e.To) {
			degree[e.To]++
		}
	}

	var sum int
	for _, d := range degree {
		sum += d
		if d == 0 {
			stats.IsolatedVertices++
		}
		if d > stats.MaxDegree {
			stats.MaxDegree = d
		}
	}
	stats.AverageDegree = float64(sum) / float64(p.VertexCount)

	// Плотность относительно полного ориентированного графа
	if p.VertexCount > 1 {
		possible := float64(p.VertexCount) * float64(p.VertexCount-1)
		directed := float64(len(p.Edges))
		if p.Mode == ModeUndirected {
			directed *= 2
		}
		stats.Density = directed / possible
	}

	return stats
}

// CalculateSolutionStatistics вычисляет статистику путей решения
func CalculateSolutionStatistics(s *Solution) *SolutionStatistics {
	stats := &SolutionStatistics{PathCount: len(s.Paths)}
	if len(s.Paths) == 0 {
		return stats
	}

	seen := make(map[int]struct{})
	var totalLen int
	for i, p := range s.Paths {
		n := p.Len()
		totalLen += n
		if i == 0 || n < stats.MinPathLength {
			stats.MinPathLength = n
		}
		if i == 0 || n > stats.MaxPathLength {
			stats.MaxPathLength = n
		}
		if i == 0 || p.Cost < stats.MinPathCost {
			stats.MinPathCost = p.Cost
		}
		if i == 0 || p.Cost > stats.MaxPathCost {
			stats.MaxPathCost = p.Cost
		}
		for _, e := range p.Edges {
			seen[e] = struct{}{}
		}
	}

	stats.AvgPathLength = float64(totalLen) / float64(len(s.Paths))
	stats.DistinctEdges = len(seen)
	stats.CostSpread = stats.MaxPathCost - stats.MinPathCost

	return stats
}
