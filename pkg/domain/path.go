package domain

import "time"

// Path путь одной единицы потока от source к sink
type Path struct {
	// Edges 1-based номера входных рёбер в порядке прохождения
	Edges []int `json:"edges"`
	// Vertices 1-based вершины пути, включая source и sink
	Vertices []int `json:"vertices"`
	Cost     int64 `json:"cost"`
}

// Len возвращает число рёбер пути
func (p Path) Len() int {
	return len(p.Edges)
}

// Clone создаёт копию пути
func (p Path) Clone() Path {
	clone := Path{Cost: p.Cost}
	clone.Edges = append([]int(nil), p.Edges...)
	clone.Vertices = append([]int(nil), p.Vertices...)
	return clone
}

// Solution результат решения задачи
type Solution struct {
	Feasible    bool    `json:"feasible"`
	K           int     `json:"k"`
	TotalCost   int64   `json:"total_cost"`
	AverageCost float64 `json:"average_cost"`
	Paths       []Path  `json:"paths"`
	// EdgeFlows поток по входным рёбрам до разложения на пути
	EdgeFlows       map[int]int64 `json:"edge_flows,omitempty"`
	Rounds          int           `json:"rounds"`
	ComputationTime time.Duration `json:"computation_time"`
}

// InfeasibleSolution создаёт результат для недостижимого потока
func InfeasibleSolution(k, rounds int) *Solution {
	return &Solution{
		Feasible: false,
		K:        k,
		Rounds:   rounds,
	}
}

// AverageOf вычисляет среднюю стоимость единицы потока
func AverageOf(total int64, k int) float64 {
	if k == 0 {
		return 0
	}
	return float64(total) / float64(k)
}

// PathCostSum возвращает сумму стоимостей путей
func (s *Solution) PathCostSum() int64 {
	var sum int64
	for _, p := range s.Paths {
		sum += p.Cost
	}
	return sum
}

// FlowOf возвращает поток по входному ребру
func (s *Solution) FlowOf(index int) int64 {
	if s.EdgeFlows == nil {
		return 0
	}
	return s.EdgeFlows[index]
}

// Clone создаёт глубокую копию решения
func (s *Solution) Clone() *Solution {
	clone := *s
	clone.Paths = make([]Path, len(s.Paths))
	for i, p := range s.Paths {
		clone.Paths[i] = p.Clone()
	}
	if s.EdgeFlows != nil {
		clone.EdgeFlows = make(map[int]int64, len(s.EdgeFlows))
		for k, v := range s.EdgeFlows {
			clone.EdgeFlows[k] = v
		}
	}
	return &clone
}
