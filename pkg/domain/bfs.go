package domain

// Adjacency строит списки смежности задачи с учётом режима рёбер
func Adjacency(p *Problem) [][]int {
	adj := make([][]int, p.VertexCount)
	for _, e := range p.Edges {
		if !p.inRange(e.From) || !p.inRange(e.To) {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		if p.Mode == ModeUndirected && e.From != e.To {
			adj[e.To] = append(adj[e.To], e.From)
		}
	}
	return adj
}

// BFSReachable возвращает вершины, достижимые из source
func BFSReachable(p *Problem, source int) []bool {
	visited := make([]bool, p.VertexCount)
	if !p.inRange(source) {
		return visited
	}

	adj := Adjacency(p)
	queue := []int{source}
	visited[source] = true

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range adj[u] {
			if visited[v] {
				continue
			}
			visited[v] = true
			queue = append(queue, v)
		}
	}

	return visited
}

// SinkReachable проверяет достижимость sink из source
func SinkReachable(p *Problem) bool {
	if !p.inRange(p.Sink) {
		return false
	}
	return BFSReachable(p, p.Source)[p.Sink]
}

// FlowUpperBound возвращает верхнюю оценку максимального потока:
// минимум из числа единичных рёбер, выходящих из source и входящих в sink.
// Для source == sink ограничения нет.
func FlowUpperBound(p *Problem) int {
	if p.Source == p.Sink {
		return -1
	}

	var out, in int
	for _, e := range p.Edges {
		if e.From == e.To {
			continue
		}
		if e.From == p.Source {
			out++
		}
		if e.To == p.Sink {
			in++
		}
		if p.Mode == ModeUndirected {
			if e.To == p.Source {
				out++
			}
			if e.From == p.Sink {
				in++
			}
		}
	}

	if out < in {
		return out
	}
	return in
}
