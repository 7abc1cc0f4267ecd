package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Задача
	AttrGraphVertices = "graph.vertices"
	AttrGraphEdges    = "graph.edges"
	AttrGraphSource   = "graph.source"
	AttrGraphSink     = "graph.sink"
	AttrEdgeMode      = "graph.edge_mode"
	AttrDemand        = "flow.k"

	// Алгоритм
	AttrRounds          = "algorithm.rounds"
	AttrTotalCost       = "algorithm.total_cost"
	AttrFeasible        = "algorithm.feasible"
	AttrPathsFound      = "algorithm.paths_found"
	AttrUsedBellmanFord = "algorithm.bellman_ford"

	// Инфраструктура
	AttrCacheKey = "cache.key"
	AttrRunID    = "run.id"
	AttrDBTable  = "db.sql.table"
)

// ProblemAttributes возвращает атрибуты задачи (вершины 1-based)
func ProblemAttributes(vertices, edges, k, source, sink int, mode string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphVertices, vertices),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Int(AttrDemand, k),
		attribute.Int(AttrGraphSource, source+1),
		attribute.Int(AttrGraphSink, sink+1),
		attribute.String(AttrEdgeMode, mode),
	}
}

// FlowAttributes возвращает атрибуты результата расчёта потока
func FlowAttributes(rounds int, totalCost int64, feasible, bellmanFord bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrRounds, rounds),
		attribute.Int64(AttrTotalCost, totalCost),
		attribute.Bool(AttrFeasible, feasible),
		attribute.Bool(AttrUsedBellmanFord, bellmanFord),
	}
}
