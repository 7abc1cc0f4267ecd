package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Статусы решения для solve_requests_total
const (
	StatusOK         = "ok"
	StatusInfeasible = "infeasible"
	StatusError      = "error"
)

// Metrics контейнер метрик решателя.
// Nil *Metrics допустим: все Record* становятся no-op.
type Metrics struct {
	registry *prometheus.Registry

	SolveRequestsTotal    *prometheus.CounterVec
	SolveDuration         prometheus.Histogram
	SolveRounds           prometheus.Histogram
	GraphVertices         prometheus.Histogram
	GraphEdges            prometheus.Histogram
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
	DecompositionFailures prometheus.Counter

	// Информация о сборке
	BuildInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// New создаёт метрики в собственном реестре
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		SolveRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solve_requests_total",
				Help:      "Total number of solve requests by outcome",
			},
			[]string{"status"},
		),

		SolveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Duration of solve requests",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),

		SolveRounds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_rounds",
				Help:      "Augmentation rounds performed per solve",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),

		GraphVertices: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_vertices",
				Help:      "Number of vertices in solved problems",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
		),

		GraphEdges: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_edges",
				Help:      "Number of input edges in solved problems",
				Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000, 100000},
			},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Solutions served from cache",
			},
		),

		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Solutions not found in cache",
			},
		),

		DecompositionFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decomposition_failures_total",
				Help:      "Path decompositions that broke the flow conservation invariant",
			},
		),

		BuildInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_info",
				Help:      "Build information",
			},
			[]string{"version", "environment"},
		),
	}

	reg.MustRegister(NewRuntimeCollector(namespace))

	return m
}

// Init создаёт метрики и делает их глобальными
func Init(namespace string) *Metrics {
	defaultMetrics = New(namespace)
	return defaultMetrics
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	if defaultMetrics == nil {
		return Init("kflow")
	}
	return defaultMetrics
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSolve записывает итог решения
func (m *Metrics) RecordSolve(status string, duration time.Duration, rounds int) {
	if m == nil {
		return
	}
	m.SolveRequestsTotal.WithLabelValues(status).Inc()
	m.SolveDuration.Observe(duration.Seconds())
	if status != StatusError {
		m.SolveRounds.Observe(float64(rounds))
	}
}

// RecordGraphSize записывает размер графа
func (m *Metrics) RecordGraphSize(vertices, edges int) {
	if m == nil {
		return
	}
	m.GraphVertices.Observe(float64(vertices))
	m.GraphEdges.Observe(float64(edges))
}

// RecordCacheHit отмечает попадание в кэш
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss отмечает промах кэша
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

// RecordDecompositionFailure отмечает нарушение сохранения потока
func (m *Metrics) RecordDecompositionFailure() {
	if m == nil {
		return
	}
	m.DecompositionFailures.Inc()
}

// SetBuildInfo устанавливает информацию о сборке
func (m *Metrics) SetBuildInfo(version, environment string) {
	if m == nil {
		return
	}
	m.BuildInfo.WithLabelValues(version, environment).Set(1)
}

// WriteToTextfile пишет реестр в файл для textfile collector node-exporter
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
