package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server or import run. Every method is
// safe to call on a nil *Metrics.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	selectedBuildings prometheus.Histogram
	emptySelections   prometheus.Counter
	analysisErrors    *prometheus.CounterVec
	importBatches     *prometheus.CounterVec
	importRows        prometheus.Counter
	loadedScenarios   prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		selectedBuildings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "selection_buildings",
			Help:    "Number of buildings inside a drawn selection.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
		emptySelections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "selection_empty_total",
			Help: "Selections that contained no buildings.",
		}),
		analysisErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analysis_errors_total",
			Help: "Analysis failures by kind.",
		}, []string{"kind"}),
		importBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_batches_total",
			Help: "Import batches by result.",
		}, []string{"result"}),
		importRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Rows written by the import pipeline.",
		}),
		loadedScenarios: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_scenarios",
			Help: "Number of scenarios in the loaded dataset.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.selectedBuildings,
		m.emptySelections,
		m.analysisErrors,
		m.importBatches,
		m.importRows,
		m.loadedScenarios,
	)

	return m
}

// Registry exposes the collectors, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Selection(buildings int) {
	if m == nil {
		return
	}
	if buildings == 0 {
		m.emptySelections.Inc()
		return
	}
	m.selectedBuildings.Observe(float64(buildings))
}

func (m *Metrics) AnalysisError(kind string) {
	if m == nil {
		return
	}
	m.analysisErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ImportBatch(rows int, success bool) {
	if m == nil {
		return
	}
	if !success {
		m.importBatches.WithLabelValues("failed").Inc()
		return
	}
	m.importBatches.WithLabelValues("ok").Inc()
	m.importRows.Add(float64(rows))
}

func (m *Metrics) SetScenarios(n int) {
	if m == nil {
		return
	}
	m.loadedScenarios.Set(float64(n))
}
