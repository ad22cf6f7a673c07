// Package metrics expone las métricas Prometheus del servicio: peticiones HTTP,
// duración y tamaño de reportes y recálculos del snapshot.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventario_osv"

// Metrics registro propio (no el global) con todas las métricas.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ReportsTotal    *prometheus.CounterVec
	ReportDuration  *prometheus.HistogramVec
	ReportLines     *prometheus.HistogramVec
	RecomputesTotal *prometheus.CounterVec
	RecomputeTime   prometheus.Histogram
	SnapshotEntries prometheus.Gauge
	DatasetRecords  *prometheus.GaugeVec
}

// New crea y registra las métricas.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
	m.ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reportes generados por tipo y resultado",
		},
		[]string{"report", "status"},
	)
	m.ReportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Duración del cálculo de reportes",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"report"},
	)
	m.ReportLines = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_lines",
			Help:      "Líneas por reporte",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"report"},
	)
	m.RecomputesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_period_recomputes_total",
			Help:      "Recálculos del snapshot de periodo bloqueado",
		},
		[]string{"status"},
	)
	m.RecomputeTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "block_period_recompute_duration_seconds",
			Help:      "Duración del recálculo (agregación y persistencia)",
			Buckets:   []float64{.001, .01, .05, .1, .5, 1, 5, 10, 30},
		},
	)
	m.SnapshotEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_period_snapshot_entries",
			Help:      "Entradas del snapshot vigente",
		},
	)
	m.DatasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Registros cargados por tipo de entidad",
		},
		[]string{"kind"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReportsTotal,
		m.ReportDuration,
		m.ReportLines,
		m.RecomputesTotal,
		m.RecomputeTime,
		m.SnapshotEntries,
		m.DatasetRecords,
	)
	return m
}

// Handler handler HTTP para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry devuelve el registro (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest registra una petición HTTP.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveReport registra un reporte calculado (osv, balance).
func (m *Metrics) ObserveReport(report string, duration time.Duration, lines int, err error) {
	m.ReportsTotal.WithLabelValues(report, status(err)).Inc()
	if err != nil {
		return
	}
	m.ReportDuration.WithLabelValues(report).Observe(duration.Seconds())
	m.ReportLines.WithLabelValues(report).Observe(float64(lines))
}

// ObserveRecompute registra un recálculo del snapshot.
func (m *Metrics) ObserveRecompute(duration time.Duration, entries int, err error) {
	m.RecomputesTotal.WithLabelValues(status(err)).Inc()
	m.RecomputeTime.Observe(duration.Seconds())
	if err == nil {
		m.SnapshotEntries.Set(float64(entries))
	}
}

// SetDatasetRecords publica el tamaño del dataset cargado.
func (m *Metrics) SetDatasetRecords(counts map[string]int) {
	for kind, n := range counts {
		m.DatasetRecords.WithLabelValues(kind).Set(float64(n))
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
