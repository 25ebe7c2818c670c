// Package metrics defines the Prometheus metrics exported by folioview.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Table projections
	ProjectionsTotal *prometheus.CounterVec   // labels: table
	ProjectionErrors *prometheus.CounterVec   // labels: table
	ProjectionDur    *prometheus.HistogramVec // labels: table
	ProjectedRows    *prometheus.GaugeVec     // labels: table (rows after filtering)

	// Mutations
	ReordersTotal *prometheus.CounterVec // labels: mode, result=moved|noop|rejected
	NotesSaved    *prometheus.CounterVec // labels: table

	// Events
	EventsPublished *prometheus.CounterVec // labels: type
	StreamClients   *prometheus.GaugeVec   // labels: transport=sse|ws

	// HTTP
	HTTPRequests   *prometheus.CounterVec   // labels: method, status
	HTTPRequestDur *prometheus.HistogramVec // labels: method
}

// New creates the metrics and registers them on a fresh registry along with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,

		ProjectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folioview_projections_total",
			Help: "Total table projections served",
		}, []string{"table"}),
		ProjectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folioview_projection_errors_total",
			Help: "Table projections rejected because of an invalid state",
		}, []string{"table"}),
		ProjectionDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folioview_projection_duration_seconds",
			Help:    "Filter, sort and paginate latency per projection",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"table"}),
		ProjectedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "folioview_projected_rows",
			Help: "Rows matching the filters of the latest projection",
		}, []string{"table"}),

		ReordersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folioview_reorders_total",
			Help: "Watchlist reorder requests by mode and result",
		}, []string{"mode", "result"}),
		NotesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folioview_notes_saved_total",
			Help: "Notes saved through the detail drill-down",
		}, []string{"table"}),

		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folioview_events_published_total",
			Help: "Events published on the in-process bus",
		}, []string{"type"}),
		StreamClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "folioview_event_stream_clients",
			Help: "Connected event stream clients",
		}, []string{"transport"}),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folioview_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		HTTPRequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folioview_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ProjectionsTotal,
		m.ProjectionErrors,
		m.ProjectionDur,
		m.ProjectedRows,
		m.ReordersTotal,
		m.NotesSaved,
		m.EventsPublished,
		m.StreamClients,
		m.HTTPRequests,
		m.HTTPRequestDur,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, mainly for tests
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveProjection records one projection of tableName
func (m *Metrics) ObserveProjection(tableName string, d time.Duration, filteredRows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ProjectionErrors.WithLabelValues(tableName).Inc()
		return
	}
	m.ProjectionsTotal.WithLabelValues(tableName).Inc()
	m.ProjectionDur.WithLabelValues(tableName).Observe(d.Seconds())
	m.ProjectedRows.WithLabelValues(tableName).Set(float64(filteredRows))
}

// ObserveReorder records the outcome of a reorder request
func (m *Metrics) ObserveReorder(mode, result string) {
	if m == nil {
		return
	}
	m.ReordersTotal.WithLabelValues(mode, result).Inc()
}

// ObserveNoteSaved records a saved note
func (m *Metrics) ObserveNoteSaved(tableName string) {
	if m == nil {
		return
	}
	m.NotesSaved.WithLabelValues(tableName).Inc()
}

// ObserveEvent records a published event
func (m *Metrics) ObserveEvent(eventType string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// StreamClientConnected adjusts the connected client gauge by delta
func (m *Metrics) StreamClientConnected(transport string, delta float64) {
	if m == nil {
		return
	}
	m.StreamClients.WithLabelValues(transport).Add(delta)
}

// ObserveHTTP records a served request
func (m *Metrics) ObserveHTTP(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDur.WithLabelValues(method).Observe(d.Seconds())
}
