package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the extraction pipeline collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	extractTotal    *prometheus.CounterVec
	extractDuration *prometheus.HistogramVec
	fieldsWritten   *prometheus.CounterVec
	jobsTotal       *prometheus.CounterVec
	jobsInFlight    prometheus.Gauge
	httpRequests    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	extractTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxextract",
			Subsystem: "extraction",
			Name:      "total",
			Help:      "Total extractions by form type and status.",
		},
		[]string{"form_type", "status"},
	)
	extractDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taxextract",
			Subsystem: "extraction",
			Name:      "duration_seconds",
			Help:      "End-to-end extraction duration in seconds by model.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"model", "status"},
	)
	fieldsWritten := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxextract",
			Subsystem: "extraction",
			Name:      "fields_written_total",
			Help:      "Total field rows persisted by form type.",
		},
		[]string{"form_type"},
	)
	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxextract",
			Subsystem: "queue",
			Name:      "jobs_total",
			Help:      "Processed extraction jobs by resulting status.",
		},
		[]string{"status"},
	)
	jobsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "taxextract",
			Subsystem: "queue",
			Name:      "jobs_in_flight",
			Help:      "Number of extraction jobs currently processing.",
		},
	)
	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxextract",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	registry.MustRegister(
		extractTotal, extractDuration, fieldsWritten, jobsTotal, jobsInFlight, httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		extractTotal:    extractTotal,
		extractDuration: extractDuration,
		fieldsWritten:   fieldsWritten,
		jobsTotal:       jobsTotal,
		jobsInFlight:    jobsInFlight,
		httpRequests:    httpRequests,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveExtraction(formType, model string, duration time.Duration, fields int, err error) {
	if m == nil {
		return
	}
	status := statusOf(err)
	m.extractTotal.WithLabelValues(formType, status).Inc()
	m.extractDuration.WithLabelValues(model, status).Observe(duration.Seconds())
	if err == nil && fields > 0 {
		m.fieldsWritten.WithLabelValues(formType).Add(float64(fields))
	}
}

func (m *Metrics) StartJob() {
	if m == nil {
		return
	}
	m.jobsInFlight.Inc()
}

func (m *Metrics) FinishJob(status string) {
	if m == nil {
		return
	}
	m.jobsInFlight.Dec()
	m.jobsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRequest(route, method string, code int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
