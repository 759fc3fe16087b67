package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "media_delivery"

// Metrics agrupa os coletores da ingestão e da API. Os métodos aceitam receptor nil
// para que os casos de uso funcionem sem telemetria nos testes.
type Metrics struct {
	registry *prometheus.Registry

	rowsAccepted     *prometheus.CounterVec
	rowsRejected     *prometheus.CounterVec
	sourceFailures   *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_accepted_total",
			Help:      "Linhas de export convertidas em registros de entrega.",
		}, []string{"channel"}),
		rowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Linhas descartadas por data ou investimento inválidos.",
		}, []string{"channel"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Arquivos de export que não puderam ser lidos.",
		}, []string{"channel"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Tempo para montar o dashboard a partir dos exports.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requisições HTTP por rota e status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latência das requisições HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rowsAccepted,
		m.rowsRejected,
		m.sourceFailures,
		m.pipelineDuration,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// Handler expõe o registry no formato de texto do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveSource(channel string, accepted, rejected int) {
	if m == nil {
		return
	}
	m.rowsAccepted.WithLabelValues(channel).Add(float64(accepted))
	m.rowsRejected.WithLabelValues(channel).Add(float64(rejected))
}

func (m *Metrics) SourceFailed(channel string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(channel).Inc()
}

func (m *Metrics) ObservePipeline(d time.Duration) {
	if m == nil {
		return
	}
	m.pipelineDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
