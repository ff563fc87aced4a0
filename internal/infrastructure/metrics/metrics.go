// Package metrics colectores Prometheus de la API: tráfico HTTP y resultado de las altas de usuario.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/cartelera-api/internal/application/ports"
)

var _ ports.ProvisioningObserver = (*Metrics)(nil)

// Metrics agrupa los colectores registrados en un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests         *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	provisioning         *prometheus.CounterVec
	provisioningDuration prometheus.Histogram
}

// New crea y registra los colectores, más los de runtime de Go y del proceso.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartelera_http_requests_total",
				Help: "Cantidad de requests HTTP atendidos",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cartelera_http_request_duration_seconds",
				Help:    "Duración de los requests HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		provisioning: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartelera_user_provisioning_total",
				Help: "Altas de usuario por resultado (linked, duplicate, compensated, invalid, error)",
			},
			[]string{"result"},
		),
		provisioningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cartelera_user_provisioning_duration_seconds",
			Help:    "Duración del alta de usuario de punta a punta",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.provisioning,
		m.provisioningDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveHTTP registra un request. path debe ser el patrón de la ruta, no la URL cruda.
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveProvisioning(result string, elapsed time.Duration) {
	m.provisioning.WithLabelValues(result).Inc()
	m.provisioningDuration.Observe(elapsed.Seconds())
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry para tests y colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
