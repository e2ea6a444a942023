package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anonion0/n3map/service"
)

const (
	protocol = "http"

	// path is where the Prometheus handler is mounted. Kept fixed
	// (unlike blocky's configurable config.Metrics.Path) since n3map
	// exposes nothing else on this endpoint worth disambiguating.
	path = "/metrics"
)

// Service implements service.HTTPService. A zero-value Service has no
// endpoints and Router returns nil, matching blocky's "construct but
// don't listen" pattern for a disabled exporter.
type Service struct {
	service.HTTPInfo
}

// NewService builds the metrics HTTP service. addr is empty to disable
// the endpoint entirely.
func NewService(addr string) *Service {
	if addr == "" {
		return new(Service)
	}

	enabled = true

	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	reg.MustRegister(prometheus.NewGoCollector())

	mux := chi.NewMux()
	mux.Use(newCORSMiddleware())
	mux.Handle(path, promhttp.InstrumentMetricHandler(reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return &Service{
		HTTPInfo: service.HTTPInfo{
			Info: service.NewInfo("Metrics", service.EndpointsFromAddrs(protocol, []string{addr})),
			Mux:  mux,
		},
	}
}

// newCORSMiddleware mirrors blocky's server.newCORSMiddleware, trimmed
// to the read-only GET surface a metrics scrape needs.
func newCORSMiddleware() func(http.Handler) http.Handler {
	const corsMaxAge = 5 * time.Minute

	options := cors.Options{
		AllowedHeaders: []string{"Accept"},
		AllowedMethods: []string{"GET"},
		AllowedOrigins: []string{"*"},
		MaxAge:         int(corsMaxAge.Seconds()),
	}

	return cors.New(options).Handler
}
