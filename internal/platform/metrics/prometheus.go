package metrics

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors on a private registry.
type MetricsManager struct {
	Registry *prometheus.Registry

	SearchLatency        *prometheus.HistogramVec
	SearchFallbacksTotal *prometheus.CounterVec
	IndexSyncTotal       *prometheus.CounterVec
	IndexHealthy         prometheus.Gauge
	ShortlinkExpansions  *prometheus.CounterVec
	ListingMutations     *prometheus.CounterVec
	HTTPRequestLatency   *prometheus.HistogramVec
}

func NewMetricsManager(serviceName string) *MetricsManager {
	namespace := sanitize(serviceName)
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		SearchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_latency_seconds",
			Help:      "Latency of search queries by backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		SearchFallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_fallbacks_total",
			Help:      "Searches answered from the primary store, by reason.",
		}, []string{"reason"}),
		IndexSyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_sync_total",
			Help:      "Search index sync operations by operation and result.",
		}, []string{"op", "result"}),
		IndexHealthy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_index_healthy",
			Help:      "1 when the search engine answered its last health probe.",
		}),
		ShortlinkExpansions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shortlink_expansions_total",
			Help:      "Map shortlink expansions by terminal state.",
		}, []string{"state"}),
		ListingMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_mutations_total",
			Help:      "Listing mutations by kind.",
		}, []string{"kind"}),
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_latency_seconds",
			Help:      "Latency of HTTP requests by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	registry.MustRegister(
		m.SearchLatency,
		m.SearchFallbacksTotal,
		m.IndexSyncTotal,
		m.IndexHealthy,
		m.ShortlinkExpansions,
		m.ListingMutations,
		m.HTTPRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *MetricsManager) ObserveSearch(backend string, d time.Duration) {
	m.SearchLatency.WithLabelValues(backend).Observe(d.Seconds())
}

func (m *MetricsManager) IncSearchFallback(reason string) {
	m.SearchFallbacksTotal.WithLabelValues(reason).Inc()
}

func (m *MetricsManager) IncSync(op, result string) {
	m.IndexSyncTotal.WithLabelValues(op, result).Inc()
}

func (m *MetricsManager) SetIndexHealthy(healthy bool) {
	if healthy {
		m.IndexHealthy.Set(1)
		return
	}
	m.IndexHealthy.Set(0)
}

func (m *MetricsManager) IncShortlinkExpansion(state string) {
	m.ShortlinkExpansions.WithLabelValues(state).Inc()
}

func (m *MetricsManager) IncListingMutation(kind string) {
	m.ListingMutations.WithLabelValues(kind).Inc()
}

func (m *MetricsManager) ObserveHTTP(route, method, status string, d time.Duration) {
	m.HTTPRequestLatency.WithLabelValues(route, method, status).Observe(d.Seconds())
}

// Handler exposes the private registry.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves /metrics on port until the server fails.
func StartMetricsServer(port string, appLogger *logger.Logger, m *MetricsManager) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

func sanitize(name string) string {
	out := []rune(name)
	for i, r := range out {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			out[i] = '_'
		}
	}
	return string(out)
}
