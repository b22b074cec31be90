package grpc

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/grpc/middleware"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// SearchServiceName is the health-check service that follows search
// engine availability. The empty service name reports the process itself.
const SearchServiceName = "umkm.search"

// NewGRPCServer builds a server exposing the standard health service.
// The returned cleanup stops it gracefully.
func NewGRPCServer(appLogger *logger.Logger) (*grpc.Server, *health.Server, func()) {
	log := appLogger.Named("grpc")

	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(middleware.LoggingInterceptor(log)),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(SearchServiceName, healthpb.HealthCheckResponse_UNKNOWN)
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	log.Info("gRPC server configured with health service and interceptors: Tracing, Logging")

	cleanup := func() {
		log.Info("Stopping gRPC server")
		healthServer.Shutdown()
		server.GracefulStop()
		log.Info("gRPC server stopped")
	}
	return server, healthServer, cleanup
}

// HealthProbe is satisfied by the search query router and the index client.
type HealthProbe interface {
	Health(ctx context.Context) bool
}

// StatusSetter is the part of *health.Server the reporter drives.
type StatusSetter interface {
	SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus)
}

// SearchHealthReporter mirrors the search engine probe into the health
// service. A down engine means degraded search, not a dead process, so only
// SearchServiceName flips to NOT_SERVING.
type SearchHealthReporter struct {
	probe    HealthProbe
	status   StatusSetter
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger
	last     *bool
}

func NewSearchHealthReporter(probe HealthProbe, status StatusSetter, interval time.Duration, log *logger.Logger) *SearchHealthReporter {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &SearchHealthReporter{
		probe:    probe,
		status:   status,
		interval: interval,
		timeout:  5 * time.Second,
		logger:   log.Named("search_health"),
	}
}

// Refresh probes once and publishes the result.
func (r *SearchHealthReporter) Refresh(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	healthy := r.probe.Health(ctx)
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if healthy {
		st = healthpb.HealthCheckResponse_SERVING
	}
	r.status.SetServingStatus(SearchServiceName, st)

	if r.last == nil || *r.last != healthy {
		if healthy {
			r.logger.Info("Search engine available")
		} else {
			r.logger.Warn("Search engine unavailable, search is served from the primary store")
		}
	}
	r.last = &healthy
	return healthy
}

// Run refreshes on every tick until ctx is cancelled.
func (r *SearchHealthReporter) Run(ctx context.Context) {
	r.Refresh(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Search health reporter stopped", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}
