package httpapi

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"taskhub.org/internal/obs"
)

const grpcServiceName = "taskhub.api"

// GRPCHealth exposes readiness over the standard gRPC health protocol so
// orchestrators can probe the service without speaking HTTP.
type GRPCHealth struct {
	server *grpc.Server
	hs     *health.Server
	probe  ReadyProbe
}

// NewGRPCHealth registers the health service on a fresh gRPC server.
func NewGRPCHealth(rp ReadyProbe) *GRPCHealth {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(grpcServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &GRPCHealth{server: srv, hs: hs, probe: rp}
}

// Server returns the underlying gRPC server for Serve/GracefulStop.
func (g *GRPCHealth) Server() *grpc.Server {
	return g.server
}

// Refresh re-evaluates the readiness probe and updates the advertised
// status. Run it periodically until the context ends.
func (g *GRPCHealth) Refresh(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	ok := true
	if err := g.probe.check(checkCtx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		ok = false
	}
	obs.SetReady(ok)
	g.hs.SetServingStatus(grpcServiceName, status)
	g.hs.SetServingStatus("", status)
}

// Watch runs Refresh on a fixed cadence until the context ends.
func (g *GRPCHealth) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	g.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Refresh(ctx)
		}
	}
}
