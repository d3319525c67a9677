package grpc

import (
	"context"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger is satisfied by docstore.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// watch re-checks the store every interval until ctx is done.
func (s *HealthServer) watch(ctx context.Context) {
	s.check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *HealthServer) check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.logger.Warn(ctx, "store ping failed", "error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}
