// Package grpc serves the standard grpc.health.v1 service so orchestrators
// can probe the API. The reported status follows document-store
// reachability.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "fitplan.WorkoutAPI"

const defaultCheckInterval = 15 * time.Second

type HealthServer struct {
	address  string
	logger   logging.Logger
	store    Pinger
	interval time.Duration
	health   *health.Server
}

func NewHealthServer(a string, l logging.Logger, store Pinger, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = defaultCheckInterval
	}

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		address:  a,
		logger:   l.With("module", "health_server"),
		store:    store,
		interval: interval,
		health:   hs,
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
