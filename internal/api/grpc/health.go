package grpc

import (
	"context"
	"time"

	"menu-booking-backend/internal/api/grpc/interceptor"
	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger is satisfied by both stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the standard health service in step with the store.
type HealthReporter struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
}

func NewHealthReporter(pinger Pinger, interval time.Duration) *HealthReporter {
	return &HealthReporter{server: health.NewServer(), pinger: pinger, interval: interval}
}

// NewServer builds a gRPC server exposing the booking service,
// grpc.health.v1 and reflection.
func NewServer(reporter *HealthReporter, bookings service.BookingService) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(interceptor.NewLoggingInterceptor(ToStatus).Unary()))
	registerBookingServer(s, NewBookingHandler(bookings))
	healthpb.RegisterHealthServer(s, reporter.server)
	reflection.Register(s)
	return s
}

// Check pings the store once and publishes the result.
func (h *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(ctx); err != nil {
		logger.Warn("Store health check failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	return status
}

// Run checks immediately and then every interval until ctx is done.
func (h *HealthReporter) Run(ctx context.Context) {
	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING ahead of a graceful stop.
func (h *HealthReporter) Shutdown() {
	h.server.Shutdown()
}
