// Package grpc exposes the standard grpc.health.v1 service of the server.
//
// The overall status starts as NOT_SERVING and flips to SERVING only once
// [Handler.MarkReady] confirms that every request path dependency was
// initialized. [Handler.Shutdown] moves it back to NOT_SERVING for good.
package grpc

import (
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
)

// ServiceName is the health service name of the verification API. The empty
// name reports the same status for the server as a whole.
const ServiceName = "godocverify.v1.Verification"

var errNoReadinessSource = errors.New("no readiness source configured")

// Readiness is implemented by the service container.
type Readiness interface {
	Ready() error
}

// Handler is the root gRPC transport handler.
type Handler struct {
	readiness Readiness
	health    *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] whose health status is NOT_SERVING.
func NewHandler(readiness Readiness, logger *logger.Logger) *Handler {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		readiness: readiness,
		health:    hs,
		logger:    logger,
	}
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// MarkReady reports SERVING when the services are ready. Otherwise the
// status stays NOT_SERVING and the readiness error is returned.
func (h *Handler) MarkReady() error {
	if h.readiness == nil {
		return errNoReadinessSource
	}
	if err := h.readiness.Ready(); err != nil {
		h.logger.Error().Err(err).Msg("services are not ready, health stays NOT_SERVING")
		return err
	}

	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	h.logger.Info().Msg("health status set to SERVING")
	return nil
}

// Shutdown sets every status to NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
	h.logger.Info().Msg("health status set to NOT_SERVING")
}
