package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	myGRPC "github.com/MKhiriev/go-doc-verify/internal/handler/grpc"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server   *grpc.Server
	listener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, address string, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errListen, address, err)
	}

	server := grpc.NewServer()
	handler.Register(server)

	return &grpcServer{
		handler:  handler,
		server:   server,
		listener: listener,
		logger:   logger,
	}, nil
}

// Serve marks the health service ready and blocks serving it.
func (g *grpcServer) Serve() {
	_ = g.handler.MarkReady()

	g.logger.Info().Str("address", g.Addr()).Msg("gRPC server listening")
	if err := g.server.Serve(g.listener); err != nil {
		g.logger.Error().Err(err).Msg("gRPC server Serve")
	}
}

// Shutdown reports NOT_SERVING first, then drains in-flight RPCs. It falls
// back to a hard stop when ctx expires.
func (g *grpcServer) Shutdown(ctx context.Context) {
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		g.server.Stop()
	}
	g.logger.Info().Msg("gRPC server Shutdown")
}

func (g *grpcServer) Addr() string {
	return g.listener.Addr().String()
}
