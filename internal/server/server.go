package server

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/handler"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/workers"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	workers    *workers.Workers

	shutdownTimeout time.Duration

	logger *logger.Logger
}

// NewServer binds a listener for every configured transport. Workers run
// alongside the listeners and are stopped after them.
func NewServer(handlers *handler.Handlers, bgWorkers *workers.Workers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{
		workers:         bgWorkers,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		httpSrv, err := newHTTPServer(handlers.HTTP.Init(), cfg.HTTPAddress, logger)
		if err != nil {
			return nil, err
		}
		servers.httpServer = httpSrv
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		grpcSrv, err := newGRPCServer(handlers.GRPC, cfg.GRPCAddress, logger)
		if err != nil {
			servers.closeListeners()
			return nil, err
		}
		servers.gRPCServer = grpcSrv
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}
	if servers.workers == nil {
		servers.workers = workers.NewWorkers()
	}

	return servers, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.Run(ctx); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

// Run starts workers and listeners and blocks until ctx is done. Listeners
// are drained before the workers are stopped.
func (s *server) Run(ctx context.Context) error {
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	s.logger.Info().Int("workers", s.workers.Len()).Msg("launching workers")
	s.workers.Run(workersCtx)

	var wg sync.WaitGroup
	for _, t := range s.transports() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.Serve()
		}()
	}

	<-ctx.Done()
	s.logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := s.shutdownContext()
	defer cancel()

	s.shutdown(shutdownCtx)
	wg.Wait()

	stopWorkers()
	s.workers.Wait()

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) transports() []transport {
	var ts []transport
	if s.httpServer != nil {
		ts = append(ts, s.httpServer)
	}
	if s.gRPCServer != nil {
		ts = append(ts, s.gRPCServer)
	}
	return ts
}

func (s *server) shutdown(ctx context.Context) {
	var wg sync.WaitGroup
	for _, t := range s.transports() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.Shutdown(ctx)
		}()
	}
	wg.Wait()
}

func (s *server) shutdownContext() (context.Context, context.CancelFunc) {
	if s.shutdownTimeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.shutdownTimeout)
}

func (s *server) closeListeners() {
	if s.httpServer != nil {
		_ = s.httpServer.listener.Close()
	}
	if s.gRPCServer != nil {
		_ = s.gRPCServer.listener.Close()
	}
}
