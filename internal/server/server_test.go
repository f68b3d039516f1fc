package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/handler"
	myGRPC "github.com/MKhiriev/go-doc-verify/internal/handler/grpc"
	myHTTP "github.com/MKhiriev/go-doc-verify/internal/handler/http"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/workers"
	"github.com/MKhiriev/go-doc-verify/models"
)

type alwaysReady struct{}

func (alwaysReady) Ready() error { return nil }

// countingWorker records that it was started and that it stopped.
type countingWorker struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (w *countingWorker) Run(ctx context.Context) {
	w.started.Store(true)
	<-ctx.Done()
	w.stopped.Store(true)
}

func testHandlers(t *testing.T, cfg config.Server) *handler.Handlers {
	t.Helper()

	appInfo, err := service.NewAppInfoService(models.AppBuildInfo{Version: "1.0.0"}, config.App{}, logger.Nop())
	require.NoError(t, err)

	return &handler.Handlers{
		HTTP: myHTTP.NewHandler(&service.Services{AppInfoService: appInfo}, cfg, logger.Nop()),
		GRPC: myGRPC.NewHandler(alwaysReady{}, logger.Nop()),
	}
}

func TestNewServer_NoListeners(t *testing.T) {
	_, err := NewServer(&handler.Handlers{}, nil, config.Server{}, logger.Nop())

	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestNewServer_AddressInUse(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0"}
	first, err := NewServer(testHandlers(t, cfg), nil, cfg, logger.Nop())
	require.NoError(t, err)
	defer first.(*server).closeListeners()

	taken := config.Server{HTTPAddress: first.(*server).httpServer.Addr()}
	_, err = NewServer(testHandlers(t, taken), nil, taken, logger.Nop())

	assert.ErrorIs(t, err, errListen)
}

func TestServer_RunAndShutdown(t *testing.T) {
	cfg := config.Server{
		HTTPAddress:     "127.0.0.1:0",
		GRPCAddress:     "127.0.0.1:0",
		ShutdownTimeout: 5 * time.Second,
	}
	worker := &countingWorker{}

	srv, err := NewServer(testHandlers(t, cfg), workers.NewWorkers(worker), cfg, logger.Nop())
	require.NoError(t, err)
	s := srv.(*server)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// HTTP API answers
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + s.httpServer.Addr() + "/api/version/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var info models.AppBuildInfo
		return resp.StatusCode == http.StatusOK &&
			json.NewDecoder(resp.Body).Decode(&info) == nil &&
			info.Version == "1.0.0"
	}, 5*time.Second, 20*time.Millisecond)

	// health reports SERVING
	conn, err := grpc.NewClient(s.gRPCServer.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	health := healthpb.NewHealthClient(conn)

	require.Eventually(t, func() bool {
		resp, err := health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: myGRPC.ServiceName})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 5*time.Second, 20*time.Millisecond)

	assert.Eventually(t, worker.started.Load, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.True(t, worker.stopped.Load())

	_, err = http.Get("http://" + s.httpServer.Addr() + "/api/version/")
	assert.Error(t, err, "listener must be closed after shutdown")
}
