package server

import "context"

// Server defines the lifecycle contract of the application server.
type Server interface {
	// RunServer serves until SIGTERM, SIGINT or SIGQUIT arrives and then
	// shuts everything down gracefully.
	RunServer()

	// Run serves until ctx is cancelled.
	Run(ctx context.Context) error
}

// transport is a single listener managed by the server.
type transport interface {
	Serve()
	Shutdown(ctx context.Context)
	Addr() string
}
