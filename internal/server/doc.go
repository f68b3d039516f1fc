// Package server wires and runs the application's transport servers.
//
// It owns the lifecycle of the HTTP API, the gRPC health service and the
// background workers: startup, signal handling and graceful shutdown.
package server
