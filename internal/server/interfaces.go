package server

import "context"

// Server defines the lifecycle of the control API server.
type Server interface {
	// Run serves until ctx is done or the listener fails.
	Run(ctx context.Context) error

	// Shutdown gracefully stops the server.
	Shutdown()
}
