// Package server holds the contracts the HTTP server wires against.
package server

import "context"

// HealthChecker reports whether the service's backing dependencies are
// reachable. The health endpoint answers 503 when it returns false.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}
