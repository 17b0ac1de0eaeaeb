// Package delivery defines the contract shared by every inbound transport.
package delivery

import "context"

// Delivery is a long-running inbound transport, e.g. the REST API server.
type Delivery interface {
	// Serve blocks until the transport stops or fails to start.
	Serve(ctx context.Context) error
}
