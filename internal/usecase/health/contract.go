package health

import "context"

// BackendPinger checks that the search service accepts connections.
type BackendPinger interface {
	Ping(ctx context.Context) error
}
