package queue

import "context"

// Client sends enrichment requests to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
