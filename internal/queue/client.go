package queue

import "context"

// Client sends side-effect tasks to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
