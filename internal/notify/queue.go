package notify

import "context"

// Delivery is one received message. Attempt counts deliveries starting at 1.
type Delivery struct {
	Key     string
	Body    []byte
	Attempt int

	ref any
}

// Queue is an at-least-once queue. A received message must be either completed
// or abandoned; an abandoned message is delivered again later.
type Queue interface {
	Send(ctx context.Context, key string, body []byte) error
	Receive(ctx context.Context) (*Delivery, error)
	Complete(ctx context.Context, d *Delivery) error
	Abandon(ctx context.Context, d *Delivery) error
	Close() error
}
