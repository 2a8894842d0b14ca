package notify

import (
	"context"
	"fmt"
)

type Producer interface {
	Enqueue(ctx context.Context, n Notification) error
}

type QueueProducer struct {
	Queue Queue
}

func NewProducer(q Queue) *QueueProducer {
	return &QueueProducer{Queue: q}
}

func (p *QueueProducer) Enqueue(ctx context.Context, n Notification) error {
	if err := p.Queue.Send(ctx, n.BookUID, []byte(Encode(n))); err != nil {
		return fmt.Errorf("%w: %v", ErrEnqueueFailed, err)
	}
	return nil
}
