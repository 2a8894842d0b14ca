package notify

import (
	"context"
	"fmt"
	"log/slog"
)

const DefaultMaxDeliveries = 10

type Consumer struct {
	Queue         Queue
	Webhook       Deliverer
	MaxDeliveries int
	Metrics       *Metrics
	Logger        *slog.Logger
}

// Run drains the queue until ctx is cancelled. Failures on a single message are
// logged and never end the loop. A queue that cannot receive, complete or
// abandon ends it, so the next run resumes from the last acknowledged message.
func (c *Consumer) Run(ctx context.Context) error {
	l := c.logger()
	l.Info("consumer_started")

	for {
		d, err := c.Queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.Info("consumer_stopped")
				return nil
			}
			l.Error("receive_failed", "error", err)
			return fmt.Errorf("notify: receive: %w", err)
		}
		if err := c.handle(ctx, l, d); err != nil {
			if ctx.Err() != nil {
				l.Info("consumer_stopped")
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) handle(ctx context.Context, l *slog.Logger, d *Delivery) error {
	l = l.With("key", d.Key, "attempt", d.Attempt)

	n, err := Decode(d.Body)
	if err == nil {
		err = c.Webhook.Deliver(ctx, n.BookTitle, n.ReviewText)
	}

	if err == nil {
		if cerr := c.Queue.Complete(ctx, d); cerr != nil {
			l.Error("complete_failed", "error", cerr)
			return fmt.Errorf("notify: complete: %w", cerr)
		}
		c.Metrics.observe(OutcomeDelivered)
		l.Info("notification_delivered", "book_title", n.BookTitle)
		return nil
	}

	if d.Attempt >= c.maxDeliveries() {
		if cerr := c.Queue.Complete(ctx, d); cerr != nil {
			l.Error("complete_failed", "error", cerr)
			return fmt.Errorf("notify: complete: %w", cerr)
		}
		c.Metrics.observe(OutcomeDeadLettered)
		l.Error("notification_dead_lettered", "body", string(d.Body), "error", err)
		return nil
	}

	if aerr := c.Queue.Abandon(ctx, d); aerr != nil {
		l.Error("abandon_failed", "error", aerr)
		return fmt.Errorf("notify: abandon: %w", aerr)
	}
	c.Metrics.observe(OutcomeAbandoned)
	l.Warn("notification_abandoned", "error", err)
	return nil
}

func (c *Consumer) maxDeliveries() int {
	if c.MaxDeliveries > 0 {
		return c.MaxDeliveries
	}
	return DefaultMaxDeliveries
}

func (c *Consumer) logger() *slog.Logger {
	l := c.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", "notify.consumer")
}
