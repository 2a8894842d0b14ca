package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

const maxRestartDelay = 30 * time.Second

// Supervisor owns the consumer goroutine. It restarts Run with exponential
// backoff and, once restarts are exhausted, reports the last error through Err
// and closes Done.
type Supervisor struct {
	Run         func(ctx context.Context) error
	MaxRestarts uint64
	BaseDelay   time.Duration
	Metrics     *Metrics
	Logger      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		err := s.loop(ctx)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	}()
}

func (s *Supervisor) loop(ctx context.Context) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l = l.With("component", "notify.supervisor")

	base := s.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	b := retry.WithCappedDuration(maxRestartDelay, retry.NewExponential(base))
	b = retry.WithMaxRetries(s.MaxRestarts, b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if attempt > 0 {
			s.Metrics.restarted()
			l.Warn("consumer_restarting", "attempt", attempt)
		}
		attempt++

		err := s.Run(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		l.Error("consumer_crashed", "error", err)
		return retry.RetryableError(err)
	})
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	if err != nil {
		l.Error("consumer_gave_up", "restarts", attempt-1, "error", err)
	}
	return err
}

// Stop cancels the consumer and waits for it to return or for ctx to expire.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the consumer has stopped for good. It is nil before Start.
func (s *Supervisor) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
