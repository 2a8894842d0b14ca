package notify

import (
	"context"
	"sync"
)

type memoryMessage struct {
	key       string
	body      []byte
	delivered int
}

// MemoryQueue is an in-process Queue used when no broker is configured and in tests.
// Send blocks while the buffer is full; Abandon never blocks, abandoned messages
// wait in an unbounded redelivery list that Receive drains first.
type MemoryQueue struct {
	ch   chan memoryMessage
	wake chan struct{}
	done chan struct{}
	once sync.Once

	mu        sync.Mutex
	redeliver []memoryMessage
	completed int
	abandoned int
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryQueue{
		ch:   make(chan memoryMessage, capacity),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (q *MemoryQueue) Send(ctx context.Context, key string, body []byte) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- memoryMessage{key: key, body: body}:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Receive(ctx context.Context) (*Delivery, error) {
	for {
		select {
		case <-q.done:
			return nil, ErrQueueClosed
		default:
		}
		if m, ok := q.popRedelivery(); ok {
			return m.delivery(), nil
		}
		select {
		case m := <-q.ch:
			return m.delivery(), nil
		case <-q.wake:
		case <-q.done:
			return nil, ErrQueueClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *MemoryQueue) popRedelivery() (memoryMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.redeliver) == 0 {
		return memoryMessage{}, false
	}
	m := q.redeliver[0]
	q.redeliver = q.redeliver[1:]
	return m, true
}

func (m memoryMessage) delivery() *Delivery {
	return &Delivery{Key: m.key, Body: m.body, Attempt: m.delivered + 1}
}

func (q *MemoryQueue) Complete(_ context.Context, _ *Delivery) error {
	q.mu.Lock()
	q.completed++
	q.mu.Unlock()
	return nil
}

func (q *MemoryQueue) Abandon(_ context.Context, d *Delivery) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	q.mu.Lock()
	q.abandoned++
	q.redeliver = append(q.redeliver, memoryMessage{key: d.Key, body: d.Body, delivered: d.Attempt})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

func (q *MemoryQueue) Close() error {
	q.once.Do(func() { close(q.done) })
	return nil
}

// Len counts messages waiting to be received, including redeliveries.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ch) + len(q.redeliver)
}

func (q *MemoryQueue) Stats() (completed, abandoned int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.completed, q.abandoned
}
