package events

import (
	"context"
	"sync"
)

// Queue is an in-process buffered Publisher. Events are consumed by
// Handler.Run.
type Queue struct {
	mu     sync.RWMutex
	ch     chan RegistrationCompleted
	closed bool
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan RegistrationCompleted, size)}
}

// Publish blocks while the buffer is full until ctx is done.
func (q *Queue) Publish(ctx context.Context, ev RegistrationCompleted) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Events() <-chan RegistrationCompleted {
	return q.ch
}

// Close stops accepting events. Buffered events are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
