// Package notify queues "dish ready" notifications so that timers finishing
// on the same tick are shown one after another instead of being merged or
// dropped.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/korjavin/kitchentimer/pkg/logger"
	"github.com/korjavin/kitchentimer/pkg/models"
)

// Notification announces that a timer reached zero
type Notification struct {
	ChatID int64
	Timer  models.Timer
	At     time.Time
}

// Sink presents a notification to the user
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, n Notification) error

// Deliver calls f(ctx, n)
func (f SinkFunc) Deliver(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Queue is an unbounded FIFO of notifications drained by Run
type Queue struct {
	sink   Sink
	logger *logger.Logger

	mu      sync.Mutex
	pending []Notification
	signal  chan struct{}
}

// NewQueue creates a queue delivering to sink
func NewQueue(sink Sink) *Queue {
	return &Queue{
		sink:   sink,
		logger: logger.New("notify"),
		signal: make(chan struct{}, 1),
	}
}

// Push appends a notification. It never blocks
func (q *Queue) Push(n Notification) {
	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Len returns the number of notifications waiting for delivery
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run delivers notifications one at a time in push order until ctx is done.
// A failed delivery is logged and not retried
func (q *Queue) Run(ctx context.Context) error {
	for {
		for {
			n, ok := q.pop()
			if !ok {
				break
			}
			if err := q.sink.Deliver(ctx, n); err != nil {
				q.logger.Error("Failed to deliver notification for timer %s to chat %d: %v", n.Timer.ID, n.ChatID, err)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.signal:
		}
	}
}

func (q *Queue) pop() (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return Notification{}, false
	}
	n := q.pending[0]
	q.pending[0] = Notification{}
	q.pending = q.pending[1:]
	return n, true
}
