// Package queue holds embedding jobs waiting for a worker.
//
// The queue is a bounded in-memory channel. Enqueue never blocks: a full or
// closed queue rejects the job and the caller decides what to report.
package queue

import (
	"context"
	"sync"

	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/pkg/metrics"
)

const defaultQueueCapacity = 64

// Result is what a worker sends back for a Job.
type Result struct {
	Vector embedding.Vector
	Err    error
}

// Job is one text waiting to be embedded. Reply must be buffered so a worker
// never blocks on a caller that gave up.
type Job struct {
	Ctx   context.Context //nolint:containedctx // the caller's deadline travels with the job
	Text  string
	Reply chan<- Result
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns false if the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns the channel jobs are delivered on. It is closed once
	// the queue is closed and drained.
	Dequeue() <-chan Job

	// Len returns the number of waiting jobs.
	Len() int

	// Close stops accepting jobs. Jobs already queued are still delivered.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with the given options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	metrics.UpdateEmbedQueueSize(0)
	return q
}

// Enqueue adds a job without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordEmbedError("queue_closed")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordEmbedError("context_cancelled")
		return false
	}

	select {
	case q.jobs <- j:
		metrics.UpdateEmbedQueueSize(len(q.jobs))
		return true
	default:
		metrics.RecordEmbedError("queue_full")
		return false
	}
}

// Dequeue returns the job channel.
func (q *InMemoryQueue) Dequeue() <-chan Job {
	return q.jobs
}

// Len returns the number of waiting jobs.
func (q *InMemoryQueue) Len() int {
	n := len(q.jobs)
	metrics.UpdateEmbedQueueSize(n)
	return n
}

// Close stops accepting new jobs. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue was closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
