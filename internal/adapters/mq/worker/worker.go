// Package worker runs embedding jobs off the queue.
//
// Remote embedding backends are not called from request goroutines directly.
// Serialized puts a Pool in front of them: each call becomes a queue job that
// a small, fixed set of workers executes, so the backend sees at most one
// request per worker at a time.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/careerpath/internal/adapters/mq/queue"
	"github.com/okian/careerpath/internal/domain/embedding"
	"github.com/okian/careerpath/pkg/logger"
)

const (
	defaultWorkerCount  = 1
	poolShutdownTimeout = 30 * time.Second
)

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan queue.Job
}

// Worker executes embedding jobs.
type Worker interface {
	// Run processes jobs until the queue is drained or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown waits for Run to return.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker executes jobs from a Queue against an Embedder.
type InMemoryWorker struct {
	queue    Queue
	embedder embedding.Embedder
	name     string
	done     chan struct{}
	logger   logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, e embedding.Embedder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		embedder: e,
		name:     "worker",
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns when the queue channel is closed
// and drained, or when ctx is canceled.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(j)
		}
	}
}

// Shutdown waits for the worker loop to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(j queue.Job) {
	ctx := j.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	// The caller may have given up while the job waited.
	if err := ctx.Err(); err != nil {
		j.Reply <- queue.Result{Err: err}
		return
	}

	v, err := w.embedder.Embed(ctx, j.Text)
	if err != nil {
		w.logger.Warn(ctx, "embedding job failed", logger.Error(err))
	}
	j.Reply <- queue.Result{Vector: v, Err: err}
}

type poolState int

const (
	poolIdle poolState = iota
	poolRunning
	poolStopped
)

// Pool serializes calls to an Embedder through a bounded queue and a fixed
// set of workers. It implements embedding.Embedder itself.
type Pool struct {
	embedder    embedding.Embedder
	queue       queue.Queue
	workerCount int
	capacity    int
	workers     []*InMemoryWorker
	logger      logger.Logger

	mu      sync.Mutex
	state   poolState
	cancel  context.CancelFunc
	stopped chan struct{}
}

// Serialized wraps next so that every Embed call runs on the pool's workers.
// Start must be called before the returned pool can make progress.
func Serialized(next embedding.Embedder, opts ...PoolOption) *Pool {
	p := &Pool{
		embedder:    next,
		workerCount: defaultWorkerCount,
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("embed-pool")
	}

	var qopts []queue.Option
	if p.capacity > 0 {
		qopts = append(qopts, queue.WithCapacity(p.capacity))
	}
	p.queue = queue.NewInMemoryQueue(qopts...)

	p.workers = make([]*InMemoryWorker, p.workerCount)
	for i := range p.workers {
		name := fmt.Sprintf("embed-worker-%d", i)
		p.workers[i] = NewInMemoryWorker(p.queue, next,
			WithName(name),
			WithLogger(p.logger.Named(name)),
		)
	}
	return p
}

// Start launches the workers. Calling it again, or after Stop, does nothing.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != poolIdle {
		return
	}
	p.state = poolRunning

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(w *InMemoryWorker) {
			defer wg.Done()
			w.Run(runCtx)
		}(w)
	}
	go func() {
		wg.Wait()
		close(p.stopped)
	}()

	p.logger.Info(ctx, "embedding pool started",
		logger.Int("workers", len(p.workers)),
	)
}

// Stop closes the queue, lets the workers drain it and waits for them.
// Jobs still queued after poolShutdownTimeout are abandoned.
func (p *Pool) Stop() {
	p.mu.Lock()
	prev := p.state
	p.state = poolStopped
	p.mu.Unlock()

	switch prev {
	case poolStopped:
		return
	case poolIdle:
		_ = p.queue.Close()
		close(p.stopped)
		return
	}

	_ = p.queue.Close()
	select {
	case <-p.stopped:
	case <-time.After(poolShutdownTimeout):
		p.logger.Warn(context.Background(), "embedding pool shutdown timed out")
	}
	p.cancel()
	<-p.stopped
}

// Embed implements embedding.Embedder. It fails fast with ErrBackpressure
// when the queue is full and with ErrStopped once the pool is stopped.
func (p *Pool) Embed(ctx context.Context, text string) (embedding.Vector, error) {
	if p.queue.IsClosed() {
		return nil, ErrStopped
	}

	reply := make(chan queue.Result, 1)
	if !p.queue.Enqueue(ctx, queue.Job{Ctx: ctx, Text: text, Reply: reply}) {
		switch {
		case p.queue.IsClosed():
			return nil, ErrStopped
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			return nil, ErrBackpressure
		}
	}

	select {
	case r := <-reply:
		return r.Vector, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.stopped:
		select {
		case r := <-reply:
			return r.Vector, r.Err
		default:
			return nil, ErrStopped
		}
	}
}

// Dimension implements embedding.Embedder.
func (p *Pool) Dimension() int { return p.embedder.Dimension() }

// Pending returns the number of jobs waiting for a worker.
func (p *Pool) Pending() int { return p.queue.Len() }
