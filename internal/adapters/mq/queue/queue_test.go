package queue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func job(text string) (Job, chan Result) {
	reply := make(chan Result, 1)
	return Job{Ctx: context.Background(), Text: text, Reply: reply}, reply
}

func TestNewInMemoryQueue(t *testing.T) {
	q := NewInMemoryQueue()
	if q.capacity != defaultQueueCapacity {
		t.Errorf("expected capacity %d, got %d", defaultQueueCapacity, q.capacity)
	}
	if q.IsClosed() {
		t.Error("expected new queue to be open")
	}

	q = NewInMemoryQueue(WithCapacity(3), WithCapacity(-1))
	if q.capacity != 3 {
		t.Errorf("expected capacity 3, got %d", q.capacity)
	}
}

func TestInMemoryQueue_EnqueueDequeue(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	j1, _ := job("first")
	j2, _ := job("second")
	if !q.Enqueue(ctx, j1) || !q.Enqueue(ctx, j2) {
		t.Fatal("expected enqueue to succeed")
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}

	ch := q.Dequeue()
	if got := (<-ch).Text; got != "first" {
		t.Errorf("expected first, got %q", got)
	}
	if got := (<-ch).Text; got != "second" {
		t.Errorf("expected second, got %q", got)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Full(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, text := range []string{"a", "b"} {
		j, _ := job(text)
		if !q.Enqueue(ctx, j) {
			t.Fatalf("expected enqueue of %q to succeed", text)
		}
	}
	j, _ := job("c")
	if q.Enqueue(ctx, j) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j, _ := job("late")
	if q.Enqueue(ctx, j) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()
	const producers, perProducer = 8, 50

	var consumed sync.WaitGroup
	consumed.Add(producers * perProducer)
	for i := 0; i < 4; i++ {
		go func() {
			for range q.Dequeue() {
				consumed.Done()
			}
		}()
	}

	var produced sync.WaitGroup
	for i := 0; i < producers; i++ {
		produced.Add(1)
		go func() {
			defer produced.Done()
			for k := 0; k < perProducer; k++ {
				j, _ := job("text")
				for !q.Enqueue(ctx, j) {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}
	produced.Wait()
	consumed.Wait()
	_ = q.Close()

	if l := q.Len(); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	j, _ := job("pending")
	if !q.Enqueue(ctx, j) {
		t.Fatal("expected enqueue to succeed")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, j) {
		t.Error("expected enqueue to fail after closing")
	}

	// Jobs queued before Close are still delivered, then the channel closes.
	ch := q.Dequeue()
	if got, ok := <-ch; !ok || got.Text != "pending" {
		t.Errorf("expected pending job, got %q (ok=%v)", got.Text, ok)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected dequeue channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("expected dequeue channel to be closed within timeout")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
