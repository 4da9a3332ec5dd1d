package pipeline

import (
	"context"
	"sync"
)

// Queue is a closable FIFO handing items from one producer stage to one
// consumer stage.
//
// Close atomically combines "no more items will be pushed" with the drained
// check, so a consumer blocked in Pop is always woken once the producer is
// gone: it receives the remaining items and then ok == false.
//
// A capacity of zero means unbounded. With a positive capacity, Push blocks
// while the queue is full.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []T
	head     int
	capacity int
	closed   bool
}

// NewQueue creates a queue. capacity <= 0 creates an unbounded queue.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	q := &Queue[T]{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends item at the tail. It blocks while a bounded queue is full and
// returns ErrClosed if the queue is (or becomes) closed.
func (q *Queue[T]) Push(item T) error {
	return q.PushContext(context.Background(), item)
}

// PushContext is Push that also gives up when ctx is done.
func (q *Queue[T]) PushContext(ctx context.Context, item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	if q.full() {
		stop := q.wakeOnDone(ctx, q.notFull)
		defer stop()

		for q.full() && !q.closed {
			if err := ctx.Err(); err != nil {
				return err
			}
			q.notFull.Wait()
		}
		if q.closed {
			return ErrClosed
		}
	}

	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return nil
}

// Pop removes the head item. It blocks until an item is available or the
// queue is closed and empty, in which case ok is false.
func (q *Queue[T]) Pop() (item T, ok bool) {
	item, ok, _ = q.PopContext(context.Background())
	return item, ok
}

// PopContext is Pop that also gives up when ctx is done. The error is
// non-nil only when ctx ended the wait.
func (q *Queue[T]) PopContext(ctx context.Context) (item T, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size() == 0 && !q.closed {
		stop := q.wakeOnDone(ctx, q.notEmpty)
		defer stop()

		for q.size() == 0 && !q.closed {
			if err := ctx.Err(); err != nil {
				return item, false, err
			}
			q.notEmpty.Wait()
		}
	}

	if q.size() == 0 {
		return item, false, nil
	}

	item = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	q.notFull.Signal()
	return item, true, nil
}

// Close marks the queue as finished. Buffered items stay poppable.
// Calling Close more than once has no further effect.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// IsEmpty reports whether no items are buffered. Advisory only: never use it
// to decide that the producer is finished.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size()
}

// Cap returns the capacity bound, 0 when unbounded.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

func (q *Queue[T]) size() int {
	return len(q.items) - q.head
}

func (q *Queue[T]) full() bool {
	return q.capacity > 0 && q.size() >= q.capacity
}

// wakeOnDone broadcasts cond when ctx ends. The caller holds q.mu, so the
// broadcast cannot slip in between the ctx check and cond.Wait.
func (q *Queue[T]) wakeOnDone(ctx context.Context, cond *sync.Cond) func() bool {
	if ctx.Done() == nil {
		return func() bool { return false }
	}
	return context.AfterFunc(ctx, func() {
		q.mu.Lock()
		cond.Broadcast()
		q.mu.Unlock()
	})
}
