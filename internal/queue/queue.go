// Package queue holds the cycle indices waiting for the worker.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrNegativeCounter is returned when TaskDone is called more often than Put.
var ErrNegativeCounter = errors.New("task done called more times than put")

// Queue is an unbounded FIFO of cycle indices. Every Put must be matched by a
// TaskDone once the index has been handled; Join waits until that happens
// for everything put so far.
type Queue struct {
	changed    chan struct{}
	items      []int
	unfinished int
	mu         sync.Mutex
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{changed: make(chan struct{})}
}

// Put appends index. It never blocks.
func (q *Queue) Put(index int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, index)
	q.unfinished++
	q.broadcast()
}

// Get removes and returns the oldest index, waiting until one is available
// or ctx is done.
func (q *Queue) Get(ctx context.Context) (int, error) {
	for {
		q.mu.Lock()

		if len(q.items) > 0 {
			index := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()

			return index, nil
		}

		changed := q.changed
		q.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// TaskDone marks one previously retrieved index as handled.
func (q *Queue) TaskDone() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.unfinished == 0 {
		return ErrNegativeCounter
	}

	q.unfinished--
	if q.unfinished == 0 {
		q.broadcast()
	}

	return nil
}

// Join waits until every index put so far has been marked done, or ctx is done.
func (q *Queue) Join(ctx context.Context) error {
	for {
		q.mu.Lock()

		if q.unfinished == 0 {
			q.mu.Unlock()

			return nil
		}

		changed := q.changed
		q.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Len returns the number of indices waiting to be retrieved.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

// Unfinished returns the number of indices put but not yet marked done.
func (q *Queue) Unfinished() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.unfinished
}

// broadcast wakes every waiter. Callers hold mu.
func (q *Queue) broadcast() {
	close(q.changed)
	q.changed = make(chan struct{})
}
