// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msgqueue

import (
	"context"
	"sync"
)

// WorkItem is an opaque unit of deferred work. Dispatch performs the
// item's side effect and is invoked at most once, on the queue's worker
// goroutine, after every listener has been notified of the delivery.
type WorkItem interface {
	Dispatch() error
}

// Listener observes deliveries. Notify is invoked once per delivered
// item, before the item is dispatched, in listener registration order.
type Listener struct {
	callback func(WorkItem)
}

// NewListener returns a Listener wrapping the given delivery callback.
func NewListener(callback func(WorkItem)) *Listener {
	return &Listener{callback: callback}
}

// Notify delivers item to the listener's callback.
func (l *Listener) Notify(item WorkItem) {
	l.callback(item)
}

// MessageQueue is an ordered, thread-safe buffer of WorkItems drained
// by a single worker goroutine. Producers enqueue from any goroutine;
// the worker dequeues each item, notifies every registered listener,
// then dispatches the item. Delivery order equals enqueue order.
//
// The queue is created alive and becomes dead exactly once, on
// Shutdown. A dead queue discards everything: items buffered at
// shutdown and items enqueued afterwards are dropped without delivery,
// each drop reported through the Events observer.
type MessageQueue struct {
	cond *sync.Cond

	buffer    []WorkItem
	listeners []*Listener
	alive     bool

	workerState WorkerState
	workerDone  chan struct{}

	delivered uint64
	discarded uint64

	events Events
}

// New returns an alive queue reporting discards and worker failures to
// the default logging observer. The worker is not started; call Start.
func New() *MessageQueue {
	return NewWithEvents(nil)
}

// NewWithEvents returns an alive queue reporting to the given observer.
// A nil observer falls back to the default logging observer.
func NewWithEvents(events Events) *MessageQueue {
	if events == nil {
		events = logEvents{}
	}
	return &MessageQueue{
		cond:   sync.NewCond(&sync.Mutex{}),
		alive:  true,
		events: events,
	}
}

// Start spawns the worker goroutine. It is a no-op while a worker is
// already running and on a dead queue. After a worker terminated due
// to a delivery failure, Start spawns a fresh one; at most one worker
// exists at any time. Safe to call from any goroutine.
func (q *MessageQueue) Start() {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	if !q.alive || q.workerState == WorkerRunning {
		return
	}

	q.workerState = WorkerRunning
	q.workerDone = make(chan struct{})
	go q.runWorker(q.workerDone)
}

// Enqueue appends item for delivery in FIFO order. On a dead queue the
// item is discarded: the discard is reported through Events and nothing
// is returned to the caller. Safe for concurrent producers.
func (q *MessageQueue) Enqueue(item WorkItem) {
	q.cond.L.Lock()
	if !q.alive {
		q.discarded++
		q.cond.L.Unlock()
		q.events.MessageDiscarded(item, DiscardAfterShutdown)
		return
	}
	q.buffer = append(q.buffer, item)
	q.cond.Signal()
	q.cond.L.Unlock()
}

// Subscribe registers a listener. Registration order is notification
// order. Listeners cannot be removed. A listener registered while a
// delivery is in flight may or may not see that delivery.
func (q *MessageQueue) Subscribe(l *Listener) {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()
	q.listeners = append(q.listeners, l)
}

// Shutdown kills the queue. The buffer is captured and cleared under
// the lock together with the alive flag flip; captured items are then
// discarded outside the lock, one Events notification each, without
// delivery or dispatch. A worker blocked waiting for work is woken and
// exits cleanly. Shutdown does not join the worker; use Join.
//
// Returns ErrAlreadyDead if the queue was already shut down.
func (q *MessageQueue) Shutdown() error {
	q.cond.L.Lock()
	if !q.alive {
		q.cond.L.Unlock()
		return ErrAlreadyDead
	}
	q.alive = false
	flushed := q.buffer
	q.buffer = nil
	q.discarded += uint64(len(flushed))
	q.cond.Broadcast()
	q.cond.L.Unlock()

	for _, item := range flushed {
		q.events.MessageDiscarded(item, DiscardFlushedAtShutdown)
	}
	return nil
}

// Join blocks until the worker goroutine terminates or ctx expires,
// returning ErrJoinTimeout in the latter case. It returns immediately
// when no worker was ever started.
func (q *MessageQueue) Join(ctx context.Context) error {
	q.cond.L.Lock()
	done := q.workerDone
	q.cond.L.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrJoinTimeout
	}
}

// Size returns a snapshot of the number of buffered items.
func (q *MessageQueue) Size() int {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()
	return len(q.buffer)
}

// IsEmpty reports whether the buffer currently holds no items.
func (q *MessageQueue) IsEmpty() bool {
	return q.Size() == 0
}

// IsAlive reports whether the queue accepts new work. It reflects
// shutdown state only; a queue whose worker terminated on failure is
// still alive. Use WorkerStatus to distinguish the two.
func (q *MessageQueue) IsAlive() bool {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()
	return q.alive
}

// WorkerStatus returns the lifecycle state of the worker goroutine.
func (q *MessageQueue) WorkerStatus() WorkerState {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()
	return q.workerState
}

// Delivered returns the number of items dispatched so far.
func (q *MessageQueue) Delivered() uint64 {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()
	return q.delivered
}

// Discarded returns the number of items dropped without delivery.
func (q *MessageQueue) Discarded() uint64 {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()
	return q.discarded
}
