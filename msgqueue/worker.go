// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msgqueue

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// WorkerState is the lifecycle state of the queue's worker goroutine.
// WorkerStopped (clean exit after shutdown) and WorkerFailed
// (terminated by an unhandled delivery failure) are deliberately
// distinct so that liveness probes can tell the two apart.
type WorkerState int

const (
	// WorkerNotStarted means Start was never called.
	WorkerNotStarted WorkerState = iota
	// WorkerRunning means the worker goroutine is pulling items.
	WorkerRunning
	// WorkerStopped means the worker exited cleanly after shutdown.
	WorkerStopped
	// WorkerFailed means the worker terminated on an unhandled
	// failure while notifying listeners or dispatching an item.
	WorkerFailed
)

func (s WorkerState) String() string {
	switch s {
	case WorkerNotStarted:
		return "NotStarted"
	case WorkerRunning:
		return "Running"
	case WorkerStopped:
		return "Stopped"
	case WorkerFailed:
		return "Failed"
	default:
		return fmt.Sprintf("WorkerState(%d)", int(s))
	}
}

// runWorker drains the queue until shutdown or an unhandled failure.
// The failure is reported through Events and never propagated to any
// producer; the pipeline stays inert until Start is called again.
func (q *MessageQueue) runWorker(done chan struct{}) {
	defer close(done)

	err := q.drainLoop()

	q.cond.L.Lock()
	if err != nil {
		q.workerState = WorkerFailed
	} else {
		q.workerState = WorkerStopped
	}
	q.cond.L.Unlock()

	if err != nil {
		q.events.WorkerFailed(err)
	}
}

func (q *MessageQueue) drainLoop() error {
	for {
		item, err := q.dequeueNext()
		if errors.Is(err, errQueueDead) {
			log.Debug("message queue worker exiting: queue shut down")
			return nil
		}
		if err := q.deliver(item); err != nil {
			return err
		}
	}
}

// dequeueNext blocks until an item is available or the queue dies.
// This is the worker's only suspension point; Shutdown broadcasts the
// condition so a waiting worker never outlives the queue.
func (q *MessageQueue) dequeueNext() (WorkItem, error) {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	for len(q.buffer) == 0 && q.alive {
		q.cond.Wait()
	}
	if !q.alive {
		return nil, errQueueDead
	}

	item := q.buffer[0]
	q.buffer = q.buffer[1:]
	return item, nil
}

// deliver notifies every listener in registration order, then
// dispatches the item. Listener failures are not isolated from the
// loop: a panic in either phase is converted to an error, and any
// error is fatal to the worker.
func (q *MessageQueue) deliver(item WorkItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during delivery: %v", r)
		}
	}()

	for _, l := range q.snapshotListeners() {
		l.Notify(item)
	}

	if err := item.Dispatch(); err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	q.cond.L.Lock()
	q.delivered++
	q.cond.L.Unlock()
	return nil
}

func (q *MessageQueue) snapshotListeners() []*Listener {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()
	// The registry is append-only, so a capped slice of the current
	// length is a stable snapshot.
	return q.listeners[:len(q.listeners):len(q.listeners)]
}
