// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msgqueue

import (
	log "github.com/sirupsen/logrus"
)

// DiscardReason says why an item was dropped without delivery.
type DiscardReason string

const (
	// DiscardAfterShutdown means the item was enqueued on a dead queue.
	DiscardAfterShutdown DiscardReason = "EnqueueAfterShutdown"
	// DiscardFlushedAtShutdown means the item was buffered when
	// Shutdown captured and cleared the buffer.
	DiscardFlushedAtShutdown DiscardReason = "FlushedAtShutdown"
)

// Events receives structured notifications about observable queue
// incidents. Discards are never surfaced to the producer that enqueued
// the item; this observer is the only place they become visible.
// Implementations must be safe for concurrent use.
type Events interface {
	// MessageDiscarded is invoked once per dropped item, outside the
	// queue lock.
	MessageDiscarded(item WorkItem, reason DiscardReason)
	// WorkerFailed is invoked when the worker goroutine terminates on
	// an unhandled delivery failure.
	WorkerFailed(err error)
}

// logEvents is the default observer; it renders incidents to the
// process log and nothing else.
type logEvents struct{}

func (logEvents) MessageDiscarded(item WorkItem, reason DiscardReason) {
	log.Warnf("discarded message: %v (%s)", item, reason)
}

func (logEvents) WorkerFailed(err error) {
	log.WithError(err).Error("message queue worker terminated")
}
