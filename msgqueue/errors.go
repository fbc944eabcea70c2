// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msgqueue

import "errors"

// ErrAlreadyDead is returned by Shutdown on a queue that was already
// shut down.
var ErrAlreadyDead = errors.New("QueueAlreadyDead")

// ErrJoinTimeout is returned by Join when the context expires before
// the worker goroutine terminates.
var ErrJoinTimeout = errors.New("JoinTimeout")

// errQueueDead signals a worker blocked in dequeueNext that the queue
// died while it was waiting.
var errQueueDead = errors.New("QueueDead")
