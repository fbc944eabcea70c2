// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package msgqueue implements the asynchronous message-delivery pipeline
that decouples producers of work items from the single worker goroutine
executing their side effects in strict arrival order.

# Pipeline

Producers enqueue opaque WorkItems from any goroutine. The worker
continuously dequeues the front item, notifies every registered
Listener in registration order, then invokes the item's Dispatch. FIFO
delivery order equals enqueue order across all producers combined.

[producer] q.Enqueue(item)
[producer] // returns immediately

[worker] item = dequeueNext() // blocks while the buffer is empty
[worker] listener.Notify(item) // every listener, registration order
[worker] item.Dispatch()

# Lifecycle

A queue starts alive and dies exactly once, on Shutdown. Shutdown
cancels delivery: items still buffered are discarded, not drained, and
every later Enqueue discards its item. Discards are reported through
the Events observer, never to the producer.

An unhandled failure while notifying or dispatching terminates the
worker permanently. The failure is logged and reported through Events;
it is never propagated to the producer that enqueued the failing item,
and the queue stays alive but inert until Start is called again.
WorkerStatus distinguishes a failed worker from a clean shutdown.
*/
package msgqueue
