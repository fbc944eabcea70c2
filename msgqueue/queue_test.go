// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msgqueue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// testItem is a WorkItem recording its own dispatch.
type testItem struct {
	name       string
	onDispatch func(*testItem) error
}

func (i *testItem) Dispatch() error {
	if i.onDispatch != nil {
		return i.onDispatch(i)
	}
	return nil
}

func (i *testItem) String() string {
	return i.name
}

// recordingEvents captures discard and worker-failure notifications.
type recordingEvents struct {
	mu       sync.Mutex
	discards []DiscardReason
	failures []error
}

func (e *recordingEvents) MessageDiscarded(item WorkItem, reason DiscardReason) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.discards = append(e.discards, reason)
}

func (e *recordingEvents) WorkerFailed(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures = append(e.failures, err)
}

func (e *recordingEvents) discardReasons() []DiscardReason {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]DiscardReason{}, e.discards...)
}

func (e *recordingEvents) failureCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.failures)
}

func TestFIFODeliveryOrder(t *testing.T) {
	q := New()

	var mu sync.Mutex
	var dispatched []string
	var wg sync.WaitGroup

	q.Start()
	defer q.Shutdown()

	names := []string{"A", "B", "C"}
	wg.Add(len(names))
	for _, name := range names {
		q.Enqueue(&testItem{name: name, onDispatch: func(i *testItem) error {
			mu.Lock()
			dispatched = append(dispatched, i.name)
			mu.Unlock()
			wg.Done()
			return nil
		}})
	}

	wg.Wait()
	assert.Equal(t, names, dispatched)
}

func TestNotifyBeforeDispatchInRegistrationOrder(t *testing.T) {
	q := New()

	var mu sync.Mutex
	var sequence []string
	var wg sync.WaitGroup

	q.Subscribe(NewListener(func(item WorkItem) {
		mu.Lock()
		sequence = append(sequence, fmt.Sprintf("first:%v", item))
		mu.Unlock()
	}))
	q.Subscribe(NewListener(func(item WorkItem) {
		mu.Lock()
		sequence = append(sequence, fmt.Sprintf("second:%v", item))
		mu.Unlock()
	}))

	q.Start()
	defer q.Shutdown()

	wg.Add(2)
	for _, name := range []string{"A", "B"} {
		q.Enqueue(&testItem{name: name, onDispatch: func(i *testItem) error {
			mu.Lock()
			sequence = append(sequence, fmt.Sprintf("dispatch:%s", i.name))
			mu.Unlock()
			wg.Done()
			return nil
		}})
	}

	wg.Wait()
	assert.Equal(t, []string{
		"first:A", "second:A", "dispatch:A",
		"first:B", "second:B", "dispatch:B",
	}, sequence)
}

func TestSizeBeforeWorkerStarted(t *testing.T) {
	q := New()

	for i := 0; i < 5; i++ {
		q.Enqueue(&testItem{name: fmt.Sprintf("item-%d", i)})
	}

	assert.Equal(t, 5, q.Size())
	assert.False(t, q.IsEmpty())
	assert.True(t, q.IsAlive())
	assert.Equal(t, WorkerNotStarted, q.WorkerStatus())
}

func TestShutdownDiscardsBufferedItems(t *testing.T) {
	events := &recordingEvents{}
	q := NewWithEvents(events)

	dispatched := false
	q.Enqueue(&testItem{name: "A", onDispatch: func(*testItem) error {
		dispatched = true
		return nil
	}})

	require.NoError(t, q.Shutdown())

	assert.False(t, dispatched)
	assert.False(t, q.IsAlive())
	assert.True(t, q.IsEmpty())
	assert.Equal(t, []DiscardReason{DiscardFlushedAtShutdown}, events.discardReasons())
	assert.Equal(t, uint64(1), q.Discarded())
}

func TestEnqueueAfterShutdownDiscards(t *testing.T) {
	events := &recordingEvents{}
	q := NewWithEvents(events)

	require.NoError(t, q.Shutdown())

	q.Enqueue(&testItem{name: "late"})

	assert.True(t, q.IsEmpty())
	assert.Equal(t, []DiscardReason{DiscardAfterShutdown}, events.discardReasons())
	assert.Equal(t, uint64(1), q.Discarded())
}

func TestShutdownTwice(t *testing.T) {
	q := New()
	require.NoError(t, q.Shutdown())
	assert.Equal(t, ErrAlreadyDead, q.Shutdown())
	assert.False(t, q.IsAlive())
}

func TestShutdownNeverStartedQueue(t *testing.T) {
	q := New()
	require.NoError(t, q.Shutdown())

	assert.False(t, q.IsAlive())
	assert.Equal(t, WorkerNotStarted, q.WorkerStatus())

	// Join must not block: no worker ever ran.
	assert.NoError(t, q.Join(context.Background()))
}

func TestStartAfterShutdownIsNoOp(t *testing.T) {
	q := New()
	require.NoError(t, q.Shutdown())

	q.Start()
	assert.Equal(t, WorkerNotStarted, q.WorkerStatus())
}

func TestStartIsIdempotent(t *testing.T) {
	q := New()
	defer q.Shutdown()

	var errg errgroup.Group
	for i := 0; i < 8; i++ {
		errg.Go(func() error {
			q.Start()
			return nil
		})
	}
	require.NoError(t, errg.Wait())

	assert.Equal(t, WorkerRunning, q.WorkerStatus())
}

func TestConcurrentProducersPreservePerProducerOrder(t *testing.T) {
	const producers = 4
	const perProducer = 50

	q := New()
	q.Start()

	var mu sync.Mutex
	dispatched := make(map[int][]int)
	var wg sync.WaitGroup
	wg.Add(producers * perProducer)

	var errg errgroup.Group
	for p := 0; p < producers; p++ {
		p := p
		errg.Go(func() error {
			for i := 0; i < perProducer; i++ {
				producer, seq := p, i
				q.Enqueue(&testItem{
					name: fmt.Sprintf("p%d-%d", producer, seq),
					onDispatch: func(*testItem) error {
						mu.Lock()
						dispatched[producer] = append(dispatched[producer], seq)
						mu.Unlock()
						wg.Done()
						return nil
					},
				})
			}
			return nil
		})
	}
	require.NoError(t, errg.Wait())
	wg.Wait()
	require.NoError(t, q.Shutdown())

	for p := 0; p < producers; p++ {
		require.Len(t, dispatched[p], perProducer)
		for i, seq := range dispatched[p] {
			assert.Equal(t, i, seq, "producer %d out of order", p)
		}
	}
	assert.Equal(t, uint64(producers*perProducer), q.Delivered())
}

func TestJoinTimeout(t *testing.T) {
	q := New()
	q.Start()
	defer q.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Equal(t, ErrJoinTimeout, q.Join(ctx))
}
