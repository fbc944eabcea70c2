// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core implements the state-machine engine that owns the
// message pipeline: transition tables, named hooks, and the machines
// that funnel fired events through a single msgqueue worker.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/statekit/statekit/msgqueue"
)

// ErrTransitionNotAllowed is returned when an event has no transition
// from the machine's current state.
var ErrTransitionNotAllowed = errors.New("TransitionNotAllowed")

// ErrUnknownHook is returned when a definition names a hook with no
// binding.
var ErrUnknownHook = errors.New("UnknownHook")

// Transition describes one applied state change; it is the argument
// passed to every hook of that transition.
type Transition struct {
	Machine string
	Source  State
	Event   Event
	Target  State
	Args    []interface{}
}

// Hook is a transition side effect. Hooks bound to the same transition
// run in lexical name order, on the machine's worker goroutine when
// the event arrived through Fire.
type Hook func(t Transition) error

type transitionKey struct {
	source State
	event  Event
}

type boundHook struct {
	name string
	fn   Hook
}

// Machine executes a transition table. Events fired asynchronously are
// funneled through a single MessageQueue, so their side effects run in
// strict arrival order on one goroutine.
type Machine struct {
	id   uuid.UUID
	name string

	mu          sync.RWMutex
	current     State
	transitions map[transitionKey]State
	hooks       map[transitionKey][]boundHook

	queue *msgqueue.MessageQueue
}

// NewMachine builds a machine from def, resolving every hook name
// through bindings. A nil queue gets a private one. The machine starts
// in def.Initial with its worker not yet running; call Start.
func NewMachine(def Definition, bindings map[string]Hook, queue *msgqueue.MessageQueue) (*Machine, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if queue == nil {
		queue = msgqueue.New()
	}

	m := &Machine{
		id:          uuid.New(),
		name:        def.Name,
		current:     def.Initial,
		transitions: make(map[transitionKey]State, len(def.Transitions)),
		hooks:       make(map[transitionKey][]boundHook),
		queue:       queue,
	}

	for _, t := range def.Transitions {
		key := transitionKey{source: t.Source, event: t.Event}
		m.transitions[key] = t.Target

		names := append([]string{}, t.Hooks...)
		sort.Strings(names)
		for _, name := range names {
			fn, ok := bindings[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q on event %q", ErrUnknownHook, name, t.Event)
			}
			m.hooks[key] = append(m.hooks[key], boundHook{name: name, fn: fn})
		}
	}

	return m, nil
}

// ID returns the machine instance identifier.
func (m *Machine) ID() uuid.UUID {
	return m.id
}

// Name returns the machine name from its definition.
func (m *Machine) Name() string {
	return m.name
}

// Current returns a snapshot of the machine's current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Queue returns the machine's message queue.
func (m *Machine) Queue() *msgqueue.MessageQueue {
	return m.queue
}

// Start spawns the queue worker that applies fired events.
func (m *Machine) Start() {
	m.queue.Start()
}

// Shutdown kills the machine's queue; events fired afterwards are
// discarded. Returns msgqueue.ErrAlreadyDead on a second call.
func (m *Machine) Shutdown() error {
	return m.queue.Shutdown()
}

// Join blocks until the queue worker terminates or ctx expires.
func (m *Machine) Join(ctx context.Context) error {
	return m.queue.Join(ctx)
}

// Fire enqueues event for asynchronous application on the worker
// goroutine. An event illegal for the then-current state is dropped
// with a warning when it is eventually applied; it does not kill the
// pipeline. Safe to call from any goroutine.
func (m *Machine) Fire(event Event, args ...interface{}) {
	m.queue.Enqueue(&eventItem{machine: m, event: event, args: args})
}

// FireSync applies event on the calling goroutine, bypassing the
// queue. It returns ErrTransitionNotAllowed when the event is illegal
// for the current state, or the first failing hook's error.
func (m *Machine) FireSync(event Event, args ...interface{}) error {
	return m.apply(event, args)
}

// OnTransition binds an additional named hook to an existing
// transition, preserving lexical hook order. It returns
// ErrTransitionNotAllowed when the (source, event) pair is not in the
// transition table.
func (m *Machine) OnTransition(source State, event Event, name string, fn Hook) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := transitionKey{source: source, event: event}
	if _, ok := m.transitions[key]; !ok {
		return fmt.Errorf("%w: no transition for event %q in state %q", ErrTransitionNotAllowed, event, source)
	}

	hooks := append(m.hooks[key], boundHook{name: name, fn: fn})
	sort.Slice(hooks, func(i, j int) bool { return hooks[i].name < hooks[j].name })
	m.hooks[key] = hooks
	return nil
}

func (m *Machine) apply(event Event, args []interface{}) error {
	m.mu.Lock()
	source := m.current
	key := transitionKey{source: source, event: event}
	target, ok := m.transitions[key]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: event %q in state %q", ErrTransitionNotAllowed, event, source)
	}
	m.current = target
	hooks := append([]boundHook{}, m.hooks[key]...)
	m.mu.Unlock()

	log.WithFields(log.Fields{
		"machine": m.name,
		"id":      m.id,
		"source":  source,
		"event":   event,
		"target":  target,
	}).Debug("applied transition")

	t := Transition{
		Machine: m.name,
		Source:  source,
		Event:   event,
		Target:  target,
		Args:    args,
	}
	for _, h := range hooks {
		if err := h.fn(t); err != nil {
			return fmt.Errorf("hook %s: %w", h.name, err)
		}
	}
	return nil
}
