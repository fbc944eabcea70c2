// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"fmt"
)

// State is the name of a machine state.
type State string

// Event is the name of a state-transition trigger.
type Event string

// ErrInvalidDefinition wraps every definition validation failure.
var ErrInvalidDefinition = errors.New("InvalidDefinition")

// TransitionDef declares one row of the transition table: Event fired
// while the machine is in Source moves it to Target. Hooks names the
// side effects bound at machine construction; they run in lexical name
// order regardless of the order listed here.
type TransitionDef struct {
	Source State
	Event  Event
	Target State
	Hooks  []string
}

// Definition is the declarative description of a machine: its states,
// initial state, and transition table.
type Definition struct {
	Name        string
	Initial     State
	States      []State
	Transitions []TransitionDef
}

// Validate checks referential integrity of the definition: the initial
// state and every transition endpoint must be declared states, and no
// (source, event) pair may appear twice.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: machine name is empty", ErrInvalidDefinition)
	}
	if len(d.States) == 0 {
		return fmt.Errorf("%w: machine %q declares no states", ErrInvalidDefinition, d.Name)
	}

	known := make(map[State]struct{}, len(d.States))
	for _, s := range d.States {
		if _, dup := known[s]; dup {
			return fmt.Errorf("%w: duplicate state %q", ErrInvalidDefinition, s)
		}
		known[s] = struct{}{}
	}

	if _, ok := known[d.Initial]; !ok {
		return fmt.Errorf("%w: initial state %q is not a declared state", ErrInvalidDefinition, d.Initial)
	}

	seen := make(map[transitionKey]struct{}, len(d.Transitions))
	for _, t := range d.Transitions {
		if _, ok := known[t.Source]; !ok {
			return fmt.Errorf("%w: transition on %q references unknown source state %q", ErrInvalidDefinition, t.Event, t.Source)
		}
		if _, ok := known[t.Target]; !ok {
			return fmt.Errorf("%w: transition on %q references unknown target state %q", ErrInvalidDefinition, t.Event, t.Target)
		}
		key := transitionKey{source: t.Source, event: t.Event}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate transition for event %q in state %q", ErrInvalidDefinition, t.Event, t.Source)
		}
		seen[key] = struct{}{}
	}

	return nil
}
