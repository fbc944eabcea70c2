// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// eventItem is the WorkItem a Fire call enqueues; dispatching it
// applies the event on the worker goroutine.
type eventItem struct {
	machine *Machine
	event   Event
	args    []interface{}
}

func (i *eventItem) Dispatch() error {
	err := i.machine.apply(i.event, i.args)
	if errors.Is(err, ErrTransitionNotAllowed) {
		// An illegal event is a producer mistake, not a pipeline
		// failure. Hook errors still terminate the worker.
		log.WithError(err).Warnf("machine %s: dropping event %s", i.machine.name, i.event)
		return nil
	}
	return err
}

func (i *eventItem) String() string {
	return fmt.Sprintf("event %s for machine %s", i.event, i.machine.name)
}
