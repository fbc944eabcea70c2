// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	log "github.com/sirupsen/logrus"

	"github.com/statekit/statekit/msgqueue"
)

// NewTraceListener returns a queue listener that logs every delivery
// at debug level, tagged with the machine name. Subscribe it to a
// machine's queue to trace event flow.
func NewTraceListener(machine string) *msgqueue.Listener {
	return msgqueue.NewListener(func(item msgqueue.WorkItem) {
		log.Debugf("machine %s: delivering %v", machine, item)
	})
}
