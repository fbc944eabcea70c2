// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package introspect

import (
	"net/http"

	"github.com/go-chi/render"
)

// StatusHandler serves a JSON snapshot of the pipeline. The fields are
// instantaneously consistent per field only; depth and counters may
// move between reads.
func StatusHandler(w http.ResponseWriter, r *http.Request, p Pipeline) {
	q := p.Queue()
	render.JSON(w, r, &StatusResponse{
		Machine:      p.Name(),
		CurrentState: string(p.Current()),
		QueueDepth:   q.Size(),
		Alive:        q.IsAlive(),
		WorkerState:  q.WorkerStatus().String(),
		Delivered:    q.Delivered(),
		Discarded:    q.Discarded(),
	})
}
