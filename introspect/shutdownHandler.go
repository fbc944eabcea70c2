// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package introspect

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/statekit/statekit/msgqueue"
)

// ShutdownHandler kills the pipeline's queue. A second call answers
// 409 with the AlreadyDead error body.
func ShutdownHandler(w http.ResponseWriter, r *http.Request, p Pipeline) {
	if err := p.Shutdown(); err != nil {
		status := http.StatusInternalServerError
		if err == msgqueue.ErrAlreadyDead {
			status = http.StatusConflict
		}
		render.Status(r, status)
		render.JSON(w, r, &ErrorResponse{
			ErrorType:    "QueueAlreadyDead",
			ErrorMessage: err.Error(),
		})
		return
	}

	StatusHandler(w, r, p)
}
