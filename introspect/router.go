// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package introspect exposes the pipeline's observable state over a
// small HTTP API for debugging and liveness probes.
package introspect

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/statekit/statekit/core"
	"github.com/statekit/statekit/msgqueue"
)

// Pipeline is the view of a machine served by the introspection API.
// *core.Machine satisfies it.
type Pipeline interface {
	Name() string
	Current() core.State
	Queue() *msgqueue.MessageQueue
	Shutdown() error
}

// NewHTTPRouter returns the introspection router for one pipeline.
func NewHTTPRouter(p Pipeline) *chi.Mux {
	r := chi.NewRouter()
	r.Use(accessLogDecorator)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) { PingHandler(w, r) })
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) { StatusHandler(w, r, p) })
	r.Post("/shutdown", func(w http.ResponseWriter, r *http.Request) { ShutdownHandler(w, r, p) })
	return r
}
