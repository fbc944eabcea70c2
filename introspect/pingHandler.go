// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package introspect

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// PingHandler serves the liveness probe.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("pong")); err != nil {
		log.WithError(err).Error("Failed to write 'pong' response")
	}
}
