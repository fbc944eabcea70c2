// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package introspect

// StatusResponse is the JSON body served by /status.
type StatusResponse struct {
	Machine      string `json:"machine"`
	CurrentState string `json:"currentState"`
	QueueDepth   int    `json:"queueDepth"`
	Alive        bool   `json:"alive"`
	WorkerState  string `json:"workerState"`
	Delivered    uint64 `json:"delivered"`
	Discarded    uint64 `json:"discarded"`
}

// ErrorResponse is the JSON body of a non-2xx reply.
type ErrorResponse struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
}
