// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInternalFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, time.March, 5, 12, 30, 45, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "discarded message",
		Data:    logrus.Fields{"reason": "FlushedAtShutdown", "machine": "turnstile"},
	}

	out, err := (&InternalFormatter{}).Format(entry)
	assert.NoError(t, err)
	assert.Equal(t, "05 Mar 2024 12:30:45.000 [WARNING] discarded message machine=turnstile reason=FlushedAtShutdown\n", string(out))
}

func TestInternalFormatterNoFields(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, time.March, 5, 12, 30, 45, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "worker started",
	}

	out, err := (&InternalFormatter{}).Format(entry)
	assert.NoError(t, err)
	assert.Equal(t, "05 Mar 2024 12:30:45.000 [INFO] worker started\n", string(out))
}
