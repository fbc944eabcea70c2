// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/statekit/statekit/core"
)

// demoDefinition is the built-in turnstile machine used when no
// --definition is given.
func demoDefinition() *core.Definition {
	return &core.Definition{
		Name:    "turnstile",
		Initial: "locked",
		States:  []core.State{"locked", "unlocked"},
		Transitions: []core.TransitionDef{
			{Source: "locked", Event: "coin", Target: "unlocked", Hooks: []string{"unlock"}},
			{Source: "unlocked", Event: "push", Target: "locked", Hooks: []string{"lock"}},
		},
	}
}

func demoBindings() map[string]core.Hook {
	logTransition := func(t core.Transition) error {
		log.Infof("%s: %s --%s--> %s", t.Machine, t.Source, t.Event, t.Target)
		return nil
	}
	return map[string]core.Hook{
		"unlock": logTransition,
		"lock":   logTransition,
	}
}
