// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads declarative YAML machine definitions.
//
// A definition names the machine, its states, the initial state, and
// the transition table. Hook names listed on a transition are resolved
// against Go bindings when the machine is built.
//
//	name: turnstile
//	initial: locked
//	states: [locked, unlocked]
//	transitions:
//	  - from: locked
//	    event: coin
//	    to: unlocked
//	    hooks: [unlock]
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/statekit/statekit/core"
)

type definitionFile struct {
	Name        string           `yaml:"name"`
	Initial     string           `yaml:"initial"`
	States      []string         `yaml:"states"`
	Transitions []transitionFile `yaml:"transitions"`
}

type transitionFile struct {
	From  string   `yaml:"from"`
	Event string   `yaml:"event"`
	To    string   `yaml:"to"`
	Hooks []string `yaml:"hooks"`
}

// Parse decodes a YAML machine definition and validates it. Unknown
// YAML fields are rejected.
func Parse(data []byte) (*core.Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f definitionFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing machine definition: %w", err)
	}

	def := &core.Definition{
		Name:    f.Name,
		Initial: core.State(f.Initial),
	}
	for _, s := range f.States {
		def.States = append(def.States, core.State(s))
	}
	for _, t := range f.Transitions {
		def.Transitions = append(def.Transitions, core.TransitionDef{
			Source: core.State(t.From),
			Event:  core.Event(t.Event),
			Target: core.State(t.To),
			Hooks:  t.Hooks,
		})
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Load reads and parses the YAML machine definition at path.
func Load(path string) (*core.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading machine definition: %w", err)
	}
	return Parse(data)
}
