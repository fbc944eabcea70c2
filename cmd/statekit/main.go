// Copyright The StateKit Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/statekit/statekit/config"
	"github.com/statekit/statekit/core"
	"github.com/statekit/statekit/introspect"
	"github.com/statekit/statekit/logging"
	"github.com/statekit/statekit/msgqueue"
)

type options struct {
	LogLevel   string `long:"log-level" default:"info" description:"log level"`
	APIAddr    string `long:"api-addr" default:"127.0.0.1:8090" description:"introspection API listen address"`
	Definition string `long:"definition" description:"path to a YAML machine definition"`
	Trace      bool   `long:"trace" description:"log every delivery"`
	Demo       bool   `long:"demo" description:"fire demo events periodically"`
}

func main() {
	opts := getCLIArgs()
	logging.SetLogLevel(opts.LogLevel)

	def := demoDefinition()
	if opts.Definition != "" {
		loaded, err := config.Load(opts.Definition)
		if err != nil {
			log.WithError(err).Fatal("Failed to load machine definition")
		}
		def = loaded
	}

	machine, err := core.NewMachine(*def, demoBindings(), msgqueue.New())
	if err != nil {
		log.WithError(err).Fatal("Failed to build machine")
	}
	if opts.Trace {
		machine.Queue().Subscribe(core.NewTraceListener(machine.Name()))
	}
	machine.Start()
	log.Infof("machine %s (%s) started in state %s", machine.Name(), machine.ID(), machine.Current())

	server := &http.Server{Addr: opts.APIAddr, Handler: introspect.NewHTTPRouter(machine)}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		log.Infof("introspection API listening on %s", opts.APIAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if opts.Demo {
		g.Go(func() error {
			fireDemoEvents(ctx, machine, def)
			return nil
		})
	}

	g.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigs:
			log.Infof("received %s, shutting down", sig)
		case <-ctx.Done():
		}

		if err := machine.Shutdown(); err != nil && err != msgqueue.ErrAlreadyDead {
			log.WithError(err).Warn("machine shutdown")
		}
		joinCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := machine.Join(joinCtx); err != nil {
			log.WithError(err).Warn("worker did not terminate in time")
		}
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("statekit exited")
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(os.Args); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

// fireDemoEvents cycles through the definition's transition table,
// firing whichever events are declared, until ctx is canceled.
func fireDemoEvents(ctx context.Context, machine *core.Machine, def *core.Definition) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if len(def.Transitions) == 0 {
				return
			}
			event := def.Transitions[i%len(def.Transitions)].Event
			machine.Fire(event)
			i++
		}
	}
}
