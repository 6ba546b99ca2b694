// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// App is a long running process. Start returns once the process is running,
// Stop asks it to exit and ExitCode blocks until it has.
type App interface {
	Start() error
	Stop() error

	// ExitCode must only be called after Start returned nil.
	ExitCode() (int, error)
}

// Run starts [app] and blocks until it exits. [app] is stopped once [ctx] is
// done or the process receives SIGINT or SIGTERM. The returned value is the
// code the process should exit with.
func Run(ctx context.Context, app App) int {
	if err := app.Start(); err != nil {
		return 1
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exited := make(chan struct{})
	var eg errgroup.Group
	eg.Go(func() error {
		select {
		case <-ctx.Done():
			return app.Stop()
		case <-exited:
			return nil
		}
	})

	exitCode, err := app.ExitCode()
	close(exited)
	if stopErr := eg.Wait(); stopErr != nil || err != nil {
		return 1
	}
	return exitCode
}
