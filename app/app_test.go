// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errTest = errors.New("non-nil error")

type testApp struct {
	startErr error
	stopErr  error
	exitCode int

	stopped chan struct{}
}

func newTestApp() *testApp {
	return &testApp{stopped: make(chan struct{})}
}

func (a *testApp) Start() error {
	return a.startErr
}

func (a *testApp) Stop() error {
	close(a.stopped)
	return a.stopErr
}

func (a *testApp) ExitCode() (int, error) {
	<-a.stopped
	return a.exitCode, nil
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	require := require.New(t)

	a := newTestApp()
	a.exitCode = 3

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(3, Run(ctx, a))
}

func TestRunReportsStartFailure(t *testing.T) {
	a := newTestApp()
	a.startErr = errTest
	require.Equal(t, 1, Run(context.Background(), a))
}

func TestRunReportsStopFailure(t *testing.T) {
	a := newTestApp()
	a.stopErr = errTest

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, 1, Run(ctx, a))
}
