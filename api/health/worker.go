// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/set"
)

const (
	readiness   kind = "readiness"
	healthiness kind = "health"
	liveness    kind = "liveness"
)

var (
	kinds = []kind{readiness, healthiness, liveness}

	errDuplicateCheck = errors.New("duplicated check")
)

type kind string

func (k kind) String() string {
	return string(k)
}

type check struct {
	checker Checker
	// empty if the check concerns every namespace
	namespaces set.Set[caip.Namespace]
	result     Result
}

func (c *check) concerns(filter set.Set[caip.Namespace]) bool {
	if filter.Len() == 0 || c.namespaces.Len() == 0 {
		return true
	}
	for namespace := range filter {
		if c.namespaces.Contains(namespace) {
			return true
		}
	}
	return false
}

// worker holds the checks of a single kind.
type worker struct {
	kind    kind
	metrics *metrics

	lock   sync.RWMutex
	checks map[string]*check
}

func newWorker(k kind, m *metrics) *worker {
	return &worker{
		kind:    k,
		metrics: m,
		checks:  make(map[string]*check),
	}
}

func (w *worker) register(name string, checker Checker, namespaces []caip.Namespace) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if _, ok := w.checks[name]; ok {
		return fmt.Errorf("%w: %s check %q", errDuplicateCheck, w.kind, name)
	}

	c := &check{
		checker:    checker,
		namespaces: set.Of(namespaces...),
		result:     notYetRunResult,
	}
	w.checks[name] = c
	// A check fails until it has run.
	w.metrics.addFailing(w.kind, c.namespaces, 1)
	return nil
}

func (w *worker) results(filter set.Set[caip.Namespace]) (map[string]Result, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	results := make(map[string]Result, len(w.checks))
	passing := true
	for name, c := range w.checks {
		if !c.concerns(filter) {
			continue
		}
		results[name] = c.result
		passing = passing && c.result.Error == nil
	}
	return results, passing
}

// run runs every check concurrently. Checks registered meanwhile are run on
// the next call.
func (w *worker) run() {
	w.lock.RLock()
	pending := make([]*check, 0, len(w.checks))
	for _, c := range w.checks {
		if w.kind == readiness && c.result.Error == nil {
			continue
		}
		pending = append(pending, c)
	}
	w.lock.RUnlock()

	var wg sync.WaitGroup
	for _, c := range pending {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.runCheck(c)
		}()
	}
	wg.Wait()
}

// runCheck holds no lock while the checker runs, so a checker may register
// other checks.
func (w *worker) runCheck(c *check) {
	start := time.Now()
	details, err := c.checker.HealthCheck()
	end := time.Now()

	result := Result{
		Details:   details,
		Timestamp: end,
		Duration:  end.Sub(start),
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	prev := c.result
	switch {
	case err != nil:
		errString := err.Error()
		result.Error = &errString
		result.ContiguousFailures = prev.ContiguousFailures + 1
		result.TimeOfFirstFailure = &end
		if prev.ContiguousFailures > 0 {
			result.TimeOfFirstFailure = prev.TimeOfFirstFailure
		}
		if prev.Error == nil {
			w.metrics.addFailing(w.kind, c.namespaces, 1)
		}
	case prev.Error != nil:
		w.metrics.addFailing(w.kind, c.namespaces, -1)
	}
	c.result = result
}
