// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/set"
)

var _ Health = (*health)(nil)

// Health runs the registered checks on every tick and reports their latest
// results.
type Health interface {
	Registerer
	Reporter

	Start(freq time.Duration)
	// Stop returns once no check is running anymore.
	Stop()
}

// Registerer adds checks. A check registered with namespaces concerns only
// those namespaces. A check registered without any concerns all of them.
type Registerer interface {
	// RegisterReadinessCheck registers a check that stops running once it has
	// passed.
	RegisterReadinessCheck(name string, checker Checker, namespaces ...caip.Namespace) error
	RegisterHealthCheck(name string, checker Checker, namespaces ...caip.Namespace) error
	RegisterLivenessCheck(name string, checker Checker, namespaces ...caip.Namespace) error
}

// Reporter returns the latest results of the checks concerning any of
// [namespaces], or of every check if none is given, and whether all of them
// passed.
type Reporter interface {
	Readiness(namespaces ...caip.Namespace) (map[string]Result, bool)
	Health(namespaces ...caip.Namespace) (map[string]Result, bool)
	Liveness(namespaces ...caip.Namespace) (map[string]Result, bool)
}

type health struct {
	log     logging.Logger
	workers map[kind]*worker

	startOnce sync.Once
	closeOnce sync.Once
	closer    chan struct{}
	running   sync.WaitGroup
}

func New(log logging.Logger, registerer prometheus.Registerer) (Health, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}

	h := &health{
		log:     log,
		workers: make(map[kind]*worker, len(kinds)),
		closer:  make(chan struct{}),
	}
	for _, k := range kinds {
		h.workers[k] = newWorker(k, m)
	}
	return h, nil
}

func (h *health) RegisterReadinessCheck(name string, checker Checker, namespaces ...caip.Namespace) error {
	return h.workers[readiness].register(name, checker, namespaces)
}

func (h *health) RegisterHealthCheck(name string, checker Checker, namespaces ...caip.Namespace) error {
	return h.workers[healthiness].register(name, checker, namespaces)
}

func (h *health) RegisterLivenessCheck(name string, checker Checker, namespaces ...caip.Namespace) error {
	return h.workers[liveness].register(name, checker, namespaces)
}

func (h *health) Readiness(namespaces ...caip.Namespace) (map[string]Result, bool) {
	return h.report(readiness, namespaces)
}

func (h *health) Health(namespaces ...caip.Namespace) (map[string]Result, bool) {
	return h.report(healthiness, namespaces)
}

func (h *health) Liveness(namespaces ...caip.Namespace) (map[string]Result, bool) {
	return h.report(liveness, namespaces)
}

func (h *health) report(k kind, namespaces []caip.Namespace) (map[string]Result, bool) {
	results, passing := h.workers[k].results(set.Of(namespaces...))
	if !passing {
		h.log.Warn("failing checks",
			zap.Stringer("kind", k),
			zap.Stringers("namespaces", namespaces),
			zap.Reflect("reason", results),
		)
	}
	return results, passing
}

func (h *health) Start(freq time.Duration) {
	h.startOnce.Do(func() {
		h.running.Add(1)
		go func() {
			defer h.running.Done()

			ticker := time.NewTicker(freq)
			defer ticker.Stop()

			h.runChecks()
			for {
				select {
				case <-ticker.C:
					h.runChecks()
				case <-h.closer:
					return
				}
			}
		}()
	})
}

func (h *health) Stop() {
	h.closeOnce.Do(func() {
		close(h.closer)
	})
	h.running.Wait()
}

func (h *health) runChecks() {
	var wg sync.WaitGroup
	for _, w := range h.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run()
		}()
	}
	wg.Wait()
}
