// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/walletkit/utils/wrappers"
)

type metrics struct {
	fetches,
	failures,
	skipped,
	cacheHits prometheus.Counter
}

func (m *metrics) Initialize(namespace string, registerer prometheus.Registerer) error {
	m.fetches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_fetches",
		Help:      "Number of balance fetches sent to the balance source",
	})
	m.failures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_fetch_failures",
		Help:      "Number of balance fetches that failed",
	})
	m.skipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_fetches_skipped",
		Help:      "Number of balance fetches skipped during a cooldown",
	})
	m.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_cache_hits",
		Help:      "Number of balance fetches served from the cache",
	})

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.fetches),
		registerer.Register(m.failures),
		registerer.Register(m.skipped),
		registerer.Register(m.cacheHits),
	)
	return errs.Err
}
