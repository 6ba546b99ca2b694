// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package disconnect

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/walletkit/utils/wrappers"
)

type metrics struct {
	disconnects        prometheus.Counter
	disconnectFailures *prometheus.CounterVec
	duration           prometheus.Histogram
}

func (m *metrics) Initialize(namespace string, registerer prometheus.Registerer) error {
	m.disconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "disconnects",
		Help:      "Number of completed disconnects",
	})
	m.disconnectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnect_failures",
			Help:      "Number of disconnect steps that failed",
		},
		[]string{"step"},
	)
	m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "disconnect_duration",
		Help:      "Time spent disconnecting a namespace (s)",
		Buckets:   prometheus.DefBuckets,
	})

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.disconnects),
		registerer.Register(m.disconnectFailures),
		registerer.Register(m.duration),
	)
	if errs.Errored() {
		return fmt.Errorf("failed to register disconnect metrics: %w", errs.Err)
	}
	return nil
}
