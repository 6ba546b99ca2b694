// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/walletkit/utils/wrappers"
)

func newCounterMetric(namespace, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

type metrics struct {
	switches,
	switchFailures,
	namespaceSwitches,
	validationFallbacks prometheus.Counter
}

func (m *metrics) Initialize(namespace string, registerer prometheus.Registerer) error {
	m.switches = newCounterMetric(namespace, "network_switches", "Number of successful network switches")
	m.switchFailures = newCounterMetric(namespace, "network_switch_failures", "Number of network switches the wallet rejected or timed out")
	m.namespaceSwitches = newCounterMetric(namespace, "namespace_switches", "Number of network switches that crossed namespaces")
	m.validationFallbacks = newCounterMetric(namespace, "validation_fallbacks", "Number of switches to unknown networks that fell back to a configured network")

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.switches),
		registerer.Register(m.switchFailures),
		registerer.Register(m.namespaceSwitches),
		registerer.Register(m.validationFallbacks),
	)
	if errs.Errored() {
		return fmt.Errorf("failed to register orchestrator metrics: %w", errs.Err)
	}
	return nil
}
