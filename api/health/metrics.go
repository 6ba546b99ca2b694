// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/set"
)

const (
	KindLabel      = "kind"
	NamespaceLabel = "namespace"

	// GlobalLabel is the namespace label of checks that concern every
	// namespace.
	GlobalLabel = "global"

	FailingChecksMetric = "walletkit_health_checks_failing"
)

type metrics struct {
	// failingChecks counts the failing checks per kind and namespace
	failingChecks *prometheus.GaugeVec
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		failingChecks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: FailingChecksMetric,
				Help: "number of currently failing checks",
			},
			[]string{KindLabel, NamespaceLabel},
		),
	}
	return m, registerer.Register(m.failingChecks)
}

func (m *metrics) addFailing(k kind, namespaces set.Set[caip.Namespace], delta float64) {
	if namespaces.Len() == 0 {
		m.failingChecks.WithLabelValues(string(k), GlobalLabel).Add(delta)
		return
	}
	for namespace := range namespaces {
		m.failingChecks.WithLabelValues(string(k), string(namespace)).Add(delta)
	}
}
