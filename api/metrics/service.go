// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Endpoint is the path the metrics are served on.
const Endpoint = "/ext/metrics"

// NewService returns the registry every component of the wallet kit registers
// with, and the handler exposing it.
func NewService() (*prometheus.Registry, http.Handler) {
	registry := prometheus.NewRegistry()
	handler := promhttp.InstrumentMetricHandler(
		registry,
		promhttp.HandlerFor(
			registry,
			promhttp.HandlerOpts{},
		),
	)
	return registry, handler
}
