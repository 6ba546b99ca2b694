// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"context"
	"io"
	"net/url"

	"github.com/prometheus/common/expfmt"

	"github.com/ava-labs/walletkit/utils/rpc"

	dto "github.com/prometheus/client_model/go"
)

// Client reads the metrics a running wallet kit exposes.
type Client struct {
	uri string
}

func NewClient(uri string) *Client {
	return &Client{
		uri: uri + Endpoint,
	}
}

// GetMetrics returns the metric families of the wallet kit by name.
func (c *Client) GetMetrics(ctx context.Context, options ...rpc.Option) (map[string]*dto.MetricFamily, error) {
	uri, err := url.Parse(c.uri)
	if err != nil {
		return nil, err
	}

	var families map[string]*dto.MetricFamily
	err = rpc.SendGetRequest(ctx, uri, func(body io.Reader) error {
		var parser expfmt.TextParser
		var err error
		families, err = parser.TextToMetricFamilies(body)
		return err
	}, options...)
	return families, err
}

// Sum adds up the gauges and counters of family [name] whose labels include
// [labels]. It reports false if no series matched.
func Sum(families map[string]*dto.MetricFamily, name string, labels map[string]string) (float64, bool) {
	family, ok := families[name]
	if !ok {
		return 0, false
	}

	var (
		sum     float64
		matched bool
	)
	for _, metric := range family.GetMetric() {
		if !hasLabels(metric, labels) {
			continue
		}
		matched = true
		switch {
		case metric.Gauge != nil:
			sum += metric.GetGauge().GetValue()
		case metric.Counter != nil:
			sum += metric.GetCounter().GetValue()
		}
	}
	return sum, matched
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, pair := range metric.GetLabel() {
		value, ok := labels[pair.GetName()]
		if !ok {
			continue
		}
		if value != pair.GetValue() {
			return false
		}
		found++
	}
	return found == len(labels)
}
