// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"github.com/spf13/pflag"

	"github.com/ava-labs/walletkit/caip"
)

const (
	URIKey       = "uri"
	NamespaceKey = "namespace"
	MetricsKey   = "metrics"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(URIKey, "http://127.0.0.1:9650", "API URI to use to reach the wallet kit")
	flags.String(NamespaceKey, "", "Namespace to display. Defaults to the active namespace")
	flags.Bool(MetricsKey, false, "Also display the number of failing checks reported by the metrics endpoint")
}

type Config struct {
	URI       string
	Namespace caip.Namespace
	Metrics   bool
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	uri, err := flags.GetString(URIKey)
	if err != nil {
		return nil, err
	}

	namespaceStr, err := flags.GetString(NamespaceKey)
	if err != nil {
		return nil, err
	}
	namespace := caip.Namespace(namespaceStr)
	if namespace != "" {
		if err := namespace.Verify(); err != nil {
			return nil, err
		}
	}

	showMetrics, err := flags.GetBool(MetricsKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		URI:       uri,
		Namespace: namespace,
		Metrics:   showMetrics,
	}, nil
}
