// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ava-labs/walletkit/api"
	"github.com/ava-labs/walletkit/api/health"
	"github.com/ava-labs/walletkit/api/metrics"
	"github.com/ava-labs/walletkit/caip"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Displays the connection state and health of a namespace",
		RunE:  statusFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func statusFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	ctx := c.Context()
	out := c.OutOrStdout()

	client := api.NewClient(config.URI)

	namespace := config.Namespace
	if namespace == "" {
		namespace, err = client.GetActiveNamespace(ctx)
		if err != nil {
			return err
		}
	}

	ns, err := client.GetNamespaceState(ctx, namespace)
	if err != nil {
		return err
	}

	state, err := json.MarshalIndent(ns, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is %s\n%s\n", namespace, ns.Machine, state)

	reply, err := health.NewClient(config.URI).Health(ctx, []caip.Namespace{namespace})
	if err != nil {
		return err
	}
	printHealth(out, reply)

	if !config.Metrics {
		return nil
	}
	families, err := metrics.NewClient(config.URI).GetMetrics(ctx)
	if err != nil {
		return err
	}
	failing, _ := metrics.Sum(families, health.FailingChecksMetric, map[string]string{
		health.NamespaceLabel: string(namespace),
	})
	fmt.Fprintf(out, "failing checks of %s: %v\n", namespace, failing)
	return nil
}

func printHealth(out io.Writer, reply *health.APIReply) {
	fmt.Fprintf(out, "healthy: %t\n", reply.Healthy)

	names := make([]string, 0, len(reply.Checks))
	for name := range reply.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		result := reply.Checks[name]
		if result.Error != nil {
			fmt.Fprintf(out, "  %s: %s\n", name, *result.Error)
			continue
		}
		fmt.Fprintf(out, "  %s: %v\n", name, result.Details)
	}
}
