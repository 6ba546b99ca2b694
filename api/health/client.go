// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"time"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/rpc"
)

// Client for requesting the health of a wallet kit. Nil [namespaces] asks for
// every check.
type Client interface {
	Readiness(ctx context.Context, namespaces []caip.Namespace, options ...rpc.Option) (*APIReply, error)
	Health(ctx context.Context, namespaces []caip.Namespace, options ...rpc.Option) (*APIReply, error)
	Liveness(ctx context.Context, namespaces []caip.Namespace, options ...rpc.Option) (*APIReply, error)
}

type client struct {
	requester rpc.EndpointRequester
}

func NewClient(uri string) Client {
	return &client{requester: rpc.NewEndpointRequester(
		uri+Endpoint,
		ServiceName,
	)}
}

func (c *client) Readiness(ctx context.Context, namespaces []caip.Namespace, options ...rpc.Option) (*APIReply, error) {
	return c.report(ctx, "readiness", namespaces, options)
}

func (c *client) Health(ctx context.Context, namespaces []caip.Namespace, options ...rpc.Option) (*APIReply, error) {
	return c.report(ctx, "health", namespaces, options)
}

func (c *client) Liveness(ctx context.Context, namespaces []caip.Namespace, options ...rpc.Option) (*APIReply, error) {
	return c.report(ctx, "liveness", namespaces, options)
}

func (c *client) report(ctx context.Context, method string, namespaces []caip.Namespace, options []rpc.Option) (*APIReply, error) {
	res := &APIReply{}
	err := c.requester.SendRequest(ctx, method, &APIArgs{Namespaces: namespaces}, res, options...)
	return res, err
}

// AwaitReady polls every [freq] until the checks of [namespaces] report
// ready. Only returns an error if [ctx] is done first.
func AwaitReady(ctx context.Context, c Client, freq time.Duration, namespaces []caip.Namespace, options ...rpc.Option) (bool, error) {
	return await(ctx, freq, c.Readiness, namespaces, options)
}

// AwaitHealthy polls every [freq] until the checks of [namespaces] report
// healthy. Only returns an error if [ctx] is done first.
func AwaitHealthy(ctx context.Context, c Client, freq time.Duration, namespaces []caip.Namespace, options ...rpc.Option) (bool, error) {
	return await(ctx, freq, c.Health, namespaces, options)
}

func await(
	ctx context.Context,
	freq time.Duration,
	check func(context.Context, []caip.Namespace, ...rpc.Option) (*APIReply, error),
	namespaces []caip.Namespace,
	options []rpc.Option,
) (bool, error) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		res, err := check(ctx, namespaces, options...)
		if err == nil && res.Healthy {
			return true, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
