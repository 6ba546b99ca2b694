// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/walletkit/appkit"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/orchestrator"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/utils/rpc"
)

// Endpoint is the path the service is served on.
const Endpoint = "/ext/walletkit"

var _ Client = (*client)(nil)

// Client for the wallet kit API
type Client interface {
	GetAccount(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (appkit.Account, error)
	GetNamespaceState(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (state.NamespaceState, error)
	GetActiveNamespace(context.Context, ...rpc.Option) (caip.Namespace, error)
	SetActiveNamespace(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) error
	SwitchNetwork(ctx context.Context, namespace caip.Namespace, chainID string, options ...rpc.Option) (state.NamespaceState, error)
	GetApprovedNetworks(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (orchestrator.ApprovedNetworks, error)
	GetConnectors(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) ([]connectors.Connector, error)
	Connect(ctx context.Context, namespace caip.Namespace, connectorID string, options ...rpc.Option) (appkit.Account, error)
	FetchBalance(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (*FetchBalanceReply, error)
	Disconnect(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) error
}

type client struct {
	requester rpc.EndpointRequester
}

// NewClient returns a client for the wallet kit served at [uri], such as
// "http://127.0.0.1:9650".
func NewClient(uri string) Client {
	return &client{requester: rpc.NewEndpointRequester(
		uri+Endpoint,
		ServiceName,
	)}
}

func (c *client) GetAccount(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (appkit.Account, error) {
	res := appkit.Account{}
	err := c.requester.SendRequest(ctx, "getAccount", &NamespaceArgs{
		Namespace: namespace,
	}, &res, options...)
	return res, err
}

func (c *client) GetNamespaceState(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (state.NamespaceState, error) {
	res := state.NamespaceState{}
	err := c.requester.SendRequest(ctx, "getNamespaceState", &NamespaceArgs{
		Namespace: namespace,
	}, &res, options...)
	return res, err
}

func (c *client) GetActiveNamespace(ctx context.Context, options ...rpc.Option) (caip.Namespace, error) {
	res := &NamespaceReply{}
	err := c.requester.SendRequest(ctx, "getActiveNamespace", struct{}{}, res, options...)
	return res.Namespace, err
}

func (c *client) SetActiveNamespace(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) error {
	return c.requester.SendRequest(ctx, "setActiveNamespace", &NamespaceArgs{
		Namespace: namespace,
	}, &EmptyReply{}, options...)
}

func (c *client) SwitchNetwork(ctx context.Context, namespace caip.Namespace, chainID string, options ...rpc.Option) (state.NamespaceState, error) {
	res := state.NamespaceState{}
	err := c.requester.SendRequest(ctx, "switchNetwork", &SwitchNetworkArgs{
		Namespace: namespace,
		ChainID:   chainID,
	}, &res, options...)
	return res, err
}

func (c *client) GetApprovedNetworks(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (orchestrator.ApprovedNetworks, error) {
	res := orchestrator.ApprovedNetworks{}
	err := c.requester.SendRequest(ctx, "getApprovedNetworks", &NamespaceArgs{
		Namespace: namespace,
	}, &res, options...)
	return res, err
}

func (c *client) GetConnectors(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) ([]connectors.Connector, error) {
	res := &GetConnectorsReply{}
	err := c.requester.SendRequest(ctx, "getConnectors", &NamespaceArgs{
		Namespace: namespace,
	}, res, options...)
	return res.Connectors, err
}

func (c *client) Connect(ctx context.Context, namespace caip.Namespace, connectorID string, options ...rpc.Option) (appkit.Account, error) {
	res := appkit.Account{}
	err := c.requester.SendRequest(ctx, "connect", &ConnectArgs{
		Namespace:   namespace,
		ConnectorID: connectorID,
	}, &res, options...)
	return res, err
}

func (c *client) FetchBalance(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) (*FetchBalanceReply, error) {
	res := &FetchBalanceReply{}
	err := c.requester.SendRequest(ctx, "fetchBalance", &NamespaceArgs{
		Namespace: namespace,
	}, res, options...)
	return res, err
}

func (c *client) Disconnect(ctx context.Context, namespace caip.Namespace, options ...rpc.Option) error {
	return c.requester.SendRequest(ctx, "disconnect", &NamespaceArgs{
		Namespace: namespace,
	}, &EmptyReply{}, options...)
}
