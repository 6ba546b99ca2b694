// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package adapter defines the boundary between the wallet kit and the wallet
// wire protocols. There is exactly one Adapter per namespace.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

//go:generate go run go.uber.org/mock/mockgen -package=adaptermock -destination=adaptermock/adapter.go -mock_names=Adapter=Adapter . Adapter

var (
	// ErrRejected is returned, possibly wrapped, when the user declines a
	// request in their wallet.
	ErrRejected  = errors.New("user rejected the request")
	ErrNoAdapter = errors.New("no adapter for namespace")
)

// Provider is the opaque handle a wallet connection is reached through. The
// wallet kit never looks inside it.
type Provider any

type ConnectParams struct {
	// ID of the connector to connect through.
	ID string
	// Type of the connector, such as INJECTED or WALLET_CONNECT.
	Type     string
	Provider Provider
	// ChainID is the reference of the network to connect on, if any.
	ChainID string
	RPCURL  string
}

type ConnectResult struct {
	ID       string
	Type     string
	Provider Provider
	Address  string
	ChainID  string
}

type DisconnectParams struct {
	Provider     Provider
	ProviderType string
}

// Adapter speaks the wallet protocol of a single namespace.
type Adapter interface {
	// Connect asks the wallet for an account. It may prompt the user.
	Connect(ctx context.Context, params ConnectParams) (ConnectResult, error)

	// Disconnect tears down the connection held by [params.Provider].
	Disconnect(ctx context.Context, params DisconnectParams) error

	// SwitchNetwork asks the wallet to move to [network]. It may prompt the
	// user.
	SwitchNetwork(ctx context.Context, network caip.Network) error

	// GetAccounts returns the accounts of an existing connection without
	// prompting the user.
	GetAccounts(ctx context.Context) ([]state.Account, error)
}

// Table maps each namespace to the adapter that serves it.
type Table map[caip.Namespace]Adapter

func (t Table) Get(namespace caip.Namespace) (Adapter, error) {
	a, ok := t[namespace]
	if !ok || a == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, namespace)
	}
	return a, nil
}
