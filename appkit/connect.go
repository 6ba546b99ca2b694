// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appkit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
)

var (
	ErrUnknownConnector = errors.New("unknown connector")
	errNoNetwork        = errors.New("namespace has no network")
)

// Account is the connection of a single namespace as an application sees it.
type Account struct {
	Address     string          `json:"address"`
	CaipAddress caip.Address    `json:"caipAddress"`
	IsConnected bool            `json:"isConnected"`
	Status      state.Status    `json:"status"`
	AllAccounts []state.Account `json:"allAccounts,omitempty"`
}

// GetAccount returns the account of [namespace], or of the active namespace if
// [namespace] is empty.
func (k *Kit) GetAccount(namespace caip.Namespace) (Account, bool) {
	if namespace == "" {
		namespace = k.Store.ActiveNamespace()
	}
	ns, ok := k.Store.Get(namespace)
	if !ok {
		return Account{}, false
	}
	return Account{
		Address:     ns.Account.Address,
		CaipAddress: ns.Account.CaipAddress,
		IsConnected: ns.IsConnected(),
		Status:      ns.Account.Status,
		AllAccounts: ns.Account.AllAccounts,
	}, true
}

// Connect connects the wallet behind connector [connectorID] in [namespace].
//
// A wallet that refuses the connection leaves the namespace in the Error
// state with the reason attached, and nil is returned. Requests that cannot
// reach a wallet at all fail with an error.
func (k *Kit) Connect(ctx context.Context, namespace caip.Namespace, connectorID string) error {
	connector, ok := k.Registry.Get(connectorID, namespace)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrUnknownConnector, connectorID, namespace)
	}
	return k.ConnectExternal(ctx, connector)
}

// ConnectExternal connects through [connector], which does not need to be
// registered beforehand.
func (k *Kit) ConnectExternal(ctx context.Context, connector connectors.Connector) error {
	namespace := connector.Namespace
	wallet, err := k.adapters.Get(namespace)
	if err != nil {
		return err
	}
	network, ok := k.Orchestrator.GetCaipNetworkByNamespace(namespace, "")
	if !ok {
		return fmt.Errorf("%w: %s", errNoNetwork, namespace)
	}

	err = k.Store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.ClearError()
		ns.SetStatus(state.StatusConnecting)
	})
	if err != nil {
		return err
	}

	result, err := wallet.Connect(ctx, adapter.ConnectParams{
		ID:       connector.ID,
		Type:     string(connector.Type),
		Provider: connector.Provider,
		ChainID:  network.ID,
		RPCURL:   network.RPCURL,
	})
	if err != nil {
		k.log.Warn("wallet refused to connect",
			zap.Stringer("namespace", namespace),
			zap.String("connectorID", connector.ID),
			zap.Error(err),
		)
		return k.Store.Commit(namespace, func(ns *state.NamespaceState) {
			ns.SetStatus(state.StatusDisconnected)
			ns.Machine = state.Error
			ns.Err = err.Error()
		})
	}

	accounts, err := wallet.GetAccounts(ctx)
	if err != nil {
		k.log.Debug("wallet did not list its accounts",
			zap.Stringer("namespace", namespace),
			zap.Error(err),
		)
		accounts = nil
	}
	if err := k.syncAccount(namespace, network, result.ChainID, result.Address, accounts); err != nil {
		return err
	}

	connectorType := connector.Type
	if result.Type != "" {
		connectorType = connectors.Type(result.Type)
	}
	k.Registry.SetProvider(namespace, result.Provider, connectorType)
	if err := k.Registry.SetConnectorID(namespace, connector.ID); err != nil {
		return err
	}
	if err := k.Storage.AddConnectedNamespace(namespace); err != nil {
		return err
	}
	if err := k.Storage.SetConnectionStatus(state.StatusConnected); err != nil {
		return err
	}
	if err := k.Storage.AddRecentWallet(storage.Wallet{
		ID:       connector.ID,
		Name:     connector.Name,
		ImageURL: connector.ImageURL,
	}); err != nil {
		return err
	}
	return k.Orchestrator.SetActiveNamespace(namespace)
}

// syncAccount commits the account a wallet reported. [chainID] becomes the
// active network when it is requested. Otherwise the active network is kept,
// or [fallback] is activated if the namespace has none.
func (k *Kit) syncAccount(
	namespace caip.Namespace,
	fallback caip.Network,
	chainID string,
	address string,
	accounts []state.Account,
) error {
	address = caip.NormalizeAddress(namespace, address)
	err := k.Store.Commit(namespace, func(ns *state.NamespaceState) {
		if network, ok := ns.RequestedNetwork(caip.NewNetworkID(namespace, chainID)); ok {
			ns.ActiveCaipNetwork = &network
		} else if ns.ActiveCaipNetwork == nil {
			if network, ok := ns.RequestedNetwork(fallback.CaipNetworkID()); ok {
				ns.ActiveCaipNetwork = &network
			}
		}
		ns.Account.Address = address
		ns.Account.CaipAddress = ""
		if networkID := ns.ActiveNetworkID(); networkID != "" {
			ns.Account.CaipAddress = caip.NewAddress(networkID, address)
		}
		ns.ClearError()
		ns.SetStatus(state.StatusConnected)
	})
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		accounts = []state.Account{{
			Namespace: namespace,
			Address:   address,
			Type:      state.AccountTypeEOA,
		}}
	}
	for i := range accounts {
		accounts[i].Address = caip.NormalizeAddress(namespace, accounts[i].Address)
	}
	return k.Accounts.SetAllAccounts(accounts, namespace)
}
