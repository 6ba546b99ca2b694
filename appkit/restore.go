// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appkit

import (
	"context"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
)

// restore reconnects the namespaces that were connected when the kit last
// ran. A namespace whose wallet no longer exposes accounts is forgotten.
// Failures only affect the namespace they happen in.
func (k *Kit) restore(ctx context.Context) error {
	dropped, err := k.Storage.DropExpiredAuthSession()
	if err != nil {
		return err
	}
	if dropped {
		k.log.Info("dropped expired auth session")
	}

	namespaces, err := k.Storage.ConnectedNamespaces()
	if err != nil {
		return err
	}
	for _, namespace := range namespaces {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := k.Store.Get(namespace); !ok {
			k.log.Debug("skipping restore of unconfigured namespace",
				zap.Stringer("namespace", namespace),
			)
			continue
		}
		connectorID := k.Registry.ConnectorID(namespace)
		if connectorID == "" {
			continue
		}
		if err := k.restoreNamespace(ctx, namespace); err != nil {
			k.log.Warn("failed to restore connection",
				zap.Stringer("namespace", namespace),
				zap.String("connectorID", connectorID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (k *Kit) restoreNamespace(ctx context.Context, namespace caip.Namespace) error {
	wallet, err := k.adapters.Get(namespace)
	if err != nil {
		return err
	}
	accounts, err := wallet.GetAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		k.log.Info("wallet revoked the connection",
			zap.Stringer("namespace", namespace),
		)
		if err := k.Registry.RemoveConnectorID(namespace); err != nil {
			return err
		}
		return k.Storage.RemoveConnectedNamespace(namespace)
	}

	ns, _ := k.Store.Get(namespace)
	if err := k.syncAccount(namespace, caip.Network{}, ns.ActiveNetworkID().Reference(), accounts[0].Address, accounts); err != nil {
		return err
	}
	k.log.Info("restored connection",
		zap.Stringer("namespace", namespace),
		zap.String("address", accounts[0].Address),
	)
	return nil
}
