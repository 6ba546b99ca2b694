// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/account"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/orchestrator"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/wrappers"
)

const (
	// ConnectorID is the connector every session namespace is recorded under.
	ConnectorID = "walletConnect"

	// MetaMaskPeerName is the only peer trusted to accept any network on
	// request.
	MetaMaskPeerName = "MetaMask Wallet"
)

var errMissingDependency = errors.New("missing dependency")

type Config struct {
	Log          logging.Logger
	Store        state.Store
	Orchestrator *orchestrator.Orchestrator
	Accounts     *account.Synchronizer
	Connectors   *connectors.Registry
	Storage      *storage.Storage
}

// Reconciler applies sessions to the namespace states.
type Reconciler struct {
	log          logging.Logger
	store        state.Store
	orchestrator *orchestrator.Orchestrator
	accounts     *account.Synchronizer
	connectors   *connectors.Registry
	storage      *storage.Storage
}

func New(config Config) (*Reconciler, error) {
	if config.Store == nil || config.Orchestrator == nil || config.Accounts == nil ||
		config.Connectors == nil || config.Storage == nil {
		return nil, errMissingDependency
	}
	log := config.Log
	if log == nil {
		log = logging.NoLog{}
	}
	return &Reconciler{
		log:          log,
		store:        config.Store,
		orchestrator: config.Orchestrator,
		accounts:     config.Accounts,
		connectors:   config.Connectors,
		storage:      config.Storage,
	}, nil
}

// SyncWalletConnectAccount applies [session] to every configured namespace it
// covers. Namespaces the kit was not configured with are skipped. Every
// namespace is attempted and the first error is returned.
func (r *Reconciler) SyncWalletConnectAccount(ctx context.Context, session Session) error {
	errs := wrappers.Errs{}
	for _, namespace := range sortedNamespaces(session.Namespaces) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := r.store.Get(namespace); !ok {
			r.log.Debug("skipping unconfigured session namespace",
				zap.Stringer("namespace", namespace),
			)
			continue
		}
		if err := r.syncNamespace(namespace, session.Namespaces[namespace], session); err != nil {
			errs.Add(fmt.Errorf("failed to sync %s: %w", namespace, err))
		}
	}
	return errs.Err
}

func (r *Reconciler) syncNamespace(namespace caip.Namespace, sessionNS Namespace, session Session) error {
	accounts := r.namespaceAccounts(namespace, sessionNS)
	if len(accounts) == 0 {
		return r.disconnectNamespace(namespace)
	}

	current, _ := r.store.Get(namespace)
	picked := accounts[0]
	if activeID := current.ActiveNetworkID(); activeID != "" {
		for _, a := range accounts {
			if a.NetworkID() == activeID {
				picked = a
				break
			}
		}
	}

	var (
		chainID = picked.NetworkID()
		address = caip.NormalizeAddress(namespace, picked.PlainAddress())
	)
	err := r.store.Commit(namespace, func(ns *state.NamespaceState) {
		if network, ok := ns.RequestedNetwork(chainID); ok {
			ns.ActiveCaipNetwork = &network
		}
		ns.Account.Address = address
		ns.Account.CaipAddress = caip.NewAddress(chainID, address)
		ns.SetStatus(state.StatusConnected)
	})
	if err != nil {
		return err
	}

	accountType := state.AccountTypeEOA
	if namespace == caip.Bitcoin {
		accountType = state.AccountTypePayment
	}
	all := make([]state.Account, len(accounts))
	for i, a := range accounts {
		all[i] = state.Account{
			Namespace: namespace,
			Address:   caip.NormalizeAddress(namespace, a.PlainAddress()),
			Type:      accountType,
		}
	}
	if err := r.accounts.SetAllAccounts(all, namespace); err != nil {
		return err
	}

	r.connectors.SetProvider(namespace, session.Provider, connectors.WalletConnect)
	if err := r.connectors.SetConnectorID(namespace, ConnectorID); err != nil {
		return err
	}
	if err := r.storage.AddConnectedNamespace(namespace); err != nil {
		return err
	}

	r.log.Debug("synced session namespace",
		zap.Stringer("namespace", namespace),
		zap.Stringer("address", caip.NewAddress(chainID, address)),
		zap.Int("numAccounts", len(all)),
	)
	return r.orchestrator.SetApprovedCaipNetworksData(namespace, orchestrator.ApprovedNetworks{
		SupportsAllNetworks:    session.PeerName == MetaMaskPeerName,
		ApprovedCaipNetworkIDs: r.approvedChains(namespace, sessionNS),
	})
}

// namespaceAccounts returns the well formed accounts of [sessionNS] that belong
// to [namespace].
func (r *Reconciler) namespaceAccounts(namespace caip.Namespace, sessionNS Namespace) []caip.Address {
	accounts := make([]caip.Address, 0, len(sessionNS.Accounts))
	for _, a := range sessionNS.Accounts {
		networkID, _, err := caip.ParseAddress(string(a))
		if err != nil || networkID.Namespace() != namespace {
			r.log.Warn("dropping session account",
				zap.Stringer("namespace", namespace),
				zap.String("account", string(a)),
				zap.Error(err),
			)
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts
}

func (*Reconciler) approvedChains(namespace caip.Namespace, sessionNS Namespace) []caip.NetworkID {
	chains := namespaceChains(sessionNS)
	approved := make([]caip.NetworkID, 0, len(chains))
	for _, id := range chains {
		if id.Namespace() == namespace {
			approved = append(approved, id)
		}
	}
	return approved
}

// disconnectNamespace drops the account of [namespace] alone. The other
// namespaces of the session keep their connections.
func (r *Reconciler) disconnectNamespace(namespace caip.Namespace) error {
	r.log.Info("session holds no accounts",
		zap.Stringer("namespace", namespace),
	)
	err := r.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.Account.Address = ""
		ns.Account.CaipAddress = ""
		ns.SetStatus(state.StatusDisconnected)
	})
	if err != nil {
		return err
	}
	if err := r.accounts.SetAllAccounts(nil, namespace); err != nil {
		return err
	}
	if r.connectors.ConnectorID(namespace) == ConnectorID {
		if err := r.connectors.RemoveConnectorID(namespace); err != nil {
			return err
		}
		r.connectors.ResetProvider(namespace)
	}
	return r.storage.RemoveConnectedNamespace(namespace)
}
