// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

// SetCaipAddress sets the connected address of [namespace]. The plain address
// is derived from [address].
func (s *Synchronizer) SetCaipAddress(address caip.Address, namespace caip.Namespace) error {
	if address != "" {
		if _, _, err := caip.ParseAddress(address.String()); err != nil {
			return err
		}
	}
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		ns.Account.CaipAddress = address
		ns.Account.Address = address.PlainAddress()
	})
}

func (s *Synchronizer) SetStatus(status state.Status, namespace caip.Namespace) error {
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		ns.SetStatus(status)
	})
}

func (s *Synchronizer) SetUser(user *state.User, namespace caip.Namespace) error {
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		ns.Account.User = user
	})
}

// SetBalance sets the native balance shown for the connected account.
func (s *Synchronizer) SetBalance(balance string, symbol string, namespace caip.Namespace) error {
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		ns.Account.Balance = balance
		ns.Account.BalanceSymbol = symbol
	})
}

func (s *Synchronizer) SetSmartAccountDeployed(deployed bool, namespace caip.Namespace) error {
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		ns.Account.SmartAccountDeployed = deployed
	})
}

func (s *Synchronizer) SetConnectedWalletInfo(info *state.WalletInfo, namespace caip.Namespace) error {
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		ns.Account.ConnectedWalletInfo = info
	})
}

// SetPreferredAccountType sets and persists the account type [namespace]
// prefers.
func (s *Synchronizer) SetPreferredAccountType(accountType string, namespace caip.Namespace) error {
	namespace = s.resolve(namespace)
	err := s.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.Account.PreferredAccountType = accountType
	})
	if err != nil {
		return err
	}
	if s.storage == nil {
		return nil
	}
	return s.storage.SetPreferredAccountType(namespace, accountType)
}

func (s *Synchronizer) AddAddressLabel(address string, label string, namespace caip.Namespace) error {
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		labels := maps.Clone(ns.Account.AddressLabels)
		if labels == nil {
			labels = make(map[string]string)
		}
		labels[address] = label
		ns.Account.AddressLabels = labels
	})
}

func (s *Synchronizer) RemoveAddressLabel(address string, namespace caip.Namespace) error {
	return s.store.Commit(s.resolve(namespace), func(ns *state.NamespaceState) {
		if _, ok := ns.Account.AddressLabels[address]; !ok {
			return
		}
		delete(ns.Account.AddressLabels, address)
		if len(ns.Account.AddressLabels) == 0 {
			ns.Account.AddressLabels = nil
		}
	})
}

// SetAllAccounts records every account the wallet exposes in [namespace],
// dropping duplicate addresses, and recomputes HasMultipleAddresses.
func (s *Synchronizer) SetAllAccounts(accounts []state.Account, namespace caip.Namespace) error {
	namespace = s.resolve(namespace)

	deduped := make([]state.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.Namespace == "" {
			account.Namespace = namespace
		}
		if account.Namespace != namespace {
			return fmt.Errorf("%w: account %s in %s", state.ErrNetworkWrongNamespace, account.Address, namespace)
		}
		if slices.ContainsFunc(deduped, func(a state.Account) bool {
			return a.Address == account.Address
		}) {
			continue
		}
		deduped = append(deduped, account)
	}

	err := s.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.Account.AllAccounts = deduped
	})
	if err != nil {
		return err
	}
	s.recomputeMultipleAddresses()
	return nil
}

// HasMultipleAddresses reports whether the wallets connected across every
// namespace expose more than one address in total.
func (s *Synchronizer) HasMultipleAddresses() bool {
	return s.hasMultipleAddresses.Load()
}

func (s *Synchronizer) recomputeMultipleAddresses() {
	total := 0
	for _, namespace := range s.store.Namespaces() {
		ns, ok := s.store.Get(namespace)
		if ok {
			total += len(ns.Account.AllAccounts)
		}
	}
	s.hasMultipleAddresses.Store(total > 1)
}

// ResetAccount clears every account field of [namespace] and leaves it
// disconnected. The preferred account type becomes [defaultType], or is kept
// if no default is configured.
func (s *Synchronizer) ResetAccount(namespace caip.Namespace, defaultType string) error {
	namespace = s.resolve(namespace)
	current, ok := s.store.Get(namespace)
	if !ok {
		return fmt.Errorf("%w: %s", state.ErrUnknownNamespace, namespace)
	}
	if s.balances != nil && current.Account.CaipAddress != "" {
		s.InvalidateBalances(current.Account.CaipAddress)
	}

	preferred := defaultType
	if preferred == "" {
		preferred = current.Account.PreferredAccountType
	}
	err := s.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.ResetAccount()
		ns.Account.PreferredAccountType = preferred
	})
	if err != nil {
		return err
	}
	s.recomputeMultipleAddresses()

	s.log.Debug("account reset",
		zap.Stringer("namespace", namespace),
	)
	return nil
}
