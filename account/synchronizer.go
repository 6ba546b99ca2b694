// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package account keeps the account fields of every namespace in sync: the
// connected address, the accounts a wallet exposes and token balances.
package account

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/notify"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/timer/mockable"
)

const (
	// DefaultBalanceCooldown is how long balance fetches are skipped after a
	// failure.
	DefaultBalanceCooldown = 30 * time.Second

	BalanceUnavailableTitle = "Token Balance Unavailable"

	// Tokens reporting zero decimals are not fungible balances.
	nonFungibleDecimals = "0"
)

var errMissingSource = errors.New("missing balance source")

// BalanceSource reports the token balances of an account. It is called with
// the fully qualified address, so the network is always known.
type BalanceSource interface {
	GetBalances(ctx context.Context, address caip.Address) ([]state.Balance, error)
}

type Config struct {
	Log      logging.Logger
	Store    state.Store
	Storage  *storage.Storage
	Source   BalanceSource
	Notifier notify.Notifier

	// BalanceCooldown defaults to DefaultBalanceCooldown.
	BalanceCooldown time.Duration
	// BalanceCacheTTL is how long successful balance fetches are reused. 0
	// disables the cache.
	BalanceCacheTTL time.Duration

	Registerer prometheus.Registerer
}

type Synchronizer struct {
	log      logging.Logger
	store    state.Store
	storage  *storage.Storage
	source   BalanceSource
	notifier notify.Notifier
	clock    mockable.Clock
	cooldown time.Duration
	// nil if disabled
	balances *cache.Cache
	metrics  metrics

	hasMultipleAddresses atomic.Bool
}

func New(config Config) (*Synchronizer, error) {
	if config.Source == nil {
		return nil, errMissingSource
	}
	if config.BalanceCooldown <= 0 {
		config.BalanceCooldown = DefaultBalanceCooldown
	}
	if config.Notifier == nil {
		config.Notifier = notify.NewLogNotifier(config.Log)
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.NewRegistry()
	}

	s := &Synchronizer{
		log:      config.Log,
		store:    config.Store,
		storage:  config.Storage,
		source:   config.Source,
		notifier: config.Notifier,
		cooldown: config.BalanceCooldown,
	}
	if config.BalanceCacheTTL > 0 {
		s.balances = cache.New(config.BalanceCacheTTL, 2*config.BalanceCacheTTL)
	}
	if err := s.metrics.Initialize("walletkit_account", config.Registerer); err != nil {
		return nil, fmt.Errorf("failed to register account metrics: %w", err)
	}
	return s, nil
}

// Clock is the clock balance cooldowns are measured with.
func (s *Synchronizer) Clock() *mockable.Clock {
	return &s.clock
}

func (s *Synchronizer) resolve(namespace caip.Namespace) caip.Namespace {
	if namespace == "" {
		return s.store.ActiveNamespace()
	}
	return namespace
}

// FetchTokenBalance refreshes the token balances of the account connected in
// [namespace], or in the active namespace if [namespace] is empty. Failures
// are reported through [onError] and the notifier, never returned. After a
// failure, fetches are skipped until the cooldown elapses.
func (s *Synchronizer) FetchTokenBalance(
	ctx context.Context,
	namespace caip.Namespace,
	onError func(error),
) []state.Balance {
	namespace = s.resolve(namespace)
	if namespace == "" {
		return []state.Balance{}
	}
	current, ok := s.store.Get(namespace)
	if !ok || current.Account.Address == "" || current.ActiveCaipNetwork == nil {
		return []state.Balance{}
	}

	now := s.clock.Time()
	if !current.Account.BalanceRetry.Allowed(now) {
		s.metrics.skipped.Inc()
		s.log.Debug("skipping balance fetch during cooldown",
			zap.Stringer("namespace", namespace),
			zap.Duration("remaining", current.Account.BalanceRetry.Remaining(now)),
		)
		return []state.Balance{}
	}

	address := caip.NewAddress(current.ActiveNetworkID(), current.Account.Address)
	if s.balances != nil {
		if cached, ok := s.balances.Get(address.String()); ok {
			s.metrics.cacheHits.Inc()
			balances := slices.Clone(cached.([]state.Balance))
			s.commitBalances(namespace, balances)
			return balances
		}
	}

	s.commit(namespace, func(ns *state.NamespaceState) {
		ns.Account.BalanceLoading = true
	})

	s.metrics.fetches.Inc()
	balances, err := s.source.GetBalances(ctx, address)
	if err != nil {
		s.metrics.failures.Inc()
		s.log.Warn("failed to fetch token balance",
			zap.Stringer("namespace", namespace),
			zap.Stringer("address", address),
			zap.Error(err),
		)
		s.commit(namespace, func(ns *state.NamespaceState) {
			ns.Account.BalanceLoading = false
			ns.Account.BalanceRetry.Window = s.cooldown
			ns.Account.BalanceRetry.Failed(now)
		})
		if onError != nil {
			onError(err)
		}
		s.notifier.ShowError(BalanceUnavailableTitle, err.Error())
		return []state.Balance{}
	}

	balances = fungible(balances)
	if s.balances != nil {
		s.balances.SetDefault(address.String(), slices.Clone(balances))
	}
	s.commitBalances(namespace, balances)
	return balances
}

func (s *Synchronizer) commitBalances(namespace caip.Namespace, balances []state.Balance) {
	s.commit(namespace, func(ns *state.NamespaceState) {
		ns.Account.TokenBalance = slices.Clone(balances)
		ns.Account.BalanceLoading = false
		ns.Account.BalanceRetry.Reset()
	})
}

// InvalidateBalances drops the cached balances of [address].
func (s *Synchronizer) InvalidateBalances(address caip.Address) {
	if s.balances != nil {
		s.balances.Delete(address.String())
	}
}

// commit logs failures. They only happen if [namespace] is removed
// concurrently.
func (s *Synchronizer) commit(namespace caip.Namespace, update func(*state.NamespaceState)) {
	if err := s.store.Commit(namespace, update); err != nil {
		s.log.Debug("dropped account update",
			zap.Stringer("namespace", namespace),
			zap.Error(err),
		)
	}
}

func fungible(balances []state.Balance) []state.Balance {
	filtered := make([]state.Balance, 0, len(balances))
	for _, balance := range balances {
		if balance.Quantity.Decimals != nonFungibleDecimals {
			filtered = append(filtered, balance)
		}
	}
	return filtered
}
