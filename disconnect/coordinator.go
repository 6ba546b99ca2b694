// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package disconnect tears down the connection of a namespace in a fixed
// order.
package disconnect

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/walletkit/account"
	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/notify"
	"github.com/ava-labs/walletkit/orchestrator"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/utils/timer/mockable"
	"github.com/ava-labs/walletkit/utils/wrappers"
)

// FailedTitle is the title of the notification sent when a disconnect step
// fails.
const FailedTitle = "Failed to disconnect"

var errMissingDependency = errors.New("missing dependency")

// AuthCleaner forgets the auth session of the connection.
type AuthCleaner interface {
	ClearSessions(ctx context.Context) error
}

type Config struct {
	Log          logging.Logger
	Store        state.Store
	Adapters     adapter.Table
	Orchestrator *orchestrator.Orchestrator
	Accounts     *account.Synchronizer
	Connectors   *connectors.Registry
	Storage      *storage.Storage
	Notifier     notify.Notifier
	// AuthCleaner defaults to Storage.
	AuthCleaner AuthCleaner
	Registerer  prometheus.Registerer
}

type Coordinator struct {
	log          logging.Logger
	store        state.Store
	adapters     adapter.Table
	orchestrator *orchestrator.Orchestrator
	accounts     *account.Synchronizer
	connectors   *connectors.Registry
	storage      *storage.Storage
	notifier     notify.Notifier
	auth         AuthCleaner
	clock        mockable.Clock
	metrics      metrics
}

func New(config Config) (*Coordinator, error) {
	if config.Store == nil || config.Orchestrator == nil || config.Accounts == nil ||
		config.Connectors == nil || config.Storage == nil {
		return nil, errMissingDependency
	}
	if config.Log == nil {
		config.Log = logging.NoLog{}
	}
	if config.Notifier == nil {
		config.Notifier = notify.NewLogNotifier(config.Log)
	}
	if config.AuthCleaner == nil {
		config.AuthCleaner = config.Storage
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.NewRegistry()
	}

	c := &Coordinator{
		log:          config.Log,
		store:        config.Store,
		adapters:     config.Adapters,
		orchestrator: config.Orchestrator,
		accounts:     config.Accounts,
		connectors:   config.Connectors,
		storage:      config.Storage,
		notifier:     config.Notifier,
		auth:         config.AuthCleaner,
	}
	if err := c.metrics.Initialize("walletkit_disconnect", config.Registerer); err != nil {
		return nil, err
	}
	return c, nil
}

// Disconnect tears down the connection of [namespace], or of the active
// namespace if [namespace] is empty.
//
// A failing auth cleanup aborts the teardown and leaves the namespace
// loading. Failures to disconnect the wallet or to update storage are
// reported and the teardown continues. The first of them is returned once
// the account is reset.
func (c *Coordinator) Disconnect(ctx context.Context, namespace caip.Namespace) error {
	if namespace == "" {
		namespace = c.store.ActiveNamespace()
	}
	if _, ok := c.store.Get(namespace); !ok {
		return fmt.Errorf("%w: %q", state.ErrUnknownNamespace, namespace)
	}

	start := c.clock.Time()
	log := c.log.With(zap.Stringer("namespace", namespace))

	if err := c.setLoading(namespace, true); err != nil {
		return err
	}
	if err := c.auth.ClearSessions(ctx); err != nil {
		c.metrics.disconnectFailures.WithLabelValues("auth").Inc()
		return fmt.Errorf("failed to clear auth session of %s: %w", namespace, err)
	}
	if err := c.orchestrator.ResetNetwork(namespace); err != nil {
		return err
	}
	if err := c.setLoading(namespace, false); err != nil {
		return err
	}
	c.connectors.SetFilterByNamespace("")

	errs := wrappers.Errs{}
	if err := c.disconnectWallet(ctx, namespace); err != nil {
		c.fail(log, "wallet", err)
		errs.Add(fmt.Errorf("failed to disconnect wallet of %s: %w", namespace, err))
	}
	if err := c.storage.RemoveConnectedNamespace(namespace); err != nil {
		c.fail(log, "storage", err)
		errs.Add(fmt.Errorf("failed to forget connection of %s: %w", namespace, err))
	}
	c.connectors.ResetProvider(namespace)

	if err := c.connectors.RemoveConnectorID(namespace); err != nil {
		log.Warn("failed to forget connector",
			zap.Error(err),
		)
	}
	if err := c.accounts.ResetAccount(namespace, c.orchestrator.DefaultAccountType(namespace)); err != nil {
		return err
	}
	if !c.anyConnected() {
		if err := c.storage.SetConnectionStatus(state.StatusDisconnected); err != nil {
			log.Warn("failed to persist connection status",
				zap.Error(err),
			)
		}
	}

	c.metrics.disconnects.Inc()
	c.metrics.duration.Observe(c.clock.Time().Sub(start).Seconds())
	log.Info("disconnected",
		zap.Duration("duration", c.clock.Time().Sub(start)),
	)
	return errs.Err
}

// DisconnectAll tears down every connected namespace concurrently. Each
// teardown runs to completion regardless of the others, and the first error
// is returned.
func (c *Coordinator) DisconnectAll(ctx context.Context) error {
	var eg errgroup.Group
	for _, namespace := range c.store.Namespaces() {
		ns, ok := c.store.Get(namespace)
		if !ok || !ns.IsConnected() {
			continue
		}
		eg.Go(func() error {
			return c.Disconnect(ctx, namespace)
		})
	}
	return eg.Wait()
}

func (c *Coordinator) disconnectWallet(ctx context.Context, namespace caip.Namespace) error {
	wallet, err := c.adapters.Get(namespace)
	if errors.Is(err, adapter.ErrNoAdapter) {
		c.log.Debug("no wallet to disconnect",
			zap.Stringer("namespace", namespace),
		)
		return nil
	}
	if err != nil {
		return err
	}

	params := adapter.DisconnectParams{}
	if ps, ok := c.connectors.Provider(namespace); ok {
		params.Provider = ps.Provider
		params.ProviderType = string(ps.Type)
	}
	return wallet.Disconnect(ctx, params)
}

// setLoading(true) always notifies, so a retry after an aborted teardown is
// announced even though the namespace never stopped loading.
func (c *Coordinator) setLoading(namespace caip.Namespace, loading bool) error {
	update := func(ns *state.NamespaceState) {
		ns.Loading = loading
	}
	if loading {
		return c.store.Publish(namespace, update)
	}
	return c.store.Commit(namespace, update)
}

func (c *Coordinator) fail(log logging.Logger, step string, err error) {
	c.metrics.disconnectFailures.WithLabelValues(step).Inc()
	log.Warn("disconnect step failed",
		zap.String("step", step),
		zap.Error(err),
	)
	c.notifier.ShowError(FailedTitle, err.Error())
}

func (c *Coordinator) anyConnected() bool {
	for _, namespace := range c.store.Namespaces() {
		if ns, ok := c.store.Get(namespace); ok && ns.IsConnected() {
			return true
		}
	}
	return false
}
