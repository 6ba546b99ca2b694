// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package appkit builds the wallet kit: every component wired to the same
// state store, storage and wallets.
package appkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/account"
	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/database"
	"github.com/ava-labs/walletkit/database/memdb"
	"github.com/ava-labs/walletkit/disconnect"
	"github.com/ava-labs/walletkit/notify"
	"github.com/ava-labs/walletkit/orchestrator"
	"github.com/ava-labs/walletkit/session"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/trace"
	"github.com/ava-labs/walletkit/utils/logging"
)

var errNoNetworks = errors.New("no networks configured")

type Config struct {
	Log logging.Logger
	// DB defaults to an in-memory database.
	DB            database.Database
	StoragePrefix string

	Networks   []caip.Network
	Adapters   adapter.Table
	Connectors []connectors.Connector
	// BalanceSources maps a namespace to the source of its token balances.
	// Namespaces without one fail balance fetches.
	BalanceSources      map[caip.Namespace]account.BalanceSource
	DefaultAccountTypes map[caip.Namespace]string

	Notifier notify.Notifier
	// Tracer defaults to the no-op tracer.
	Tracer     trace.Tracer
	Registerer prometheus.Registerer

	BalanceCooldown time.Duration
	BalanceCacheTTL time.Duration
	SwitchTimeout   time.Duration
}

// Kit is the wallet kit. It is built once by the application and passed to
// whatever needs it.
type Kit struct {
	log        logging.Logger
	networks   []caip.Network
	connectors []connectors.Connector
	adapters   adapter.Table

	Store        state.Store
	Storage      *storage.Storage
	Registry     *connectors.Registry
	Accounts     *account.Synchronizer
	Orchestrator *orchestrator.Orchestrator
	Sessions     *session.Reconciler
	Disconnector *disconnect.Coordinator
	Notifier     notify.Notifier
}

func New(config Config) (*Kit, error) {
	if len(config.Networks) == 0 {
		return nil, errNoNetworks
	}
	if config.Log == nil {
		config.Log = logging.NoLog{}
	}
	if config.DB == nil {
		config.DB = memdb.New()
	}
	if config.Tracer == nil {
		config.Tracer = trace.Noop
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.NewRegistry()
	}
	if config.Notifier == nil {
		config.Notifier = notify.NewLogNotifier(config.Log.With(zap.String("component", "notify")))
	}

	var (
		store    = state.NewStore(config.Log.With(zap.String("component", "state")))
		s        = storage.New(config.Log.With(zap.String("component", "storage")), config.DB, config.StoragePrefix)
		registry = connectors.New(config.Log.With(zap.String("component", "connectors")), s)
		adapters = adapter.TraceTable(config.Adapters, config.Tracer)
	)

	accounts, err := account.New(account.Config{
		Log:             config.Log.With(zap.String("component", "account")),
		Store:           store,
		Storage:         s,
		Source:          newNamespaceBalances(config.BalanceSources),
		Notifier:        config.Notifier,
		BalanceCooldown: config.BalanceCooldown,
		BalanceCacheTTL: config.BalanceCacheTTL,
		Registerer:      config.Registerer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account synchronizer: %w", err)
	}

	o, err := orchestrator.New(orchestrator.Config{
		Log:                 config.Log.With(zap.String("component", "orchestrator")),
		Store:               store,
		Adapters:            adapters,
		Storage:             s,
		Connectors:          registry,
		DefaultAccountTypes: config.DefaultAccountTypes,
		SwitchTimeout:       config.SwitchTimeout,
		Registerer:          config.Registerer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	sessions, err := session.New(session.Config{
		Log:          config.Log.With(zap.String("component", "session")),
		Store:        store,
		Orchestrator: o,
		Accounts:     accounts,
		Connectors:   registry,
		Storage:      s,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session reconciler: %w", err)
	}

	disconnector, err := disconnect.New(disconnect.Config{
		Log:          config.Log.With(zap.String("component", "disconnect")),
		Store:        store,
		Adapters:     adapters,
		Orchestrator: o,
		Accounts:     accounts,
		Connectors:   registry,
		Storage:      s,
		Notifier:     config.Notifier,
		Registerer:   config.Registerer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create disconnect coordinator: %w", err)
	}

	return &Kit{
		log:          config.Log,
		networks:     config.Networks,
		connectors:   config.Connectors,
		adapters:     adapters,
		Store:        store,
		Storage:      s,
		Registry:     registry,
		Accounts:     accounts,
		Orchestrator: o,
		Sessions:     sessions,
		Disconnector: disconnector,
		Notifier:     config.Notifier,
	}, nil
}

// Initialize configures the namespaces of the kit and restores the
// connections of a prior run. Wallets are queried for their accounts but are
// never asked to connect again.
func (k *Kit) Initialize(ctx context.Context) error {
	if err := k.Orchestrator.Initialize(k.networks); err != nil {
		return err
	}
	if err := k.Registry.Initialize(k.Store.Namespaces()); err != nil {
		return err
	}
	if err := k.Registry.SetConnectors(k.connectors); err != nil {
		return err
	}
	return k.restore(ctx)
}

// Disconnect tears down the connection of [namespace], or of the active
// namespace if [namespace] is empty.
func (k *Kit) Disconnect(ctx context.Context, namespace caip.Namespace) error {
	return k.Disconnector.Disconnect(ctx, namespace)
}

// SyncSession applies a multi-chain wallet session.
func (k *Kit) SyncSession(ctx context.Context, s session.Session) error {
	return k.Sessions.SyncWalletConnectAccount(ctx, s)
}

// Subscribe calls [listener] after every change to [namespace], or to any
// namespace if [namespace] is state.AllNamespaces.
func (k *Kit) Subscribe(namespace caip.Namespace, listener state.Listener) func() {
	return k.Store.Subscribe(namespace, listener)
}
