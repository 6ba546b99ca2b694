// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package orchestrator drives the connection state machine of every
// namespace: which namespace is active, which network each namespace is on,
// and which networks the connected wallets approved.
package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/utils/logging"
)

// DefaultSwitchTimeout bounds how long the wallet may take to answer a
// network switch.
const DefaultSwitchTimeout = 30 * time.Second

var (
	errNoNetworks       = errors.New("no networks configured")
	errDuplicateNetwork = errors.New("network configured twice")
)

type Config struct {
	Log        logging.Logger
	Store      state.Store
	Adapters   adapter.Table
	Storage    *storage.Storage
	Connectors *connectors.Registry

	// DefaultAccountTypes is the account type each namespace prefers until
	// the user picks one.
	DefaultAccountTypes map[caip.Namespace]string
	SwitchTimeout       time.Duration
	Registerer          prometheus.Registerer
}

type Orchestrator struct {
	log                 logging.Logger
	store               state.Store
	adapters            adapter.Table
	storage             *storage.Storage
	connectors          *connectors.Registry
	defaultAccountTypes map[caip.Namespace]string
	switchTimeout       time.Duration
	metrics             metrics
}

func New(config Config) (*Orchestrator, error) {
	if config.SwitchTimeout <= 0 {
		config.SwitchTimeout = DefaultSwitchTimeout
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.NewRegistry()
	}

	o := &Orchestrator{
		log:                 config.Log,
		store:               config.Store,
		adapters:            config.Adapters,
		storage:             config.Storage,
		connectors:          config.Connectors,
		defaultAccountTypes: config.DefaultAccountTypes,
		switchTimeout:       config.SwitchTimeout,
	}
	if err := o.metrics.Initialize("walletkit_orchestrator", config.Registerer); err != nil {
		return nil, err
	}
	return o, nil
}

// Initialize creates the state of every namespace [networks] span and
// restores the active namespace and network persisted by a previous run.
// Calling it again with the same networks changes nothing. Calling it with
// different networks updates the requested networks without touching account
// state.
func (o *Orchestrator) Initialize(networks []caip.Network) error {
	grouped, order, err := groupByNamespace(networks)
	if err != nil {
		return err
	}
	preferred, err := o.storage.PreferredAccountTypes()
	if err != nil {
		return fmt.Errorf("failed to restore preferred account types: %w", err)
	}

	for _, namespace := range order {
		requested := grouped[namespace]
		if _, ok := o.store.Get(namespace); !ok {
			initial := state.NewNamespaceState(namespace)
			initial.RequestedCaipNetworks = requested
			initial.Account.PreferredAccountType = o.preferredAccountType(preferred, namespace)
			if err := o.store.Create(initial); err != nil {
				return err
			}
			continue
		}

		err := o.store.Commit(namespace, func(ns *state.NamespaceState) {
			ns.RequestedCaipNetworks = requested
			if ns.ActiveCaipNetwork == nil {
				return
			}
			// Keep the active network in step with its configuration, or
			// drop it if it is no longer configured.
			if network, ok := ns.RequestedNetwork(ns.ActiveNetworkID()); ok {
				ns.ActiveCaipNetwork = &network
			} else {
				ns.ActiveCaipNetwork = nil
			}
		})
		if err != nil {
			return err
		}
	}

	if err := o.restoreActive(order); err != nil {
		return err
	}
	if o.connectors != nil {
		o.connectors.FilterByNamespaces(o.store.Namespaces())
	}

	o.log.Info("initialized namespaces",
		zap.Int("numNamespaces", len(order)),
		zap.Int("numNetworks", len(networks)),
		zap.Stringer("activeNamespace", o.store.ActiveNamespace()),
	)
	return nil
}

func (o *Orchestrator) restoreActive(order []caip.Namespace) error {
	storedNamespace, err := o.storage.ActiveNamespace()
	if err != nil {
		return fmt.Errorf("failed to restore active namespace: %w", err)
	}
	storedNetwork, err := o.storage.ActiveCaipNetworkID()
	if err != nil {
		return fmt.Errorf("failed to restore active network: %w", err)
	}

	for _, namespace := range order {
		err := o.store.Commit(namespace, func(ns *state.NamespaceState) {
			if ns.ActiveCaipNetwork != nil {
				return
			}
			if network, ok := ns.RequestedNetwork(storedNetwork); ok {
				ns.ActiveCaipNetwork = &network
				return
			}
			if len(ns.RequestedCaipNetworks) > 0 {
				network := ns.RequestedCaipNetworks[0]
				ns.ActiveCaipNetwork = &network
			}
		})
		if err != nil {
			return err
		}
	}

	active := o.store.ActiveNamespace()
	if active == "" {
		if _, ok := o.store.Get(storedNamespace); ok {
			active = storedNamespace
		} else {
			active = order[0]
		}
	}
	return o.store.SetActiveNamespace(active)
}

func (o *Orchestrator) preferredAccountType(stored map[caip.Namespace]string, namespace caip.Namespace) string {
	if accountType, ok := stored[namespace]; ok {
		return accountType
	}
	return o.defaultAccountTypes[namespace]
}

// DefaultAccountType is the account type [namespace] prefers until the user
// picks one.
func (o *Orchestrator) DefaultAccountType(namespace caip.Namespace) string {
	return o.defaultAccountTypes[namespace]
}

// SetActiveNamespace makes [namespace] the globally active namespace and
// persists it. Unknown namespaces are ignored.
func (o *Orchestrator) SetActiveNamespace(namespace caip.Namespace) error {
	if _, ok := o.store.Get(namespace); !ok {
		o.log.Debug("ignoring unknown namespace",
			zap.Stringer("namespace", namespace),
		)
		return nil
	}
	if err := o.store.SetActiveNamespace(namespace); err != nil {
		return err
	}
	return o.persistActive(namespace)
}

func (o *Orchestrator) persistActive(namespace caip.Namespace) error {
	ns, ok := o.store.Get(namespace)
	if !ok {
		return fmt.Errorf("%w: %s", state.ErrUnknownNamespace, namespace)
	}
	if err := o.storage.SetActiveNamespace(namespace); err != nil {
		return fmt.Errorf("failed to persist active namespace: %w", err)
	}
	if err := o.storage.SetActiveCaipNetworkID(ns.ActiveNetworkID()); err != nil {
		return fmt.Errorf("failed to persist active network: %w", err)
	}
	return nil
}

// groupByNamespace splits [networks] by namespace. Namespaces are returned in
// the order they first appear.
func groupByNamespace(networks []caip.Network) (map[caip.Namespace][]caip.Network, []caip.Namespace, error) {
	if len(networks) == 0 {
		return nil, nil, errNoNetworks
	}

	var (
		grouped = make(map[caip.Namespace][]caip.Network)
		order   []caip.Namespace
		seen    = make(map[caip.NetworkID]struct{}, len(networks))
	)
	for _, network := range networks {
		if err := network.Verify(); err != nil {
			return nil, nil, err
		}
		id := network.CaipNetworkID()
		if _, ok := seen[id]; ok {
			return nil, nil, fmt.Errorf("%w: %s", errDuplicateNetwork, id)
		}
		seen[id] = struct{}{}

		if _, ok := grouped[network.Namespace]; !ok {
			order = append(order, network.Namespace)
		}
		grouped[network.Namespace] = append(grouped[network.Namespace], network)
	}
	return grouped, order, nil
}
