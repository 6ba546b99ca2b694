// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

// ErrSwitchFailed is returned by SwitchActiveNetwork when the wallet rejected
// the switch or did not answer in time, and the caller asked for failures to
// be returned.
var ErrSwitchFailed = errors.New("network switch failed")

type switchOptions struct {
	throwOnFailure bool
}

type SwitchOption func(*switchOptions)

// WithThrowOnFailure makes SwitchActiveNetwork return ErrSwitchFailed when the
// wallet rejects the switch. By default the failure is only observable as the
// Error machine state.
func WithThrowOnFailure() SwitchOption {
	return func(o *switchOptions) {
		o.throwOnFailure = true
	}
}

// SwitchActiveNetwork moves the namespace of [network] onto [network] and
// makes that namespace active.
//
// Unknown networks fall back to the active network, then to the first
// configured network. If the namespace is connected the wallet is asked to
// switch first. A rejection or timeout leaves the active network unchanged
// and puts the namespace in the Error state until the next attempt.
func (o *Orchestrator) SwitchActiveNetwork(ctx context.Context, network caip.Network, opts ...SwitchOption) error {
	options := switchOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	target, ok := o.validate(network)
	if !ok {
		o.log.Warn("no network to switch to",
			zap.Stringer("network", network.CaipNetworkID()),
		)
		return nil
	}

	var (
		namespace       = target.Namespace
		targetID        = target.CaipNetworkID()
		activeNamespace = o.store.ActiveNamespace()
	)
	current, ok := o.store.Get(namespace)
	if !ok {
		return fmt.Errorf("%w: %s", state.ErrUnknownNamespace, namespace)
	}
	if current.ActiveNetworkID() == targetID && current.Machine != state.Error && activeNamespace == namespace {
		return nil
	}

	if activeNamespace != namespace {
		o.store.SetSwitchingNamespace(true)
		defer o.store.SetSwitchingNamespace(false)
		o.metrics.namespaceSwitches.Inc()
	}

	err := o.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.Machine = state.SwitchingNetwork
	})
	if err != nil {
		return err
	}

	if current.IsConnected() {
		if err := o.switchWallet(ctx, target); err != nil {
			o.metrics.switchFailures.Inc()
			o.log.Warn("wallet failed to switch network",
				zap.Stringer("namespace", namespace),
				zap.Stringer("network", targetID),
				zap.Error(err),
			)
			commitErr := o.store.Commit(namespace, func(ns *state.NamespaceState) {
				ns.Machine = state.Error
				ns.Err = err.Error()
			})
			if commitErr != nil {
				return commitErr
			}
			if options.throwOnFailure {
				return fmt.Errorf("%w: %s: %w", ErrSwitchFailed, targetID, err)
			}
			return nil
		}
	}

	err = o.store.Commit(namespace, func(ns *state.NamespaceState) {
		network := target
		ns.ActiveCaipNetwork = &network
		if ns.Account.Address != "" {
			ns.Account.CaipAddress = caip.NewAddress(targetID, ns.Account.Address)
		}
		ns.ClearError()
	})
	if err != nil {
		return err
	}
	if err := o.store.SetActiveNamespace(namespace); err != nil {
		return err
	}
	o.metrics.switches.Inc()

	o.log.Debug("switched network",
		zap.Stringer("namespace", namespace),
		zap.Stringer("network", targetID),
		zap.Bool("wallet", current.IsConnected()),
	)
	return o.persistActive(namespace)
}

// SwitchActiveNamespace makes [namespace] active on its current network, or
// on its first network if it has none. Unknown namespaces are ignored.
func (o *Orchestrator) SwitchActiveNamespace(ctx context.Context, namespace caip.Namespace) error {
	ns, ok := o.store.Get(namespace)
	if !ok {
		o.log.Debug("ignoring unknown namespace",
			zap.Stringer("namespace", namespace),
		)
		return nil
	}
	switch {
	case ns.ActiveCaipNetwork != nil:
		return o.SwitchActiveNetwork(ctx, *ns.ActiveCaipNetwork)
	case len(ns.RequestedCaipNetworks) > 0:
		return o.SwitchActiveNetwork(ctx, ns.RequestedCaipNetworks[0])
	default:
		return o.SetActiveNamespace(namespace)
	}
}

// validate returns the requested network matching [network]. Unknown networks
// fall back to the active network, then to the first configured network.
func (o *Orchestrator) validate(network caip.Network) (caip.Network, bool) {
	if ns, ok := o.store.Get(network.Namespace); ok {
		if requested, ok := ns.RequestedNetwork(network.CaipNetworkID()); ok {
			return requested, true
		}
	}

	o.metrics.validationFallbacks.Inc()
	if active, ok := o.ActiveCaipNetwork(); ok {
		o.log.Warn("unknown network, falling back to the active network",
			zap.Stringer("network", network.CaipNetworkID()),
			zap.Stringer("fallback", active.CaipNetworkID()),
		)
		return active, true
	}
	for _, namespace := range o.store.Namespaces() {
		ns, ok := o.store.Get(namespace)
		if !ok || len(ns.RequestedCaipNetworks) == 0 {
			continue
		}
		first := ns.RequestedCaipNetworks[0]
		o.log.Warn("unknown network, falling back to the first network",
			zap.Stringer("network", network.CaipNetworkID()),
			zap.Stringer("fallback", first.CaipNetworkID()),
		)
		return first, true
	}
	return caip.Network{}, false
}

// switchWallet asks the wallet of the namespace of [network] to switch. The
// wallet gets at most [o.switchTimeout] to answer.
func (o *Orchestrator) switchWallet(ctx context.Context, network caip.Network) error {
	a, err := o.adapters.Get(network.Namespace)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, o.switchTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- a.SwitchNetwork(ctx, network)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
