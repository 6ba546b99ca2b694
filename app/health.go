// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"errors"
	"fmt"

	"github.com/ava-labs/walletkit/api/health"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/utils/set"
	"github.com/ava-labs/walletkit/utils/wrappers"
	"github.com/ava-labs/walletkit/version"
)

var (
	errNotInitialized = errors.New("wallet kit is not initialized")
	errNamespaceState = errors.New("namespace is in the error state")

	healthCheckKey = []byte("health")
)

// registerHealthChecks reports readiness once the kit restored its sessions,
// health from the database and from each configured namespace, and liveness
// from the running version. Namespace checks are tagged with their namespace.
func (a *walletKit) registerHealthChecks(h health.Registerer) error {
	errs := wrappers.Errs{}
	errs.Add(
		h.RegisterReadinessCheck("initialized", health.CheckerFunc(func() (interface{}, error) {
			if !a.initialized.Load() {
				return nil, errNotInitialized
			}
			return nil, nil
		})),
		h.RegisterHealthCheck("database", health.CheckerFunc(func() (interface{}, error) {
			_, err := a.db.Has(healthCheckKey)
			return a.config.DBType, err
		})),
		h.RegisterLivenessCheck("version", health.CheckerFunc(func() (interface{}, error) {
			return version.String(), nil
		})),
	)

	registered := set.NewSet[caip.Namespace](len(a.config.Networks))
	for _, network := range a.config.Networks {
		namespace := network.Namespace
		if registered.Contains(namespace) {
			continue
		}
		registered.Add(namespace)
		errs.Add(h.RegisterHealthCheck(string(namespace), a.namespaceCheck(namespace), namespace))
	}
	return errs.Err
}

// namespaceCheck reports the machine state of [namespace]. It fails while the
// namespace is in the error state.
func (a *walletKit) namespaceCheck(namespace caip.Namespace) health.Checker {
	return health.CheckerFunc(func() (interface{}, error) {
		ns, ok := a.kit.Store.Get(namespace)
		if !ok {
			return nil, fmt.Errorf("%w: %s", state.ErrUnknownNamespace, namespace)
		}
		machine := ns.Machine.String()
		if ns.Machine == state.Error {
			return machine, fmt.Errorf("%w: %s", errNamespaceState, ns.Err)
		}
		return machine, nil
	})
}
