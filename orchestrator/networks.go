// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

// ApprovedNetworks is what a connected wallet authorized in a namespace.
type ApprovedNetworks struct {
	SupportsAllNetworks    bool             `json:"supportsAllNetworks"`
	ApprovedCaipNetworkIDs []caip.NetworkID `json:"approvedCaipNetworkIds"`
}

// GetApprovedCaipNetworksData never fails. Namespaces without approval data
// support every network.
func (o *Orchestrator) GetApprovedCaipNetworksData(namespace caip.Namespace) ApprovedNetworks {
	ns, ok := o.store.Get(namespace)
	if !ok {
		return ApprovedNetworks{
			SupportsAllNetworks:    true,
			ApprovedCaipNetworkIDs: []caip.NetworkID{},
		}
	}
	return ApprovedNetworks{
		SupportsAllNetworks:    ns.SupportsAllNetworks,
		ApprovedCaipNetworkIDs: ns.ApprovedCaipNetworkIDs,
	}
}

func (o *Orchestrator) SetApprovedCaipNetworksData(namespace caip.Namespace, approved ApprovedNetworks) error {
	ids := slices.Clone(approved.ApprovedCaipNetworkIDs)
	for _, id := range ids {
		if id.Namespace() != namespace {
			return fmt.Errorf("%w: %s in %s", state.ErrNetworkWrongNamespace, id, namespace)
		}
	}
	return o.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.SupportsAllNetworks = approved.SupportsAllNetworks
		ns.ApprovedCaipNetworkIDs = ids
	})
}

// CheckIfSupportedNetwork reports whether [id] is requested in [namespace].
// An empty [id] checks the active network of [namespace]. Every network is
// supported while nothing is requested.
func (o *Orchestrator) CheckIfSupportedNetwork(namespace caip.Namespace, id caip.NetworkID) bool {
	ns, ok := o.store.Get(namespace)
	if !ok || len(ns.RequestedCaipNetworks) == 0 {
		return true
	}
	if id == "" {
		id = ns.ActiveNetworkID()
	}
	return ns.IsRequested(id)
}

// CheckIfSmartAccountEnabled reports whether smart accounts are usable on the
// active network of the active namespace.
func (o *Orchestrator) CheckIfSmartAccountEnabled() bool {
	ns, ok := o.store.Get(o.store.ActiveNamespace())
	if !ok || ns.ActiveCaipNetwork == nil {
		return false
	}
	return slices.Contains(ns.SmartAccountEnabledNetworkIDs, ns.ActiveNetworkID())
}

func (o *Orchestrator) SetSmartAccountEnabledNetworks(ids []caip.NetworkID, namespace caip.Namespace) error {
	ids = slices.Clone(ids)
	return o.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.SmartAccountEnabledNetworkIDs = ids
	})
}

// ResetNetwork forgets the active network and the wallet approvals of
// [namespace]. Other namespaces are untouched.
func (o *Orchestrator) ResetNetwork(namespace caip.Namespace) error {
	return o.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.ActiveCaipNetwork = nil
		ns.ApprovedCaipNetworkIDs = []caip.NetworkID{}
		ns.SupportsAllNetworks = true
	})
}

// GetRequestedCaipNetworks returns the requested networks of [namespace] with
// the approved networks first, in approval order.
func (o *Orchestrator) GetRequestedCaipNetworks(namespace caip.Namespace) []caip.Network {
	ns, ok := o.store.Get(namespace)
	if !ok {
		return nil
	}
	return sortApprovedFirst(ns.ApprovedCaipNetworkIDs, ns.RequestedCaipNetworks)
}

func (o *Orchestrator) GetAllRequestedCaipNetworks() []caip.Network {
	var networks []caip.Network
	for _, namespace := range o.store.Namespaces() {
		networks = append(networks, o.GetRequestedCaipNetworks(namespace)...)
	}
	return networks
}

func (o *Orchestrator) GetAllApprovedCaipNetworkIDs() []caip.NetworkID {
	ids := []caip.NetworkID{}
	for _, namespace := range o.store.Namespaces() {
		ids = append(ids, o.GetApprovedCaipNetworksData(namespace).ApprovedCaipNetworkIDs...)
	}
	return ids
}

// AddNetwork requests [network] in its namespace, which must already be
// configured.
func (o *Orchestrator) AddNetwork(network caip.Network) error {
	if err := network.Verify(); err != nil {
		return err
	}
	err := o.store.Commit(network.Namespace, func(ns *state.NamespaceState) {
		if ns.IsRequested(network.CaipNetworkID()) {
			return
		}
		ns.RequestedCaipNetworks = append(ns.RequestedCaipNetworks, network)
	})
	if err != nil {
		return err
	}
	if o.connectors != nil {
		o.connectors.EnableNamespace(network.Namespace, true)
	}
	return nil
}

// RemoveNetwork stops requesting the network [id] of [namespace]. If it was
// the active network, the first remaining network becomes active.
func (o *Orchestrator) RemoveNetwork(namespace caip.Namespace, id string) error {
	networkID := caip.NewNetworkID(namespace, id)
	wasActive := false
	err := o.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.RequestedCaipNetworks = slices.DeleteFunc(ns.RequestedCaipNetworks, func(n caip.Network) bool {
			return n.ID == id
		})
		if ns.ActiveNetworkID() != networkID {
			return
		}
		wasActive = true
		ns.ActiveCaipNetwork = nil
		if len(ns.RequestedCaipNetworks) > 0 {
			first := ns.RequestedCaipNetworks[0]
			ns.ActiveCaipNetwork = &first
		}
	})
	if err != nil {
		return err
	}
	if wasActive && o.store.ActiveNamespace() == namespace {
		o.log.Debug("removed the active network",
			zap.Stringer("network", networkID),
		)
		return o.persistActive(namespace)
	}
	return nil
}

// GetCaipNetworkByID returns the requested network with chain reference [id].
// An empty [namespace] searches every namespace.
func (o *Orchestrator) GetCaipNetworkByID(id string, namespace caip.Namespace) (caip.Network, bool) {
	namespaces := []caip.Namespace{namespace}
	if namespace == "" {
		namespaces = o.store.Namespaces()
	}
	for _, namespace := range namespaces {
		ns, ok := o.store.Get(namespace)
		if !ok {
			continue
		}
		if network, ok := ns.RequestedNetwork(caip.NewNetworkID(namespace, id)); ok {
			return network, true
		}
	}
	return caip.Network{}, false
}

// GetCaipNetworkByNamespace returns the network [chainID] of [namespace],
// falling back to its active network and then to its first network.
func (o *Orchestrator) GetCaipNetworkByNamespace(namespace caip.Namespace, chainID string) (caip.Network, bool) {
	ns, ok := o.store.Get(namespace)
	if !ok {
		return caip.Network{}, false
	}
	if chainID != "" {
		if network, ok := ns.RequestedNetwork(caip.NewNetworkID(namespace, chainID)); ok {
			return network, true
		}
	}
	if ns.ActiveCaipNetwork != nil {
		return *ns.ActiveCaipNetwork, true
	}
	if len(ns.RequestedCaipNetworks) > 0 {
		return ns.RequestedCaipNetworks[0], true
	}
	return caip.Network{}, false
}

// ActiveCaipNetwork returns the active network of the active namespace.
func (o *Orchestrator) ActiveCaipNetwork() (caip.Network, bool) {
	ns, ok := o.store.Get(o.store.ActiveNamespace())
	if !ok || ns.ActiveCaipNetwork == nil {
		return caip.Network{}, false
	}
	return *ns.ActiveCaipNetwork, true
}

// ActiveCaipAddress returns the connected address of the active namespace, or
// "" if it is not connected.
func (o *Orchestrator) ActiveCaipAddress() caip.Address {
	ns, ok := o.store.Get(o.store.ActiveNamespace())
	if !ok {
		return ""
	}
	return ns.Account.CaipAddress
}

func sortApprovedFirst(approved []caip.NetworkID, requested []caip.Network) []caip.Network {
	rank := make(map[caip.NetworkID]int, len(approved))
	for i, id := range approved {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	sorted := slices.Clone(requested)
	slices.SortStableFunc(sorted, func(a, b caip.Network) int {
		rankA, approvedA := rank[a.CaipNetworkID()]
		rankB, approvedB := rank[b.CaipNetworkID()]
		switch {
		case approvedA && approvedB:
			return rankA - rankB
		case approvedA:
			return -1
		case approvedB:
			return 1
		default:
			return 0
		}
	})
	return sorted
}
