// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package session folds multi-chain wallet sessions into the state of each
// namespace the session covers.
package session

import (
	"slices"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/set"
)

// Namespace is what a session authorizes in one namespace.
type Namespace struct {
	Chains []caip.NetworkID `json:"chains"`
	// Accounts are fully qualified, such as "eip155:1:0xab16...".
	Accounts []caip.Address `json:"accounts"`
	Methods  []string       `json:"methods"`
	Events   []string       `json:"events"`
}

// Session is the wallet's view of a multi-chain connection.
type Session struct {
	Namespaces map[caip.Namespace]Namespace `json:"namespaces"`
	// PeerName is the name the wallet announced itself with.
	PeerName string           `json:"peerName"`
	Provider adapter.Provider `json:"-"`
}

// GetChainsFromNamespaces returns every chain a session covers. A wallet may
// hold accounts on chains it does not declare, so the chains of the accounts
// are included. Namespaces are visited in sorted order.
func GetChainsFromNamespaces(namespaces map[caip.Namespace]Namespace) []caip.NetworkID {
	chains := []caip.NetworkID{}
	for _, name := range sortedNamespaces(namespaces) {
		chains = append(chains, namespaceChains(namespaces[name])...)
	}
	return chains
}

// namespaceChains returns the deduplicated chains of [ns], declared chains
// first.
func namespaceChains(ns Namespace) []caip.NetworkID {
	var (
		seen   = set.NewSet[caip.NetworkID](len(ns.Chains) + len(ns.Accounts))
		chains = make([]caip.NetworkID, 0, len(ns.Chains)+len(ns.Accounts))
	)
	add := func(id caip.NetworkID) {
		if id == "" || seen.Contains(id) {
			return
		}
		seen.Add(id)
		chains = append(chains, id)
	}
	for _, id := range ns.Chains {
		add(id)
	}
	for _, account := range ns.Accounts {
		add(account.NetworkID())
	}
	return chains
}

func sortedNamespaces(namespaces map[caip.Namespace]Namespace) []caip.Namespace {
	names := make([]caip.Namespace, 0, len(namespaces))
	for name := range namespaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
