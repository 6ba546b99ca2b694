// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package connectors

import (
	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
)

// Type is the connection mechanism a connector uses.
type Type string

const (
	Injected      Type = "INJECTED"
	WalletConnect Type = "WALLET_CONNECT"
	Auth          Type = "AUTH"
	Announced     Type = "ANNOUNCED"
	External      Type = "EXTERNAL"
)

// Connector is one way to reach a wallet in one namespace.
type Connector struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Namespace  caip.Namespace   `json:"namespace"`
	Type       Type             `json:"type"`
	Provider   adapter.Provider `json:"-"`
	RDNS       string           `json:"rdns,omitempty"`
	ExplorerID string           `json:"explorerId,omitempty"`
	ImageURL   string           `json:"imageUrl,omitempty"`
}

// Group is a wallet that is reachable in more than one namespace.
type Group struct {
	Name       string      `json:"name"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	Connectors []Connector `json:"connectors"`
}

// displayNames maps wallet names that differ between namespaces onto one
// name.
var displayNames = map[string]string{
	"Trust Wallet": "Trust",
}

func displayName(name string) string {
	if override, ok := displayNames[name]; ok {
		return override
	}
	return name
}

type key struct {
	id        string
	namespace caip.Namespace
}

func (c *Connector) key() key {
	return key{
		id:        c.ID,
		namespace: c.Namespace,
	}
}
