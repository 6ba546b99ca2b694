// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package caip

import "fmt"

type Currency struct {
	Name     string `json:"name"     mapstructure:"name"`
	Symbol   string `json:"symbol"   mapstructure:"symbol"`
	Decimals int    `json:"decimals" mapstructure:"decimals"`
}

// Network is a chain the application is willing to connect to.
type Network struct {
	// ID is the chain reference within [Namespace], such as "1" or
	// "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp".
	ID             string    `json:"id"             mapstructure:"id"`
	Namespace      Namespace `json:"namespace"      mapstructure:"namespace"`
	Name           string    `json:"name"           mapstructure:"name"`
	NativeCurrency Currency  `json:"nativeCurrency" mapstructure:"native-currency"`
	RPCURL         string    `json:"rpcUrl"         mapstructure:"rpc-url"`
	ExplorerURL    string    `json:"explorerUrl"    mapstructure:"explorer-url"`
	Testnet        bool      `json:"testnet"        mapstructure:"testnet"`
}

func (n Network) CaipNetworkID() NetworkID {
	return NewNetworkID(n.Namespace, n.ID)
}

func (n Network) Verify() error {
	if err := n.Namespace.Verify(); err != nil {
		return err
	}
	if !referenceRegex.MatchString(n.ID) {
		return fmt.Errorf("%w: bad reference %q for %s", ErrInvalidNetworkID, n.ID, n.Namespace)
	}
	return nil
}

func (n Network) String() string {
	if n.Name == "" {
		return n.CaipNetworkID().String()
	}
	return fmt.Sprintf("%s (%s)", n.Name, n.CaipNetworkID())
}
