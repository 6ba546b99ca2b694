// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

// Subscribe command to start receiving the changes of namespaces
type Subscribe struct {
	// Namespaces to follow. Empty follows every namespace.
	Namespaces []caip.Namespace `json:"namespaces"`
}

// Unsubscribe command to stop receiving the changes of namespaces
type Unsubscribe struct {
	// Namespaces to drop. Empty drops every namespace.
	Namespaces []caip.Namespace `json:"namespaces"`
}

// Command execution command
type Command struct {
	Subscribe   *Subscribe   `json:"subscribe,omitempty"`
	Unsubscribe *Unsubscribe `json:"unsubscribe,omitempty"`
}

func (c *Command) String() string {
	switch {
	case c.Subscribe != nil:
		return "subscribe"
	case c.Unsubscribe != nil:
		return "unsubscribe"
	}
	return "unknown"
}

// Snapshot is sent to a subscriber after every change of a namespace it
// follows, and once per namespace when it subscribes.
type Snapshot struct {
	Namespace caip.Namespace       `json:"namespace"`
	Machine   state.MachineState   `json:"machine"`
	State     state.NamespaceState `json:"state"`
}
