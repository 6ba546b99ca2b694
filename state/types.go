// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/backoff"
)

var errUnknownMachineState = errors.New("unknown machine state")

// MachineState is the connection machine of a single namespace.
type MachineState uint8

const (
	Disconnected MachineState = iota
	Connecting
	Connected
	SwitchingNetwork
	Error
)

func (s MachineState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case SwitchingNetwork:
		return "switchingNetwork"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

func (s MachineState) MarshalJSON() ([]byte, error) {
	if s > Error {
		return nil, fmt.Errorf("%w: %d", errUnknownMachineState, s)
	}
	return json.Marshal(s.String())
}

func (s *MachineState) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	for candidate := Disconnected; candidate <= Error; candidate++ {
		if candidate.String() == str {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: %q", errUnknownMachineState, str)
}

// Status is the account connection status reported to the application.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusReconnecting Status = "reconnecting"
)

// Machine returns the machine state an account status implies.
func (s Status) Machine() MachineState {
	switch s {
	case StatusConnected:
		return Connected
	case StatusConnecting, StatusReconnecting:
		return Connecting
	default:
		return Disconnected
	}
}

// Account types a wallet may expose per namespace.
const (
	AccountTypeEOA          = "eoa"
	AccountTypeSmartAccount = "smartAccount"
	AccountTypePayment      = "payment"
	AccountTypeOrdinal      = "ordinal"
)

// Account is one address a wallet exposes in a namespace.
type Account struct {
	Namespace caip.Namespace `json:"namespace"`
	Address   string         `json:"address"`
	Type      string         `json:"type"`
	PublicKey string         `json:"publicKey,omitempty"`
	Path      string         `json:"path,omitempty"`
}

// Balance is a token balance of the connected account.
type Balance struct {
	Name     string          `json:"name"`
	Symbol   string          `json:"symbol"`
	ChainID  caip.NetworkID  `json:"chainId"`
	Address  string          `json:"address,omitempty"`
	Value    float64         `json:"value,omitempty"`
	Price    float64         `json:"price"`
	Quantity BalanceQuantity `json:"quantity"`
	IconURL  string          `json:"iconUrl,omitempty"`
}

type BalanceQuantity struct {
	Decimals string `json:"decimals"`
	Numeric  string `json:"numeric"`
}

// User is the identity attached to the connection by an auth connector.
type User struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// WalletInfo describes the wallet that owns the connection.
type WalletInfo struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	Type string `json:"type,omitempty"`
	RDNS string `json:"rdns,omitempty"`
}

// AccountState is everything known about the connected account of a single
// namespace.
type AccountState struct {
	Address              string            `json:"address,omitempty"`
	CaipAddress          caip.Address      `json:"caipAddress,omitempty"`
	Balance              string            `json:"balance,omitempty"`
	BalanceSymbol        string            `json:"balanceSymbol,omitempty"`
	BalanceLoading       bool              `json:"balanceLoading"`
	TokenBalance         []Balance         `json:"tokenBalance,omitempty"`
	PreferredAccountType string            `json:"preferredAccountType,omitempty"`
	Status               Status            `json:"status"`
	SmartAccountDeployed bool              `json:"smartAccountDeployed"`
	AllAccounts          []Account         `json:"allAccounts,omitempty"`
	User                 *User             `json:"user,omitempty"`
	ConnectedWalletInfo  *WalletInfo       `json:"connectedWalletInfo,omitempty"`
	AddressLabels        map[string]string `json:"addressLabels,omitempty"`
	BalanceRetry         backoff.Cooldown  `json:"-"`
}

// NamespaceState is the connection state of a single namespace. It is only
// ever mutated through Store.Commit.
type NamespaceState struct {
	Namespace                     caip.Namespace   `json:"namespace"`
	ActiveCaipNetwork             *caip.Network    `json:"activeCaipNetwork,omitempty"`
	RequestedCaipNetworks         []caip.Network   `json:"requestedCaipNetworks"`
	ApprovedCaipNetworkIDs        []caip.NetworkID `json:"approvedCaipNetworkIds"`
	SupportsAllNetworks           bool             `json:"supportsAllNetworks"`
	SmartAccountEnabledNetworkIDs []caip.NetworkID `json:"smartAccountEnabledNetworks,omitempty"`
	Account                       AccountState     `json:"account"`
	Machine                       MachineState     `json:"machine"`
	Err                           string           `json:"error,omitempty"`
	Loading                       bool             `json:"loading"`
}

// NewNamespaceState returns the initial state of [namespace]: disconnected and
// permissive about approved networks.
func NewNamespaceState(namespace caip.Namespace) NamespaceState {
	return NamespaceState{
		Namespace:              namespace,
		ApprovedCaipNetworkIDs: []caip.NetworkID{},
		SupportsAllNetworks:    true,
		Account: AccountState{
			Status: StatusDisconnected,
		},
		Machine: Disconnected,
	}
}

// Clone returns a deep copy, so that listeners can never alias store memory.
func (s NamespaceState) Clone() NamespaceState {
	if s.ActiveCaipNetwork != nil {
		network := *s.ActiveCaipNetwork
		s.ActiveCaipNetwork = &network
	}
	s.RequestedCaipNetworks = slices.Clone(s.RequestedCaipNetworks)
	s.ApprovedCaipNetworkIDs = slices.Clone(s.ApprovedCaipNetworkIDs)
	if s.ApprovedCaipNetworkIDs == nil {
		s.ApprovedCaipNetworkIDs = []caip.NetworkID{}
	}
	s.SmartAccountEnabledNetworkIDs = slices.Clone(s.SmartAccountEnabledNetworkIDs)
	s.Account.TokenBalance = slices.Clone(s.Account.TokenBalance)
	s.Account.AllAccounts = slices.Clone(s.Account.AllAccounts)
	s.Account.AddressLabels = maps.Clone(s.Account.AddressLabels)
	if s.Account.User != nil {
		user := *s.Account.User
		s.Account.User = &user
	}
	if s.Account.ConnectedWalletInfo != nil {
		info := *s.Account.ConnectedWalletInfo
		s.Account.ConnectedWalletInfo = &info
	}
	return s
}

// ActiveNetworkID returns the CAIP id of the active network, or "" if none is
// active.
func (s *NamespaceState) ActiveNetworkID() caip.NetworkID {
	if s.ActiveCaipNetwork == nil {
		return ""
	}
	return s.ActiveCaipNetwork.CaipNetworkID()
}

// RequestedNetwork returns the requested network with [id], if any.
func (s *NamespaceState) RequestedNetwork(id caip.NetworkID) (caip.Network, bool) {
	for _, network := range s.RequestedCaipNetworks {
		if network.CaipNetworkID() == id {
			return network, true
		}
	}
	return caip.Network{}, false
}

// IsRequested reports whether [id] is one of the requested networks.
func (s *NamespaceState) IsRequested(id caip.NetworkID) bool {
	_, ok := s.RequestedNetwork(id)
	return ok
}

// SetStatus changes the account status. The machine follows the status unless
// a network switch is in flight or the namespace is errored.
func (s *NamespaceState) SetStatus(status Status) {
	s.Account.Status = status
	if s.Machine == SwitchingNetwork || s.Machine == Error {
		return
	}
	s.Machine = status.Machine()
}

// ClearError leaves the Error state and puts the machine back in step with the
// account status.
func (s *NamespaceState) ClearError() {
	s.Err = ""
	s.Machine = s.Account.Status.Machine()
}

// IsConnected reports whether the namespace holds a connected account.
func (s *NamespaceState) IsConnected() bool {
	return s.Account.Status == StatusConnected
}

// ResetAccount clears every account field and leaves the namespace
// disconnected.
func (s *NamespaceState) ResetAccount() {
	s.Account = AccountState{
		Status:       StatusDisconnected,
		BalanceRetry: backoff.Cooldown{Window: s.Account.BalanceRetry.Window},
	}
	s.Machine = Disconnected
	s.Err = ""
}
