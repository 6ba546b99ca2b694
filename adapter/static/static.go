// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package static implements an in-process wallet with a fixed set of
// accounts. It is used to run the wallet kit without a real wallet.
package static

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

var (
	_ adapter.Adapter = (*Adapter)(nil)

	ErrNoAccounts       = errors.New("wallet has no accounts")
	errWrongNamespace   = errors.New("network belongs to another namespace")
	errUnknownAddress   = errors.New("unknown address")
	errNotConnectedHere = errors.New("provider is not held by this wallet")
)

// Adapter is a wallet that approves every request unless told otherwise.
type Adapter struct {
	namespace caip.Namespace

	lock         sync.Mutex
	accounts     []state.Account
	revoked      bool
	chainID      string
	rejectSwitch bool
	switches     int

	balances    map[string][]state.Balance
	balanceErr  error
	balanceHits int
}

// New returns a wallet exposing [addresses] in [namespace]. Bitcoin addresses
// are payment accounts, every other address is an EOA.
func New(namespace caip.Namespace, addresses ...string) *Adapter {
	accountType := state.AccountTypeEOA
	if namespace == caip.Bitcoin {
		accountType = state.AccountTypePayment
	}
	accounts := make([]state.Account, len(addresses))
	for i, address := range addresses {
		accounts[i] = state.Account{
			Namespace: namespace,
			Address:   address,
			Type:      accountType,
		}
	}
	return &Adapter{
		namespace: namespace,
		accounts:  accounts,
		balances:  make(map[string][]state.Balance),
	}
}

func (a *Adapter) Namespace() caip.Namespace {
	return a.namespace
}

// ChainID returns the chain reference the wallet is currently on.
func (a *Adapter) ChainID() string {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.chainID
}

// RejectSwitch makes every following SwitchNetwork call fail as if the user
// declined it.
func (a *Adapter) RejectSwitch(reject bool) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.rejectSwitch = reject
}

// Switches returns the number of SwitchNetwork requests the wallet received.
func (a *Adapter) Switches() int {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.switches
}

func (a *Adapter) Connect(ctx context.Context, params adapter.ConnectParams) (adapter.ConnectResult, error) {
	if err := ctx.Err(); err != nil {
		return adapter.ConnectResult{}, err
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if len(a.accounts) == 0 {
		return adapter.ConnectResult{}, ErrNoAccounts
	}
	a.revoked = false
	a.chainID = params.ChainID
	return adapter.ConnectResult{
		ID:       params.ID,
		Type:     params.Type,
		Provider: a,
		Address:  a.accounts[0].Address,
		ChainID:  a.chainID,
	}, nil
}

func (a *Adapter) Disconnect(ctx context.Context, params adapter.DisconnectParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if params.Provider != nil && params.Provider != adapter.Provider(a) {
		return errNotConnectedHere
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	a.revoked = true
	return nil
}

func (a *Adapter) SwitchNetwork(ctx context.Context, network caip.Network) error {
	if network.Namespace != a.namespace {
		return fmt.Errorf("%w: %s", errWrongNamespace, network.CaipNetworkID())
	}

	a.lock.Lock()
	a.switches++
	reject := a.rejectSwitch
	a.lock.Unlock()

	if reject {
		return fmt.Errorf("switch to %s: %w", network.CaipNetworkID(), adapter.ErrRejected)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	a.chainID = network.ID
	return nil
}

// GetAccounts returns nothing once the wallet was disconnected, until the next
// Connect.
func (a *Adapter) GetAccounts(ctx context.Context) ([]state.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if a.revoked {
		return nil, nil
	}
	return slices.Clone(a.accounts), nil
}
