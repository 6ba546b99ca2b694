// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package static

import (
	"context"
	"fmt"
	"slices"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

// SetBalances sets the balances reported for [address] on every network.
func (a *Adapter) SetBalances(address string, balances ...state.Balance) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.balances[address] = balances
}

// FailBalances makes every following GetBalances call return [err]. A nil
// [err] restores normal operation.
func (a *Adapter) FailBalances(err error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.balanceErr = err
}

// BalanceCalls returns the number of GetBalances calls received.
func (a *Adapter) BalanceCalls() int {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.balanceHits
}

// GetBalances returns the configured balances of [address], stamped with the
// network the address is on.
func (a *Adapter) GetBalances(ctx context.Context, address caip.Address) ([]state.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	a.balanceHits++
	if a.balanceErr != nil {
		return nil, a.balanceErr
	}
	balances, ok := a.balances[address.PlainAddress()]
	if !ok {
		if !slices.ContainsFunc(a.accounts, func(account state.Account) bool {
			return account.Address == address.PlainAddress()
		}) {
			return nil, fmt.Errorf("%w: %s", errUnknownAddress, address)
		}
		return []state.Balance{}, nil
	}

	balances = slices.Clone(balances)
	for i := range balances {
		balances[i].ChainID = address.NetworkID()
	}
	return balances, nil
}
