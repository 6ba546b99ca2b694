// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package static

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

var mainnet = caip.Network{ID: "1", Namespace: caip.EVM, Name: "Ethereum"}

func TestConnectDisconnect(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	a := New(caip.EVM, "0xABC", "0xDEF")
	result, err := a.Connect(ctx, adapter.ConnectParams{
		ID:      "injected",
		Type:    "INJECTED",
		ChainID: "1",
	})
	require.NoError(err)
	require.Equal("0xABC", result.Address)
	require.Equal("1", result.ChainID)
	require.Equal(adapter.Provider(a), result.Provider)

	accounts, err := a.GetAccounts(ctx)
	require.NoError(err)
	require.Len(accounts, 2)
	require.Equal(state.AccountTypeEOA, accounts[0].Type)

	require.NoError(a.Disconnect(ctx, adapter.DisconnectParams{Provider: result.Provider}))
	accounts, err = a.GetAccounts(ctx)
	require.NoError(err)
	require.Empty(accounts)
}

func TestConnectWithoutAccounts(t *testing.T) {
	_, err := New(caip.Solana).Connect(context.Background(), adapter.ConnectParams{})
	require.ErrorIs(t, err, ErrNoAccounts)
}

func TestSwitchNetwork(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	a := New(caip.EVM, "0xABC")
	require.NoError(a.SwitchNetwork(ctx, mainnet))
	require.Equal("1", a.ChainID())

	a.RejectSwitch(true)
	err := a.SwitchNetwork(ctx, caip.Network{ID: "137", Namespace: caip.EVM})
	require.ErrorIs(err, adapter.ErrRejected)
	require.Equal("1", a.ChainID())

	err = a.SwitchNetwork(ctx, caip.Network{ID: "mainnet", Namespace: caip.Solana})
	require.ErrorIs(err, errWrongNamespace)
	require.Equal(2, a.Switches())
}

func TestGetBalances(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	a := New(caip.EVM, "0xABC")
	address := caip.NewAddress(mainnet.CaipNetworkID(), "0xABC")

	balances, err := a.GetBalances(ctx, address)
	require.NoError(err)
	require.Empty(balances)

	a.SetBalances("0xABC", state.Balance{Symbol: "ETH"})
	balances, err = a.GetBalances(ctx, address)
	require.NoError(err)
	require.Equal([]state.Balance{{Symbol: "ETH", ChainID: "eip155:1"}}, balances)

	_, err = a.GetBalances(ctx, caip.NewAddress(mainnet.CaipNetworkID(), "0x123"))
	require.ErrorIs(err, errUnknownAddress)

	errUnavailable := errors.New("unavailable")
	a.FailBalances(errUnavailable)
	_, err = a.GetBalances(ctx, address)
	require.ErrorIs(err, errUnavailable)
	require.Equal(4, a.BalanceCalls())
}
