// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package adapter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/adapter/adaptermock"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/trace"
)

func TestTableGet(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	a := adaptermock.NewAdapter(ctrl)
	table := adapter.Table{caip.EVM: a}

	got, err := table.Get(caip.EVM)
	require.NoError(err)
	require.Equal(a, got)

	_, err = table.Get(caip.Solana)
	require.ErrorIs(err, adapter.ErrNoAdapter)
}

func TestTracedAdapterForwards(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	network := caip.Network{ID: "1", Namespace: caip.EVM}
	accounts := []state.Account{{Namespace: caip.EVM, Address: "0xABC"}}
	errDeclined := errors.New("declined")

	inner := adaptermock.NewAdapter(ctrl)
	inner.EXPECT().Connect(gomock.Any(), adapter.ConnectParams{ID: "injected"}).
		Return(adapter.ConnectResult{Address: "0xABC"}, nil)
	inner.EXPECT().SwitchNetwork(gomock.Any(), network).Return(errDeclined)
	inner.EXPECT().GetAccounts(gomock.Any()).Return(accounts, nil)
	inner.EXPECT().Disconnect(gomock.Any(), adapter.DisconnectParams{ProviderType: "INJECTED"}).Return(nil)

	traced := adapter.TraceTable(adapter.Table{caip.EVM: inner}, trace.Noop)
	a, err := traced.Get(caip.EVM)
	require.NoError(err)

	result, err := a.Connect(ctx, adapter.ConnectParams{ID: "injected"})
	require.NoError(err)
	require.Equal("0xABC", result.Address)

	require.ErrorIs(a.SwitchNetwork(ctx, network), errDeclined)

	got, err := a.GetAccounts(ctx)
	require.NoError(err)
	require.Equal(accounts, got)

	require.NoError(a.Disconnect(ctx, adapter.DisconnectParams{ProviderType: "INJECTED"}))
}
