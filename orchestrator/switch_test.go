// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/adapter/adaptermock"
	"github.com/ava-labs/walletkit/adapter/static"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

func connect(t *testing.T, o *testOrchestrator, namespace caip.Namespace, address string) {
	t.Helper()

	require.NoError(t, o.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.Account.Address = address
		ns.Account.CaipAddress = caip.NewAddress(ns.ActiveNetworkID(), address)
		ns.SetStatus(state.StatusConnected)
	}))
}

type transitions struct {
	machines []state.MachineState
}

func (tr *transitions) record(_ state.NamespaceState, machine state.MachineState) {
	tr.machines = append(tr.machines, machine)
}

func TestSwitchActiveNetworkIsIdempotent(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize(allNetworks))

	tr := &transitions{}
	o.store.Subscribe(caip.EVM, tr.record)

	ctx := context.Background()
	require.NoError(o.SwitchActiveNetwork(ctx, polygon))
	notified := len(tr.machines)
	require.Positive(notified)

	require.NoError(o.SwitchActiveNetwork(ctx, polygon))
	require.Len(tr.machines, notified)
	require.Equal(1.0, testutil.ToFloat64(o.metrics.switches))
}

func TestSwitchActiveNetworkDisconnectedIsLocal(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	// No wallet call is expected.
	wallet := adaptermock.NewAdapter(ctrl)

	o := newTestOrchestrator(t, adapter.Table{caip.EVM: wallet})
	require.NoError(o.Initialize(allNetworks))

	tr := &transitions{}
	o.store.Subscribe(caip.EVM, tr.record)

	require.NoError(o.SwitchActiveNetwork(context.Background(), polygon))
	require.Equal([]state.MachineState{state.SwitchingNetwork, state.Disconnected}, tr.machines)
	require.Equal(polygon.CaipNetworkID(), o.get(t, caip.EVM).ActiveNetworkID())

	id, err := o.storage.ActiveCaipNetworkID()
	require.NoError(err)
	require.Equal(polygon.CaipNetworkID(), id)
}

func TestSwitchActiveNetworkConnected(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	wallet := adaptermock.NewAdapter(ctrl)
	wallet.EXPECT().SwitchNetwork(gomock.Any(), polygon).Return(nil)

	o := newTestOrchestrator(t, adapter.Table{caip.EVM: wallet})
	require.NoError(o.Initialize(allNetworks))
	connect(t, o, caip.EVM, "0xABC")

	tr := &transitions{}
	o.store.Subscribe(caip.EVM, tr.record)

	require.NoError(o.SwitchActiveNetwork(context.Background(), polygon))
	require.Equal([]state.MachineState{state.SwitchingNetwork, state.Connected}, tr.machines)

	evm := o.get(t, caip.EVM)
	require.Equal(polygon.CaipNetworkID(), evm.ActiveNetworkID())
	require.Equal(caip.Address("eip155:137:0xABC"), evm.Account.CaipAddress)
	require.Equal(caip.Address("eip155:137:0xABC"), o.ActiveCaipAddress())
}

func TestSwitchActiveNetworkRejected(t *testing.T) {
	require := require.New(t)

	wallet := static.New(caip.EVM, "0xABC")
	wallet.RejectSwitch(true)

	o := newTestOrchestrator(t, adapter.Table{caip.EVM: wallet})
	require.NoError(o.Initialize(allNetworks))
	connect(t, o, caip.EVM, "0xABC")

	ctx := context.Background()
	require.NoError(o.SwitchActiveNetwork(ctx, polygon))

	evm := o.get(t, caip.EVM)
	require.Equal(state.Error, evm.Machine)
	require.Contains(evm.Err, adapter.ErrRejected.Error())
	require.Equal(ethereum.CaipNetworkID(), evm.ActiveNetworkID())
	require.Equal(1.0, testutil.ToFloat64(o.metrics.switchFailures))

	// Account updates don't leave the Error state.
	require.NoError(o.store.Commit(caip.EVM, func(ns *state.NamespaceState) {
		ns.SetStatus(state.StatusConnected)
	}))
	require.Equal(state.Error, o.get(t, caip.EVM).Machine)

	err := o.SwitchActiveNetwork(ctx, polygon, WithThrowOnFailure())
	require.ErrorIs(err, ErrSwitchFailed)
	require.ErrorIs(err, adapter.ErrRejected)
	require.Equal(2, wallet.Switches())

	// No implicit retry: the next attempt is the caller's.
	wallet.RejectSwitch(false)
	require.NoError(o.SwitchActiveNetwork(ctx, polygon, WithThrowOnFailure()))

	evm = o.get(t, caip.EVM)
	require.Equal(state.Connected, evm.Machine)
	require.Empty(evm.Err)
	require.Equal(polygon.CaipNetworkID(), evm.ActiveNetworkID())
	require.Equal("137", wallet.ChainID())
}

func TestSwitchActiveNetworkRetriesFromError(t *testing.T) {
	require := require.New(t)

	wallet := static.New(caip.EVM, "0xABC")
	o := newTestOrchestrator(t, adapter.Table{caip.EVM: wallet})
	require.NoError(o.Initialize(allNetworks))
	connect(t, o, caip.EVM, "0xABC")

	ctx := context.Background()
	require.NoError(o.SwitchActiveNetwork(ctx, polygon))
	wallet.RejectSwitch(true)
	require.NoError(o.SwitchActiveNetwork(ctx, ethereum))
	require.Equal(state.Error, o.get(t, caip.EVM).Machine)

	// Already on polygon, but errored: the wallet is asked again.
	wallet.RejectSwitch(false)
	require.NoError(o.SwitchActiveNetwork(ctx, polygon))
	require.Equal(state.Connected, o.get(t, caip.EVM).Machine)
	require.Equal(3, wallet.Switches())
}

func TestSwitchActiveNetworkTimeout(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	wallet := adaptermock.NewAdapter(ctrl)
	wallet.EXPECT().SwitchNetwork(gomock.Any(), polygon).DoAndReturn(
		func(ctx context.Context, _ caip.Network) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)

	o := newTestOrchestrator(t, adapter.Table{caip.EVM: wallet})
	o.switchTimeout = 10 * time.Millisecond
	require.NoError(o.Initialize(allNetworks))
	connect(t, o, caip.EVM, "0xABC")

	err := o.SwitchActiveNetwork(context.Background(), polygon, WithThrowOnFailure())
	require.ErrorIs(err, context.DeadlineExceeded)

	evm := o.get(t, caip.EVM)
	require.Equal(state.Error, evm.Machine)
	require.Equal(ethereum.CaipNetworkID(), evm.ActiveNetworkID())
}

func TestSwitchActiveNetworkMissingAdapter(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, adapter.Table{})
	require.NoError(o.Initialize(allNetworks))
	connect(t, o, caip.EVM, "0xABC")

	err := o.SwitchActiveNetwork(context.Background(), polygon, WithThrowOnFailure())
	require.ErrorIs(err, adapter.ErrNoAdapter)
	require.Equal(state.Error, o.get(t, caip.EVM).Machine)
}

func TestSwitchActiveNetworkAcrossNamespaces(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)

	ctrl := gomock.NewController(t)
	wallet := adaptermock.NewAdapter(ctrl)
	wallet.EXPECT().SwitchNetwork(gomock.Any(), devnet).DoAndReturn(
		func(context.Context, caip.Network) error {
			require.True(o.store.SwitchingNamespace())
			return nil
		},
	)
	o.adapters = adapter.Table{caip.Solana: wallet}

	require.NoError(o.Initialize(allNetworks))
	connect(t, o, caip.Solana, "So1")
	require.Equal(caip.EVM, o.store.ActiveNamespace())

	require.NoError(o.SwitchActiveNetwork(context.Background(), devnet))
	require.False(o.store.SwitchingNamespace())
	require.Equal(caip.Solana, o.store.ActiveNamespace())
	require.Equal(1.0, testutil.ToFloat64(o.metrics.namespaceSwitches))

	namespace, err := o.storage.ActiveNamespace()
	require.NoError(err)
	require.Equal(caip.Solana, namespace)

	// The EVM namespace is untouched.
	evm := o.get(t, caip.EVM)
	require.Equal(ethereum.CaipNetworkID(), evm.ActiveNetworkID())
	require.Equal(state.Disconnected, evm.Machine)
}

func TestSwitchActiveNetworkFallsBack(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize(allNetworks))
	require.NoError(o.SwitchActiveNetwork(context.Background(), polygon))

	unknown := caip.Network{ID: "10", Namespace: caip.EVM, Name: "Optimism"}
	require.NoError(o.SwitchActiveNetwork(context.Background(), unknown))
	require.Equal(polygon.CaipNetworkID(), o.get(t, caip.EVM).ActiveNetworkID())
	require.Equal(1.0, testutil.ToFloat64(o.metrics.validationFallbacks))

	// Unknown namespace and no active network: the first configured network.
	require.NoError(o.ResetNetwork(caip.EVM))
	require.NoError(o.SwitchActiveNetwork(context.Background(), caip.Network{ID: "mainnet", Namespace: caip.TON}))
	require.Equal(ethereum.CaipNetworkID(), o.get(t, caip.EVM).ActiveNetworkID())
	require.Equal(2.0, testutil.ToFloat64(o.metrics.validationFallbacks))
}

func TestSwitchActiveNamespace(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize(allNetworks))

	require.NoError(o.SwitchActiveNamespace(context.Background(), caip.Solana))
	require.Equal(caip.Solana, o.store.ActiveNamespace())
	require.Equal(solana.CaipNetworkID(), o.get(t, caip.Solana).ActiveNetworkID())

	require.NoError(o.SwitchActiveNamespace(context.Background(), caip.TON))
	require.Equal(caip.Solana, o.store.ActiveNamespace())
}
