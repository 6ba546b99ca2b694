// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
)

func TestGetApprovedCaipNetworksDataDefault(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	expected := ApprovedNetworks{
		SupportsAllNetworks:    true,
		ApprovedCaipNetworkIDs: []caip.NetworkID{},
	}
	// Before Initialize, for an unknown namespace.
	require.Equal(expected, o.GetApprovedCaipNetworksData(caip.EVM))

	require.NoError(o.Initialize(allNetworks))
	require.Equal(expected, o.GetApprovedCaipNetworksData(caip.Solana))
	require.Equal(expected, o.GetApprovedCaipNetworksData(caip.TON))
}

func TestSetApprovedCaipNetworksData(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize(allNetworks))

	approved := ApprovedNetworks{
		ApprovedCaipNetworkIDs: []caip.NetworkID{polygon.CaipNetworkID()},
	}
	require.NoError(o.SetApprovedCaipNetworksData(caip.EVM, approved))
	require.Equal(approved, o.GetApprovedCaipNetworksData(caip.EVM))

	// Solana is untouched.
	require.True(o.GetApprovedCaipNetworksData(caip.Solana).SupportsAllNetworks)

	err := o.SetApprovedCaipNetworksData(caip.EVM, ApprovedNetworks{
		ApprovedCaipNetworkIDs: []caip.NetworkID{solana.CaipNetworkID()},
	})
	require.ErrorIs(err, state.ErrNetworkWrongNamespace)

	err = o.SetApprovedCaipNetworksData(caip.TON, ApprovedNetworks{SupportsAllNetworks: true})
	require.ErrorIs(err, state.ErrUnknownNamespace)
}

func TestGetRequestedCaipNetworksApprovedFirst(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize([]caip.Network{ethereum, polygon, base, solana}))
	require.NoError(o.SetApprovedCaipNetworksData(caip.EVM, ApprovedNetworks{
		ApprovedCaipNetworkIDs: []caip.NetworkID{base.CaipNetworkID(), polygon.CaipNetworkID()},
	}))

	require.Equal([]caip.Network{base, polygon, ethereum}, o.GetRequestedCaipNetworks(caip.EVM))
	// The stored order is unchanged.
	require.Equal([]caip.Network{ethereum, polygon, base}, o.get(t, caip.EVM).RequestedCaipNetworks)
	require.Equal([]caip.Network{base, polygon, ethereum, solana}, o.GetAllRequestedCaipNetworks())
	require.Equal(
		[]caip.NetworkID{base.CaipNetworkID(), polygon.CaipNetworkID()},
		o.GetAllApprovedCaipNetworkIDs(),
	)
	require.Nil(o.GetRequestedCaipNetworks(caip.TON))
}

func TestCheckIfSupportedNetwork(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	// Nothing requested.
	require.True(o.CheckIfSupportedNetwork(caip.EVM, polygon.CaipNetworkID()))

	require.NoError(o.Initialize([]caip.Network{ethereum, solana}))
	require.True(o.CheckIfSupportedNetwork(caip.EVM, ""))
	require.True(o.CheckIfSupportedNetwork(caip.EVM, ethereum.CaipNetworkID()))
	require.False(o.CheckIfSupportedNetwork(caip.EVM, polygon.CaipNetworkID()))
	require.False(o.CheckIfSupportedNetwork(caip.EVM, solana.CaipNetworkID()))

	require.NoError(o.ResetNetwork(caip.EVM))
	require.False(o.CheckIfSupportedNetwork(caip.EVM, ""))
}

func TestCheckIfSmartAccountEnabled(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.False(o.CheckIfSmartAccountEnabled())

	require.NoError(o.Initialize(allNetworks))
	require.False(o.CheckIfSmartAccountEnabled())

	require.NoError(o.SetSmartAccountEnabledNetworks([]caip.NetworkID{ethereum.CaipNetworkID()}, caip.EVM))
	require.True(o.CheckIfSmartAccountEnabled())

	require.NoError(o.SetActiveNamespace(caip.Solana))
	require.False(o.CheckIfSmartAccountEnabled())
}

func TestResetNetworkIsolation(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize(allNetworks))
	for _, namespace := range []caip.Namespace{caip.EVM, caip.Solana} {
		require.NoError(o.SetApprovedCaipNetworksData(namespace, ApprovedNetworks{
			ApprovedCaipNetworkIDs: []caip.NetworkID{o.get(t, namespace).ActiveNetworkID()},
		}))
	}
	solanaBefore := o.get(t, caip.Solana)

	require.NoError(o.ResetNetwork(caip.EVM))

	evm := o.get(t, caip.EVM)
	require.Nil(evm.ActiveCaipNetwork)
	require.Equal([]caip.NetworkID{}, evm.ApprovedCaipNetworkIDs)
	require.True(evm.SupportsAllNetworks)
	require.Equal(solanaBefore, o.get(t, caip.Solana))
}

func TestAddRemoveNetwork(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize(allNetworks))

	require.NoError(o.AddNetwork(base))
	require.NoError(o.AddNetwork(base))
	require.Equal([]caip.Network{ethereum, polygon, base}, o.get(t, caip.EVM).RequestedCaipNetworks)
	require.ErrorIs(o.AddNetwork(caip.Network{ID: "mainnet", Namespace: caip.TON}), state.ErrUnknownNamespace)

	require.NoError(o.RemoveNetwork(caip.EVM, polygon.ID))
	require.Equal([]caip.Network{ethereum, base}, o.get(t, caip.EVM).RequestedCaipNetworks)

	// Removing the active network falls back to the first remaining one.
	require.NoError(o.RemoveNetwork(caip.EVM, ethereum.ID))
	require.Equal(base.CaipNetworkID(), o.get(t, caip.EVM).ActiveNetworkID())
	id, err := o.storage.ActiveCaipNetworkID()
	require.NoError(err)
	require.Equal(base.CaipNetworkID(), id)

	require.NoError(o.RemoveNetwork(caip.EVM, base.ID))
	require.Nil(o.get(t, caip.EVM).ActiveCaipNetwork)
}

func TestGetCaipNetwork(t *testing.T) {
	require := require.New(t)

	o := newTestOrchestrator(t, nil)
	require.NoError(o.Initialize(allNetworks))

	network, ok := o.GetCaipNetworkByID("137", "")
	require.True(ok)
	require.Equal(polygon, network)

	_, ok = o.GetCaipNetworkByID("137", caip.Solana)
	require.False(ok)

	network, ok = o.GetCaipNetworkByNamespace(caip.Solana, devnet.ID)
	require.True(ok)
	require.Equal(devnet, network)

	// Unknown chain: the active network of the namespace.
	network, ok = o.GetCaipNetworkByNamespace(caip.EVM, "10")
	require.True(ok)
	require.Equal(ethereum, network)

	require.NoError(o.ResetNetwork(caip.EVM))
	network, ok = o.GetCaipNetworkByNamespace(caip.EVM, "")
	require.True(ok)
	require.Equal(ethereum, network)

	_, ok = o.GetCaipNetworkByNamespace(caip.TON, "")
	require.False(ok)

	active, ok := o.ActiveCaipNetwork()
	require.False(ok)
	require.Zero(active)
}
