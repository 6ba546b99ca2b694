// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package disconnect

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/walletkit/account"
	"github.com/ava-labs/walletkit/adapter"
	"github.com/ava-labs/walletkit/adapter/adaptermock"
	"github.com/ava-labs/walletkit/adapter/static"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/connectors"
	"github.com/ava-labs/walletkit/database/memdb"
	"github.com/ava-labs/walletkit/notify"
	"github.com/ava-labs/walletkit/orchestrator"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/utils/logging"
)

var (
	ethereum = caip.Network{ID: "1", Namespace: caip.EVM, Name: "Ethereum"}
	solana   = caip.Network{ID: "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp", Namespace: caip.Solana, Name: "Solana"}

	errTest = errors.New("non-nil error")
)

// steps records the order of the teardown as seen from the outside.
type steps struct {
	lock  sync.Mutex
	steps []string
	prev  state.NamespaceState
}

func (s *steps) add(step string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.steps = append(s.steps, step)
}

func (s *steps) get() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]string(nil), s.steps...)
}

func (s *steps) listen(ns state.NamespaceState, _ state.MachineState) {
	prev := s.prev
	s.prev = ns
	switch {
	case ns.Loading && !prev.Loading:
		s.add("loading")
	case !ns.Loading && prev.Loading:
		s.add("loaded")
	case ns.ActiveCaipNetwork == nil && prev.ActiveCaipNetwork != nil:
		s.add("reset network")
	case !ns.IsConnected() && prev.IsConnected():
		s.add("disconnected")
	default:
		s.add("other")
	}
}

type authCleaner struct {
	steps *steps
	err   error
}

func (a *authCleaner) ClearSessions(context.Context) error {
	a.steps.add("auth")
	return a.err
}

type testCoordinator struct {
	*Coordinator
	store      state.Store
	storage    *storage.Storage
	connectors *connectors.Registry
	notifier   *notify.Recorder
}

func newTestCoordinator(t *testing.T, adapters adapter.Table, auth AuthCleaner) *testCoordinator {
	t.Helper()
	require := require.New(t)

	var (
		log      = logging.NoLog{}
		store    = state.NewStore(log)
		s        = storage.New(log, memdb.New(), "")
		registry = connectors.New(log, s)
		recorder = notify.NewRecorder(nil)
	)
	o, err := orchestrator.New(orchestrator.Config{
		Log:        log,
		Store:      store,
		Adapters:   adapters,
		Storage:    s,
		Connectors: registry,
	})
	require.NoError(err)
	require.NoError(o.Initialize([]caip.Network{ethereum, solana}))

	accounts, err := account.New(account.Config{
		Log:     log,
		Store:   store,
		Storage: s,
		Source:  static.New(caip.EVM),
	})
	require.NoError(err)

	c, err := New(Config{
		Log:          log,
		Store:        store,
		Adapters:     adapters,
		Orchestrator: o,
		Accounts:     accounts,
		Connectors:   registry,
		Storage:      s,
		Notifier:     recorder,
		AuthCleaner:  auth,
	})
	require.NoError(err)
	return &testCoordinator{
		Coordinator: c,
		store:       store,
		storage:     s,
		connectors:  registry,
		notifier:    recorder,
	}
}

// connect puts [namespace] in the state a completed connection leaves it in.
func (c *testCoordinator) connect(t *testing.T, namespace caip.Namespace, address string, provider adapter.Provider) {
	t.Helper()
	require := require.New(t)

	require.NoError(c.store.Commit(namespace, func(ns *state.NamespaceState) {
		ns.Account.Address = address
		ns.Account.CaipAddress = caip.NewAddress(ns.ActiveNetworkID(), address)
		ns.Account.User = &state.User{Email: "user@example.com"}
		ns.Account.ConnectedWalletInfo = &state.WalletInfo{Name: "Wallet"}
		ns.SetStatus(state.StatusConnected)
	}))
	c.connectors.SetProvider(namespace, provider, connectors.Injected)
	require.NoError(c.connectors.SetConnectorID(namespace, "injected"))
	require.NoError(c.storage.AddConnectedNamespace(namespace))
	require.NoError(c.storage.SetConnectionStatus(state.StatusConnected))
}

func (c *testCoordinator) get(t *testing.T, namespace caip.Namespace) *state.NamespaceState {
	t.Helper()

	ns, ok := c.store.Get(namespace)
	require.True(t, ok)
	return &ns
}

func TestDisconnectOrdering(t *testing.T) {
	tests := []struct {
		namespace caip.Namespace
		address   string
	}{
		{
			namespace: caip.EVM,
			address:   "0xABC",
		},
		{
			namespace: caip.Solana,
			address:   "So1",
		},
	}
	for _, test := range tests {
		t.Run(test.namespace.String(), func(t *testing.T) {
			require := require.New(t)

			var (
				ctrl     = gomock.NewController(t)
				wallet   = adaptermock.NewAdapter(ctrl)
				recorded = &steps{}
				provider = &struct{ id int }{id: 1}
			)
			c := newTestCoordinator(t, adapter.Table{test.namespace: wallet}, &authCleaner{steps: recorded})
			c.connect(t, test.namespace, test.address, provider)
			c.connectors.SetFilterByNamespace(test.namespace)

			wallet.EXPECT().Disconnect(gomock.Any(), adapter.DisconnectParams{
				Provider:     provider,
				ProviderType: string(connectors.Injected),
			}).DoAndReturn(func(context.Context, adapter.DisconnectParams) error {
				require.Empty(c.connectors.FilterByNamespace())
				recorded.add("wallet")
				return nil
			})

			recorded.prev = *c.get(t, test.namespace)
			c.store.Subscribe(test.namespace, recorded.listen)

			require.NoError(c.Disconnect(context.Background(), test.namespace))
			require.Equal([]string{
				"loading",
				"auth",
				"reset network",
				"loaded",
				"wallet",
				"disconnected",
			}, recorded.get())

			ns := c.get(t, test.namespace)
			require.False(ns.Loading)
			require.Nil(ns.ActiveCaipNetwork)
			require.Equal(state.StatusDisconnected, ns.Account.Status)
			require.Equal(state.Disconnected, ns.Machine)
			require.Empty(ns.Account.Address)
			require.Nil(ns.Account.User)
			require.Nil(ns.Account.ConnectedWalletInfo)

			_, ok := c.connectors.Provider(test.namespace)
			require.False(ok)
			require.Empty(c.connectors.ConnectorID(test.namespace))

			connected, err := c.storage.ConnectedNamespaces()
			require.NoError(err)
			require.Empty(connected)
			status, err := c.storage.ConnectionStatus()
			require.NoError(err)
			require.Equal(state.StatusDisconnected, status)

			require.Equal(1.0, testutil.ToFloat64(c.metrics.disconnects))
			require.Empty(c.notifier.Notifications())
		})
	}
}

func TestDisconnectActiveNamespace(t *testing.T) {
	require := require.New(t)

	wallet := static.New(caip.EVM, "0xABC")
	c := newTestCoordinator(t, adapter.Table{caip.EVM: wallet}, nil)
	c.connect(t, caip.EVM, "0xABC", wallet)
	c.connect(t, caip.Solana, "So1", nil)

	require.NoError(c.Disconnect(context.Background(), ""))
	require.False(c.get(t, caip.EVM).IsConnected())

	accounts, err := wallet.GetAccounts(context.Background())
	require.NoError(err)
	require.Empty(accounts)

	// Solana is untouched and still connected.
	require.True(c.get(t, caip.Solana).IsConnected())
	connected, err := c.storage.ConnectedNamespaces()
	require.NoError(err)
	require.Equal([]caip.Namespace{caip.Solana}, connected)
	status, err := c.storage.ConnectionStatus()
	require.NoError(err)
	require.Equal(state.StatusConnected, status)
}

func TestDisconnectAuthFailureAborts(t *testing.T) {
	require := require.New(t)

	// No wallet call is expected.
	ctrl := gomock.NewController(t)
	wallet := adaptermock.NewAdapter(ctrl)

	recorded := &steps{}
	c := newTestCoordinator(t, adapter.Table{caip.EVM: wallet}, &authCleaner{
		steps: recorded,
		err:   errTest,
	})
	c.connect(t, caip.EVM, "0xABC", nil)

	err := c.Disconnect(context.Background(), caip.EVM)
	require.ErrorIs(err, errTest)

	evm := c.get(t, caip.EVM)
	require.True(evm.Loading)
	require.True(evm.IsConnected())
	require.Equal(ethereum.CaipNetworkID(), evm.ActiveNetworkID())
	require.Equal([]string{"auth"}, recorded.get())
}

func TestDisconnectRetryAnnouncesLoading(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	wallet := adaptermock.NewAdapter(ctrl)
	wallet.EXPECT().Disconnect(gomock.Any(), gomock.Any()).Return(nil)

	recorded := &steps{}
	cleaner := &authCleaner{
		steps: recorded,
		err:   errTest,
	}
	c := newTestCoordinator(t, adapter.Table{caip.EVM: wallet}, cleaner)
	c.connect(t, caip.EVM, "0xABC", nil)

	err := c.Disconnect(context.Background(), caip.EVM)
	require.ErrorIs(err, errTest)
	require.True(c.get(t, caip.EVM).Loading)

	c.store.Subscribe(caip.EVM, func(ns state.NamespaceState, _ state.MachineState) {
		if ns.Loading {
			recorded.add("loading")
		}
	})
	cleaner.err = nil
	require.NoError(c.Disconnect(context.Background(), caip.EVM))

	require.Equal([]string{"auth", "loading", "auth"}, recorded.get()[:3])
	require.False(c.get(t, caip.EVM).Loading)
	require.False(c.get(t, caip.EVM).IsConnected())
}

func TestDisconnectWalletFailureContinues(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	wallet := adaptermock.NewAdapter(ctrl)
	wallet.EXPECT().Disconnect(gomock.Any(), gomock.Any()).Return(errTest)

	c := newTestCoordinator(t, adapter.Table{caip.EVM: wallet}, nil)
	c.connect(t, caip.EVM, "0xABC", nil)

	err := c.Disconnect(context.Background(), caip.EVM)
	require.ErrorIs(err, errTest)

	evm := c.get(t, caip.EVM)
	require.False(evm.Loading)
	require.False(evm.IsConnected())
	require.Empty(c.connectors.ConnectorID(caip.EVM))

	connected, err := c.storage.ConnectedNamespaces()
	require.NoError(err)
	require.Empty(connected)

	notifications := c.notifier.Notifications()
	require.Len(notifications, 1)
	require.Equal(notify.KindError, notifications[0].Kind)
	require.Equal(FailedTitle, notifications[0].Title)
	require.Equal(1.0, testutil.ToFloat64(c.metrics.disconnectFailures.WithLabelValues("wallet")))
}

func TestDisconnectWithoutAdapter(t *testing.T) {
	require := require.New(t)

	c := newTestCoordinator(t, nil, nil)
	c.connect(t, caip.Solana, "So1", nil)

	require.NoError(c.Disconnect(context.Background(), caip.Solana))
	require.False(c.get(t, caip.Solana).IsConnected())
}

func TestDisconnectUnknownNamespace(t *testing.T) {
	c := newTestCoordinator(t, nil, nil)
	err := c.Disconnect(context.Background(), caip.TON)
	require.ErrorIs(t, err, state.ErrUnknownNamespace)
}

func TestDisconnectAll(t *testing.T) {
	require := require.New(t)

	var (
		evmWallet    = static.New(caip.EVM, "0xABC")
		solanaWallet = static.New(caip.Solana, "So1")
	)
	c := newTestCoordinator(t, adapter.Table{
		caip.EVM:    evmWallet,
		caip.Solana: solanaWallet,
	}, nil)
	c.connect(t, caip.EVM, "0xABC", evmWallet)
	c.connect(t, caip.Solana, "So1", solanaWallet)

	require.NoError(c.DisconnectAll(context.Background()))
	for _, namespace := range []caip.Namespace{caip.EVM, caip.Solana} {
		ns := c.get(t, namespace)
		require.False(ns.IsConnected())
		require.False(ns.Loading)
	}
	require.Equal(2.0, testutil.ToFloat64(c.metrics.disconnects))

	// Nothing left to tear down.
	require.NoError(c.DisconnectAll(context.Background()))
	require.Equal(2.0, testutil.ToFloat64(c.metrics.disconnects))
}
