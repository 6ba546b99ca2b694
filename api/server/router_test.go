// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct{ called bool }

func (t *testHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	t.called = true
	w.WriteHeader(http.StatusTeapot)
}

func TestAliasing(t *testing.T) {
	require := require.New(t)

	r := newRouter()

	require.NoError(r.AddAlias("/ext/walletkit", "/ext/appkit", "/ext/kit"))
	require.NoError(r.AddAlias("/ext/walletkit", "/ext/wallet"))
	require.NoError(r.AddAlias("/ext/v1", "/ext/walletkit"))
	require.NoError(r.AddAlias("/ext/kit", "/ext/k"))
	err := r.AddAlias("/ext/other", "/ext/wallet")
	require.ErrorIs(err, errAlreadyReserved)

	handler := &testHandler{}
	err = r.AddRouter("/ext/appkit", "", handler)
	require.ErrorIs(err, errAlreadyReserved)
	require.NoError(r.AddRouter("/ext/v1", "", handler))

	// Aliases of aliases are followed.
	for _, base := range []string{"/ext/v1", "/ext/walletkit", "/ext/appkit", "/ext/kit", "/ext/k", "/ext/wallet"} {
		got, err := r.GetHandler(base, "")
		require.NoError(err, base)
		require.Equal(handler, got, base)
	}

	require.NoError(r.AddAlias("/ext/v1", "/ext/other"))
	got, err := r.GetHandler("/ext/other", "")
	require.NoError(err)
	require.Equal(handler, got)
}

func TestBlock(t *testing.T) {
	require := require.New(t)
	r := newRouter()

	require.NoError(r.AddAlias("/ext/walletkit", "/ext/walletkit"))

	err := r.AddRouter("/ext/walletkit", "", &testHandler{})
	require.ErrorIs(err, errAlreadyReserved)
}

func TestDuplicateEndpoint(t *testing.T) {
	require := require.New(t)
	r := newRouter()

	require.NoError(r.AddRouter("/ext/walletkit", "/ws", &testHandler{}))
	err := r.AddRouter("/ext/walletkit", "/ws", &testHandler{})
	require.ErrorIs(err, errEndpointExists)

	_, err = r.GetHandler("/ext/walletkit", "/rpc")
	require.ErrorIs(err, errUnknownEndpoint)
	_, err = r.GetHandler("/ext/unknown", "")
	require.ErrorIs(err, errUnknownBaseURL)
}

func TestServeRoute(t *testing.T) {
	require := require.New(t)
	r := newRouter()

	handler := &testHandler{}
	require.NoError(r.AddRouter("/ext/walletkit", "", handler))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ext/walletkit", nil))
	require.True(handler.called)
	require.Equal(http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ext/unknown", nil))
	require.Equal(http.StatusNotFound, w.Code)
}
