// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendGetRequestOptions(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = io.WriteString(w, r.URL.RawQuery+" "+r.Header.Get("X-Test"))
	}))
	defer server.Close()

	uri, err := url.Parse(server.URL + "/ext/metrics?namespace=eip155")
	require.NoError(err)

	var body string
	err = SendGetRequest(context.Background(), uri, func(r io.Reader) error {
		b, err := io.ReadAll(r)
		body = string(b)
		return err
	}, WithQueryParam("kind", "health"), WithHeader("X-Test", "value"))
	require.NoError(err)
	require.Equal("kind=health&namespace=eip155 value", body)

	// The caller's URI is left untouched.
	require.Equal("namespace=eip155", uri.RawQuery)
}

func TestSendRequestStatusCode(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	uri, err := url.Parse(server.URL)
	require.NoError(err)

	err = SendGetRequest(context.Background(), uri, func(io.Reader) error {
		return nil
	})
	require.ErrorIs(err, ErrStatusCode)

	var reply struct{}
	err = NewEndpointRequester(server.URL, "walletkit").SendRequest(context.Background(), "getAccount", struct{}{}, &reply)
	require.ErrorIs(err, ErrStatusCode)
}
