// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/utils/logging"
)

func newTestServer(t *testing.T, httpLog io.Writer) *Server {
	t.Helper()

	return New(logging.NoLog{}, httpLog, Config{
		ListenAddress:  "127.0.0.1:0",
		AllowedOrigins: []string{"https://dapp.example"},
	})
}

var body = strings.Repeat("walletkit", 256)

func writeBody(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, body)
}

func TestAddRouteLogsRequests(t *testing.T) {
	require := require.New(t)

	httpLog := &bytes.Buffer{}
	s := newTestServer(t, httpLog)
	require.NoError(s.AddRoute(http.HandlerFunc(writeBody), "walletkit", ""))

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ext/walletkit", nil))
	require.Equal(http.StatusOK, w.Code)
	require.Equal(body, w.Body.String())
	require.Contains(httpLog.String(), "GET /ext/walletkit")
}

func TestGzip(t *testing.T) {
	require := require.New(t)

	s := newTestServer(t, io.Discard)
	require.NoError(s.AddRoute(http.HandlerFunc(writeBody), "walletkit", ""))

	request := httptest.NewRequest(http.MethodGet, "/ext/walletkit", nil)
	request.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, request)
	require.Equal("gzip", w.Header().Get("Content-Encoding"))

	reader, err := gzip.NewReader(w.Body)
	require.NoError(err)
	decoded, err := io.ReadAll(reader)
	require.NoError(err)
	require.Equal(body, string(decoded))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		expectedOrigin string
	}{
		{
			name:           "allowed origin",
			origin:         "https://dapp.example",
			expectedOrigin: "https://dapp.example",
		},
		{
			name:           "unknown origin",
			origin:         "https://evil.example",
			expectedOrigin: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			s := newTestServer(t, io.Discard)
			require.NoError(s.AddRoute(http.HandlerFunc(writeBody), "walletkit", ""))

			request := httptest.NewRequest(http.MethodGet, "/ext/walletkit", nil)
			request.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			s.handler.ServeHTTP(w, request)
			require.Equal(tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestAddAliases(t *testing.T) {
	require := require.New(t)

	s := newTestServer(t, io.Discard)
	require.NoError(s.AddRoute(http.HandlerFunc(writeBody), "walletkit", ""))
	require.NoError(s.AddAliases("walletkit", "appkit"))

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ext/appkit", nil))
	require.Equal(http.StatusOK, w.Code)

	err := s.AddRoute(http.HandlerFunc(writeBody), "appkit", "")
	require.ErrorIs(err, errAlreadyReserved)
}

func TestDispatchAndShutdown(t *testing.T) {
	require := require.New(t)

	s := newTestServer(t, io.Discard)
	require.NoError(s.AddRoute(http.HandlerFunc(writeBody), "walletkit", ""))

	dispatched := make(chan error, 1)
	go func() {
		dispatched <- s.Dispatch()
	}()
	require.Eventually(func() bool {
		return s.Addr() != nil
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + s.Addr().String() + "/ext/walletkit")
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)

	require.NoError(s.Shutdown())
	require.ErrorIs(<-dispatched, http.ErrServerClosed)
}

func TestShutdownBeforeDispatch(t *testing.T) {
	require := require.New(t)

	s := newTestServer(t, io.Discard)
	require.NoError(s.Shutdown())
	require.ErrorIs(s.Dispatch(), http.ErrServerClosed)
}
