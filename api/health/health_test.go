// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/utils/logging"
)

const (
	checkFreq    = time.Millisecond
	awaitTimeout = 5 * time.Second
	awaitFreq    = 10 * time.Millisecond
)

var errUnhealthy = errors.New("unhealthy")

func awaitReadiness(t *testing.T, r Reporter, ready bool) {
	require.Eventually(t, func() bool {
		_, ok := r.Readiness()
		return ok == ready
	}, awaitTimeout, awaitFreq)
}

func awaitHealthy(t *testing.T, r Reporter, healthy bool, namespaces ...caip.Namespace) {
	require.Eventually(t, func() bool {
		_, ok := r.Health(namespaces...)
		return ok == healthy
	}, awaitTimeout, awaitFreq)
}

func TestDuplicatedRegistrations(t *testing.T) {
	require := require.New(t)

	check := CheckerFunc(func() (interface{}, error) {
		return "", nil
	})

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.RegisterReadinessCheck("check", check))
	err = h.RegisterReadinessCheck("check", check)
	require.ErrorIs(err, errDuplicateCheck)

	require.NoError(h.RegisterHealthCheck("check", check))
	err = h.RegisterHealthCheck("check", check)
	require.ErrorIs(err, errDuplicateCheck)

	require.NoError(h.RegisterLivenessCheck("check", check))
	err = h.RegisterLivenessCheck("check", check)
	require.ErrorIs(err, errDuplicateCheck)
}

func TestDefaultFailing(t *testing.T) {
	require := require.New(t)

	check := CheckerFunc(func() (interface{}, error) {
		return "", nil
	})

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.RegisterHealthCheck("check", check))

	results, healthy := h.Health()
	require.Len(results, 1)
	require.Contains(results, "check")
	require.Equal(notYetRunResult, results["check"])
	require.False(healthy)
}

func TestPassingChecks(t *testing.T) {
	require := require.New(t)

	check := CheckerFunc(func() (interface{}, error) {
		return "", nil
	})

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.RegisterReadinessCheck("check", check))
	require.NoError(h.RegisterHealthCheck("check", check))
	require.NoError(h.RegisterLivenessCheck("check", check))

	h.Start(checkFreq)
	defer h.Stop()

	awaitReadiness(t, h, true)
	awaitHealthy(t, h, true)

	require.Eventually(func() bool {
		_, alive := h.Liveness()
		return alive
	}, awaitTimeout, awaitFreq)
	results, _ := h.Liveness()
	require.Nil(results["check"].Error)
	require.Zero(results["check"].ContiguousFailures)
}

func TestPassingThenFailingChecks(t *testing.T) {
	require := require.New(t)

	var (
		lock      sync.Mutex
		shouldErr bool
	)
	check := CheckerFunc(func() (interface{}, error) {
		lock.Lock()
		defer lock.Unlock()

		if shouldErr {
			return "", errUnhealthy
		}
		return "", nil
	})

	registry := prometheus.NewRegistry()
	h, err := New(logging.NoLog{}, registry)
	require.NoError(err)

	require.NoError(h.RegisterReadinessCheck("check", check))
	require.NoError(h.RegisterHealthCheck("check", check))

	h.Start(checkFreq)
	defer h.Stop()

	awaitReadiness(t, h, true)
	awaitHealthy(t, h, true)

	lock.Lock()
	shouldErr = true
	lock.Unlock()

	awaitHealthy(t, h, false)

	// Readiness only has to pass once.
	_, ready := h.Readiness()
	require.True(ready)

	results, _ := h.Health()
	result := results["check"]
	require.Equal(errUnhealthy.Error(), *result.Error)
	require.Positive(result.ContiguousFailures)
	require.NotNil(result.TimeOfFirstFailure)

	require.Equal(1.0, testutil.ToFloat64(failing(h, healthiness, GlobalLabel)))
	require.Zero(testutil.ToFloat64(failing(h, readiness, GlobalLabel)))
}

func failing(h Health, k kind, namespace string) prometheus.Gauge {
	return h.(*health).workers[k].metrics.failingChecks.WithLabelValues(string(k), namespace)
}

func TestNamespacedChecks(t *testing.T) {
	require := require.New(t)

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)

	require.NoError(h.RegisterHealthCheck("database", CheckerFunc(func() (interface{}, error) {
		return "memdb", nil
	})))
	require.NoError(h.RegisterHealthCheck("eip155", CheckerFunc(func() (interface{}, error) {
		return "connected", nil
	}), caip.EVM))
	require.NoError(h.RegisterHealthCheck("solana", CheckerFunc(func() (interface{}, error) {
		return "error", errUnhealthy
	}), caip.Solana))

	h.Start(checkFreq)
	defer h.Stop()

	awaitHealthy(t, h, true, caip.EVM)
	awaitHealthy(t, h, false, caip.Solana)
	awaitHealthy(t, h, false)

	results, healthy := h.Health(caip.EVM)
	require.True(healthy)
	require.Len(results, 2)
	require.Contains(results, "database")
	require.Contains(results, "eip155")

	results, healthy = h.Health(caip.EVM, caip.Solana)
	require.False(healthy)
	require.Len(results, 3)

	// A namespace without checks of its own only sees the global ones.
	results, healthy = h.Health(caip.Bitcoin)
	require.True(healthy)
	require.Len(results, 1)

	require.Equal(1.0, testutil.ToFloat64(failing(h, healthiness, string(caip.Solana))))
	require.Zero(testutil.ToFloat64(failing(h, healthiness, string(caip.EVM))))
	require.Zero(testutil.ToFloat64(failing(h, healthiness, GlobalLabel)))
}

func TestReadinessStopsRunningOncePassed(t *testing.T) {
	require := require.New(t)

	var (
		lock  sync.Mutex
		calls int
	)
	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(h.RegisterReadinessCheck("check", CheckerFunc(func() (interface{}, error) {
		lock.Lock()
		defer lock.Unlock()

		calls++
		if calls < 2 {
			return calls, errUnhealthy
		}
		return calls, nil
	})))

	h.Start(checkFreq)
	awaitReadiness(t, h, true)
	// Give the ticker room to run the check again if it would.
	time.Sleep(10 * checkFreq)
	h.Stop()

	lock.Lock()
	defer lock.Unlock()
	require.Equal(2, calls)

	results, ready := h.Readiness()
	require.True(ready)
	require.Equal(2, results["check"].Details)
}

func TestGetHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "healthy",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unhealthy",
			err:            errUnhealthy,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			h, err := New(logging.NoLog{}, prometheus.NewRegistry())
			require.NoError(err)
			require.NoError(h.RegisterHealthCheck("check", CheckerFunc(func() (interface{}, error) {
				return "details", tt.err
			}), caip.Solana))
			h.Start(checkFreq)
			defer h.Stop()
			awaitHealthy(t, h, tt.err == nil)

			handler, err := NewGetAndPostHandler(logging.NoLog{}, h)
			require.NoError(err)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, Endpoint, nil))
			require.Equal(tt.expectedStatus, w.Code)

			var reply APIReply
			require.NoError(json.NewDecoder(w.Body).Decode(&reply))
			require.Equal(tt.err == nil, reply.Healthy)
			require.Equal("details", reply.Checks["check"].Details)

			// The check only concerns solana.
			w = httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, Endpoint+"?namespace=eip155", nil))
			require.Equal(http.StatusOK, w.Code)
			reply = APIReply{}
			require.NoError(json.NewDecoder(w.Body).Decode(&reply))
			require.True(reply.Healthy)
			require.Empty(reply.Checks)
		})
	}
}

func TestClient(t *testing.T) {
	require := require.New(t)

	h, err := New(logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(h.RegisterReadinessCheck("initialized", CheckerFunc(func() (interface{}, error) {
		return nil, nil
	})))
	require.NoError(h.RegisterLivenessCheck("eip155", CheckerFunc(func() (interface{}, error) {
		return nil, errUnhealthy
	}), caip.EVM))
	h.Start(checkFreq)
	defer h.Stop()

	handler, err := NewGetAndPostHandler(logging.NoLog{}, h)
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(Endpoint, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), awaitTimeout)
	defer cancel()

	c := NewClient(server.URL)
	ready, err := AwaitReady(ctx, c, awaitFreq, nil)
	require.NoError(err)
	require.True(ready)

	// No health checks are registered.
	reply, err := c.Health(ctx, nil)
	require.NoError(err)
	require.True(reply.Healthy)
	require.Empty(reply.Checks)

	reply, err = c.Liveness(ctx, []caip.Namespace{caip.EVM})
	require.NoError(err)
	require.False(reply.Healthy)
	require.Contains(reply.Checks, "eip155")

	reply, err = c.Liveness(ctx, []caip.Namespace{caip.Solana})
	require.NoError(err)
	require.True(reply.Healthy)
	require.Empty(reply.Checks)
}
