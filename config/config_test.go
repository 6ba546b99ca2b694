// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/trace"
	"github.com/ava-labs/walletkit/utils/logging"
)

func getConfig(t *testing.T, args ...string) (Config, error) {
	t.Helper()

	v, err := BuildViper(BuildFlagSet(), args)
	require.NoError(t, err)
	return GetConfig(v)
}

func TestGetConfigDefaults(t *testing.T) {
	require := require.New(t)

	config, err := getConfig(t)
	require.NoError(err)

	require.Equal(LevelDB, config.DBType)
	require.Equal(defaultDBDir, config.DBPath)
	require.Equal(storage.DefaultPrefix, config.StoragePrefix)
	require.Equal("127.0.0.1:9650", config.HTTPConfig.ListenAddress)
	require.Equal([]string{"*"}, config.HTTPConfig.AllowedOrigins)
	require.Equal(10*time.Second, config.HTTPConfig.ShutdownTimeout)
	require.Equal(30*time.Second, config.HealthCheckFreq)
	require.Equal(time.Second, config.BalanceCooldown)
	require.Equal(30*time.Second, config.BalanceCacheTTL)
	require.Equal(30*time.Second, config.SwitchNetworkTimeout)
	require.False(config.DisconnectOnShutdown)
	require.Equal(trace.NoOp, config.TraceConfig.Type)
	require.Equal(logging.Info, config.LoggingConfig.LogLevel)
	require.Equal(logging.Info, config.LoggingConfig.DisplayLevel)
	require.Equal(DefaultNetworks, config.Networks)
	require.Empty(config.StaticAccounts)
	require.Empty(config.DefaultAccountTypes)
}

func TestGetConfigFlags(t *testing.T) {
	require := require.New(t)

	config, err := getConfig(t,
		"--db-type=memdb",
		"--http-host=0.0.0.0",
		"--http-port=0",
		"--log-level=debug",
		"--log-display-level=warn",
		"--balance-cooldown=5s",
		"--disconnect-on-shutdown",
		"--static-accounts=eip155=0xb794f5ea0ba39494ce839613fffba74279579268",
		"--static-accounts=solana=So11111111111111111111111111111111111111112",
		"--default-account-types=eip155=smartAccount",
		"--tracing-exporter-type=grpc",
		"--tracing-endpoint=localhost:4317",
	)
	require.NoError(err)

	require.Equal(MemDB, config.DBType)
	require.Equal("0.0.0.0:0", config.HTTPConfig.ListenAddress)
	require.Equal(logging.Debug, config.LoggingConfig.LogLevel)
	require.Equal(logging.Warn, config.LoggingConfig.DisplayLevel)
	require.Equal(5*time.Second, config.BalanceCooldown)
	require.True(config.DisconnectOnShutdown)
	require.Equal(map[caip.Namespace][]string{
		caip.EVM:    {"0xb794f5ea0ba39494ce839613fffba74279579268"},
		caip.Solana: {"So11111111111111111111111111111111111111112"},
	}, config.StaticAccounts)
	require.Equal(map[caip.Namespace]string{
		caip.EVM: state.AccountTypeSmartAccount,
	}, config.DefaultAccountTypes)
	require.Equal(trace.GRPC, config.TraceConfig.Type)
	require.Equal("localhost:4317", config.TraceConfig.Endpoint)
}

func TestGetConfigEnv(t *testing.T) {
	require := require.New(t)

	t.Setenv("WALLETKIT_HTTP_PORT", "8080")
	t.Setenv("WALLETKIT_DB_TYPE", "memdb")

	config, err := getConfig(t)
	require.NoError(err)
	require.Equal("127.0.0.1:8080", config.HTTPConfig.ListenAddress)
	require.Equal(MemDB, config.DBType)

	// Flags win over the environment.
	config, err = getConfig(t, "--http-port=9000")
	require.NoError(err)
	require.Equal("127.0.0.1:9000", config.HTTPConfig.ListenAddress)
}

func TestGetConfigFile(t *testing.T) {
	require := require.New(t)

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(configFile, []byte(`
db-type: memdb
switch-network-timeout: 2s
networks:
  - id: "137"
    namespace: eip155
    name: Polygon
    rpc-url: https://polygon-rpc.com
    native-currency:
      name: POL
      symbol: POL
      decimals: 18
  - id: "-239"
    namespace: ton
    name: TON
`), 0o600))

	config, err := getConfig(t, "--config-file="+configFile)
	require.NoError(err)

	require.Equal(MemDB, config.DBType)
	require.Equal(2*time.Second, config.SwitchNetworkTimeout)
	require.Equal([]caip.Network{
		{
			ID:        "137",
			Namespace: caip.EVM,
			Name:      "Polygon",
			RPCURL:    "https://polygon-rpc.com",
			NativeCurrency: caip.Currency{
				Name:     "POL",
				Symbol:   "POL",
				Decimals: 18,
			},
		},
		{
			ID:        "-239",
			Namespace: caip.TON,
			Name:      "TON",
		},
	}, config.Networks)
}

func TestGetConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedErr error
	}{
		{
			name:        "unknown database",
			args:        []string{"--db-type=rocksdb"},
			expectedErr: errUnknownDBType,
		},
		{
			name:        "port out of range",
			args:        []string{"--http-port=70000"},
			expectedErr: errInvalidPort,
		},
		{
			name:        "negative duration",
			args:        []string{"--balance-cache-ttl=-1s"},
			expectedErr: errNegativeDuration,
		},
		{
			name:        "zero health check frequency",
			args:        []string{"--health-check-frequency=0s"},
			expectedErr: errZeroHealthCheckFreq,
		},
		{
			name:        "malformed static account",
			args:        []string{"--static-accounts=0xb794f5ea0ba39494ce839613fffba74279579268"},
			expectedErr: errMalformedStaticAccount,
		},
		{
			name:        "static account without network",
			args:        []string{"--static-accounts=ton=EQD"},
			expectedErr: errNoNetworkForAccount,
		},
		{
			name:        "unknown account type",
			args:        []string{"--default-account-types=eip155=multisig"},
			expectedErr: errUnknownAccountType,
		},
		{
			name:        "unknown log level",
			args:        []string{"--log-level=loud"},
			expectedErr: logging.ErrUnknownLevel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := getConfig(t, tt.args...)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
