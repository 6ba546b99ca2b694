// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ava-labs/walletkit/api/server"
	"github.com/ava-labs/walletkit/caip"
	"github.com/ava-labs/walletkit/state"
	"github.com/ava-labs/walletkit/trace"
	"github.com/ava-labs/walletkit/utils/logging"
	"github.com/ava-labs/walletkit/version"
)

var (
	errUnknownDBType          = errors.New("unknown database type")
	errInvalidPort            = errors.New("invalid http port")
	errNegativeDuration       = errors.New("duration must not be negative")
	errZeroHealthCheckFreq    = errors.New("health check frequency must be positive")
	errMalformedStaticAccount = errors.New("static account must be <namespace>=<address>")
	errUnknownAccountType     = errors.New("unknown account type")
	errNoNetworkForAccount    = errors.New("static account namespace has no network")

	// DefaultNetworks are used when the config file names none.
	DefaultNetworks = []caip.Network{
		{
			ID:        "1",
			Namespace: caip.EVM,
			Name:      "Ethereum",
			NativeCurrency: caip.Currency{
				Name:     "Ether",
				Symbol:   "ETH",
				Decimals: 18,
			},
			RPCURL:      "https://cloudflare-eth.com",
			ExplorerURL: "https://etherscan.io",
		},
		{
			ID:        "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp",
			Namespace: caip.Solana,
			Name:      "Solana",
			NativeCurrency: caip.Currency{
				Name:     "Solana",
				Symbol:   "SOL",
				Decimals: 9,
			},
			RPCURL:      "https://api.mainnet-beta.solana.com",
			ExplorerURL: "https://solscan.io",
		},
		{
			ID:        "000000000019d6689c085ae165831e93",
			Namespace: caip.Bitcoin,
			Name:      "Bitcoin",
			NativeCurrency: caip.Currency{
				Name:     "Bitcoin",
				Symbol:   "BTC",
				Decimals: 8,
			},
			ExplorerURL: "https://mempool.space",
		},
	}

	accountTypes = map[string]struct{}{
		state.AccountTypeEOA:          {},
		state.AccountTypeSmartAccount: {},
		state.AccountTypePayment:      {},
		state.AccountTypeOrdinal:      {},
	}
)

// Config is everything needed to run the wallet kit.
type Config struct {
	LoggingConfig logging.Config `json:"loggingConfig"`

	DBType        string `json:"dbType"`
	DBPath        string `json:"dbPath"`
	StoragePrefix string `json:"storagePrefix"`

	HTTPConfig server.Config `json:"httpConfig"`

	HealthCheckFreq time.Duration `json:"healthCheckFreq"`

	BalanceCooldown      time.Duration `json:"balanceCooldown"`
	BalanceCacheTTL      time.Duration `json:"balanceCacheTTL"`
	SwitchNetworkTimeout time.Duration `json:"switchNetworkTimeout"`
	DisconnectOnShutdown bool          `json:"disconnectOnShutdown"`

	TraceConfig trace.Config `json:"traceConfig"`

	Networks            []caip.Network              `json:"networks"`
	StaticAccounts      map[caip.Namespace][]string `json:"staticAccounts"`
	DefaultAccountTypes map[caip.Namespace]string   `json:"defaultAccountTypes"`
}

// GetConfig reads and validates the config defined in [v].
func GetConfig(v *viper.Viper) (Config, error) {
	var (
		config Config
		err    error
	)
	config.LoggingConfig, err = getLoggingConfig(v)
	if err != nil {
		return Config{}, err
	}

	config.DBType = v.GetString(DBTypeKey)
	if config.DBType != LevelDB && config.DBType != MemDB {
		return Config{}, fmt.Errorf("%w: %q", errUnknownDBType, config.DBType)
	}
	config.DBPath = os.ExpandEnv(v.GetString(DBPathKey))
	config.StoragePrefix = v.GetString(StoragePrefixKey)

	config.HTTPConfig, err = getHTTPConfig(v)
	if err != nil {
		return Config{}, err
	}

	config.HealthCheckFreq, err = getDuration(v, HealthCheckFreqKey)
	if err != nil {
		return Config{}, err
	}
	if config.HealthCheckFreq == 0 {
		return Config{}, fmt.Errorf("%w: %s", errZeroHealthCheckFreq, HealthCheckFreqKey)
	}

	config.BalanceCooldown, err = getDuration(v, BalanceCooldownKey)
	if err != nil {
		return Config{}, err
	}
	config.BalanceCacheTTL, err = getDuration(v, BalanceCacheTTLKey)
	if err != nil {
		return Config{}, err
	}
	config.SwitchNetworkTimeout, err = getDuration(v, SwitchNetworkTimeoutKey)
	if err != nil {
		return Config{}, err
	}
	config.DisconnectOnShutdown = v.GetBool(DisconnectOnShutdownKey)

	config.TraceConfig, err = getTraceConfig(v)
	if err != nil {
		return Config{}, err
	}

	config.Networks, err = getNetworks(v)
	if err != nil {
		return Config{}, err
	}
	config.StaticAccounts, err = getStaticAccounts(v, config.Networks)
	if err != nil {
		return Config{}, err
	}
	config.DefaultAccountTypes, err = getDefaultAccountTypes(v)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

func getLoggingConfig(v *viper.Viper) (logging.Config, error) {
	loggingConfig := logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   int(v.GetUint(LogMaxSizeKey)),
			MaxFiles:  int(v.GetUint(LogMaxFilesKey)),
			MaxAge:    int(v.GetUint(LogMaxAgeKey)),
			Directory: os.ExpandEnv(v.GetString(LogsDirKey)),
			Compress:  v.GetBool(LogCompressKey),
		},
		DisableWriterDisplaying: v.GetBool(LogDisableDisplayKey),
	}

	var err error
	loggingConfig.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return loggingConfig, err
	}

	logDisplayLevel := v.GetString(LogLevelKey)
	if v.IsSet(LogDisplayLevelKey) && v.GetString(LogDisplayLevelKey) != "" {
		logDisplayLevel = v.GetString(LogDisplayLevelKey)
	}
	loggingConfig.DisplayLevel, err = logging.ToLevel(logDisplayLevel)
	if err != nil {
		return loggingConfig, err
	}

	loggingConfig.LogFormat, err = logging.ToFormat(v.GetString(LogFormatKey), os.Stdout.Fd())
	return loggingConfig, err
}

func getHTTPConfig(v *viper.Viper) (server.Config, error) {
	port := v.GetUint(HTTPPortKey)
	if port > 65535 {
		return server.Config{}, fmt.Errorf("%w: %d", errInvalidPort, port)
	}
	shutdownTimeout, err := getDuration(v, HTTPShutdownTimeoutKey)
	if err != nil {
		return server.Config{}, err
	}
	return server.Config{
		ListenAddress:   net.JoinHostPort(v.GetString(HTTPHostKey), strconv.FormatUint(uint64(port), 10)),
		AllowedOrigins:  v.GetStringSlice(HTTPAllowedOriginsKey),
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getTraceConfig(v *viper.Viper) (trace.Config, error) {
	exporterType, err := trace.ExporterTypeFromString(v.GetString(TracingExporterTypeKey))
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		ExporterConfig: trace.ExporterConfig{
			Type:     exporterType,
			Endpoint: v.GetString(TracingEndpointKey),
			Headers:  v.GetStringMapString(TracingHeadersKey),
			Insecure: v.GetBool(TracingInsecureKey),
		},
		TraceSampleRate: v.GetFloat64(TracingSampleRateKey),
		Version:         version.Current.String(),
	}, nil
}

func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	d := v.GetDuration(key)
	if d < 0 {
		return 0, fmt.Errorf("%w: %s=%s", errNegativeDuration, key, d)
	}
	return d, nil
}

// getNetworks reads the networks list of the config file, falling back to
// DefaultNetworks.
func getNetworks(v *viper.Viper) ([]caip.Network, error) {
	if !v.IsSet(NetworksKey) {
		return DefaultNetworks, nil
	}
	var networks []caip.Network
	if err := v.UnmarshalKey(NetworksKey, &networks); err != nil {
		return nil, fmt.Errorf("couldn't parse %s: %w", NetworksKey, err)
	}
	if len(networks) == 0 {
		return DefaultNetworks, nil
	}
	for _, network := range networks {
		if err := network.Namespace.Verify(); err != nil {
			return nil, fmt.Errorf("network %q: %w", network.Name, err)
		}
	}
	return networks, nil
}

func getStaticAccounts(v *viper.Viper, networks []caip.Network) (map[caip.Namespace][]string, error) {
	configured := make(map[caip.Namespace]struct{}, len(networks))
	for _, network := range networks {
		configured[network.Namespace] = struct{}{}
	}

	accounts := make(map[caip.Namespace][]string)
	for _, entry := range v.GetStringSlice(StaticAccountsKey) {
		namespaceStr, address, ok := strings.Cut(entry, "=")
		if !ok || address == "" {
			return nil, fmt.Errorf("%w: %q", errMalformedStaticAccount, entry)
		}
		namespace := caip.Namespace(namespaceStr)
		if err := namespace.Verify(); err != nil {
			return nil, fmt.Errorf("static account %q: %w", entry, err)
		}
		if _, ok := configured[namespace]; !ok {
			return nil, fmt.Errorf("%w: %s", errNoNetworkForAccount, namespace)
		}
		accounts[namespace] = append(accounts[namespace], address)
	}
	return accounts, nil
}

func getDefaultAccountTypes(v *viper.Viper) (map[caip.Namespace]string, error) {
	types := make(map[caip.Namespace]string)
	for namespace, accountType := range v.GetStringMapString(DefaultAccountTypesKey) {
		if _, ok := accountTypes[accountType]; !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownAccountType, accountType)
		}
		types[caip.Namespace(namespace)] = accountType
	}
	return types, nil
}
