// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/ava-labs/walletkit/storage"
	"github.com/ava-labs/walletkit/utils/logging"
)

const (
	appName = "walletkit"

	LevelDB = "leveldb"
	MemDB   = "memdb"

	defaultHTTPPort = 9650
)

var (
	homeDir        = os.ExpandEnv("$HOME")
	defaultDataDir = filepath.Join(homeDir, "."+appName)
	defaultDBDir   = filepath.Join(defaultDataDir, "db")
	defaultLogDir  = filepath.Join(defaultDataDir, "logs")
)

func addFlags(fs *pflag.FlagSet) {
	// Config file
	fs.String(ConfigFileKey, "", "Specifies a config file")

	// Logging
	fs.String(LogsDirKey, defaultLogDir, "Logging directory")
	fs.String(LogLevelKey, logging.Info.LowerString(), "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevelKey, "", "The log display level. If left blank, will inherit the value of log-level. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogFormatKey, "auto", "The structure of log format. Should be one of {auto, plain, colors, json}")
	fs.Uint(LogMaxSizeKey, 8, "The maximum file size in megabytes of the log file before it gets rotated")
	fs.Uint(LogMaxFilesKey, 7, "The maximum number of old log files to retain. 0 means retain all old log files")
	fs.Uint(LogMaxAgeKey, 0, "The maximum number of days to retain old log files based on the timestamp encoded in their filename. 0 means retain all old log files")
	fs.Bool(LogCompressKey, false, "Enables the compression of rotated log files through gzip")
	fs.Bool(LogDisableDisplayKey, false, "Disables displaying logs in stdout")

	// Database
	fs.String(DBTypeKey, LevelDB, fmt.Sprintf("Database type to use. Must be one of {%s, %s}", LevelDB, MemDB))
	fs.String(DBPathKey, defaultDBDir, "Path to database directory")
	fs.String(StoragePrefixKey, storage.DefaultPrefix, "Prefix of every key the wallet kit persists")

	// HTTP APIs
	fs.String(HTTPHostKey, "127.0.0.1", "Address of the HTTP server. If the address is empty or a literal unspecified IP address, the server will bind on all available unicast and anycast IP addresses of the local system")
	fs.Uint(HTTPPortKey, defaultHTTPPort, "Port of the HTTP server")
	fs.StringSlice(HTTPAllowedOriginsKey, []string{"*"}, "Origins to allow on the HTTP port. The wildcard allows every origin")
	fs.Duration(HTTPShutdownTimeoutKey, 10*time.Second, "Maximum duration to wait for existing connections to complete during shutdown")

	// Health
	fs.Duration(HealthCheckFreqKey, 30*time.Second, "Time between health checks")

	// Wallet
	fs.Duration(BalanceCooldownKey, time.Second, "Minimum time between two balance requests for the same account after a failure")
	fs.Duration(BalanceCacheTTLKey, 30*time.Second, "Duration a fetched balance is served from cache")
	fs.Duration(SwitchNetworkTimeoutKey, 30*time.Second, "Maximum duration a wallet is given to answer a network switch")
	fs.StringSlice(StaticAccountsKey, nil, "Accounts of the built-in wallet, as <namespace>=<address>. For example eip155=0xb794f5ea0ba39494ce839613fffba74279579268")
	fs.Bool(DisconnectOnShutdownKey, false, "Disconnects every connected namespace before shutting down. Otherwise connections are restored on the next start")
	fs.StringToString(DefaultAccountTypesKey, nil, "Account type to use per namespace when nothing is persisted. For example eip155=smartAccount")

	// Tracing
	fs.String(TracingExporterTypeKey, "disabled", "Type of exporter to use for tracing. Options are [disabled, grpc, http]")
	fs.String(TracingEndpointKey, "", "The endpoint to send trace data to. If unspecified, the exporter default is used")
	fs.Bool(TracingInsecureKey, true, "If true, don't use TLS when sending trace data")
	fs.Float64(TracingSampleRateKey, 0.1, "The fraction of traces to sample. If >= 1 always samples. If <= 0 never samples")
	fs.StringToString(TracingHeadersKey, map[string]string{}, "The headers to provide the trace indexer")
}

// BuildFlagSet returns a complete set of flags for the wallet kit.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	addFlags(fs)
	return fs
}
