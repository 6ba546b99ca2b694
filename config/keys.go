// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

// #nosec G101
const (
	ConfigFileKey           = "config-file"
	LogLevelKey             = "log-level"
	LogDisplayLevelKey      = "log-display-level"
	LogFormatKey            = "log-format"
	LogsDirKey              = "log-dir"
	LogMaxSizeKey           = "log-rotater-max-size"
	LogMaxFilesKey          = "log-rotater-max-files"
	LogMaxAgeKey            = "log-rotater-max-age"
	LogCompressKey          = "log-rotater-compress-enabled"
	LogDisableDisplayKey    = "log-disable-display"
	DBTypeKey               = "db-type"
	DBPathKey               = "db-dir"
	StoragePrefixKey        = "storage-prefix"
	HTTPHostKey             = "http-host"
	HTTPPortKey             = "http-port"
	HTTPAllowedOriginsKey   = "http-allowed-origins"
	HTTPShutdownTimeoutKey  = "http-shutdown-timeout"
	HealthCheckFreqKey      = "health-check-frequency"
	BalanceCooldownKey      = "balance-cooldown"
	BalanceCacheTTLKey      = "balance-cache-ttl"
	SwitchNetworkTimeoutKey = "switch-network-timeout"
	DisconnectOnShutdownKey = "disconnect-on-shutdown"
	TracingExporterTypeKey  = "tracing-exporter-type"
	TracingEndpointKey      = "tracing-endpoint"
	TracingInsecureKey      = "tracing-insecure"
	TracingSampleRateKey    = "tracing-sample-rate"
	TracingHeadersKey       = "tracing-headers"
	NetworksKey             = "networks"
	StaticAccountsKey       = "static-accounts"
	DefaultAccountTypesKey  = "default-account-types"
)
