package config

import "time"

// Write command defaults.
const (
	DefaultWriteOptimize     = true
	DefaultWriteRuns         = 200
	DefaultWriteNPM          = false
	DefaultWriteBaseDir      = "."
	DefaultWriteSourceSuffix = ".sol"
	DefaultWriteIgnoreExt    = ".t.sol"
	DefaultWritePretty       = false
	DefaultWriteValidate     = true
)

// Verify command defaults.
const (
	DefaultVerifyNetwork      = "mainnet"
	DefaultVerifyPollInterval = 2 * time.Second
	DefaultVerifyMaxRetries   = 10
	DefaultVerifySolcListURL  = "https://raw.githubusercontent.com/ethereum/solc-bin/gh-pages/bin/list.txt"
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetryMetricsFile  = ""
)
