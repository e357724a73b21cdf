package influx

import "errors"

// Sentinel errors for InfluxDB operations.
var (
	// ErrNotConnected indicates the writer was closed or never connected.
	ErrNotConnected = errors.New("influx: not connected")

	// ErrConnectionFailed indicates the initial ping failed.
	ErrConnectionFailed = errors.New("influx: connection failed")

	// ErrDisabled indicates sensor history is disabled in config.
	ErrDisabled = errors.New("influx: disabled in configuration")
)
