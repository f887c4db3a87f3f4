package influxdb

import "errors"

// Errors returned by the pose telemetry writer.
var (
	// ErrNotConnected is returned once the writer has been closed.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed means the server did not answer the startup ping.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed wraps a rejected batch of pose points. Batches are
	// flushed in the background, so this usually reaches the error callback
	// rather than a caller.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrDisabled is returned by Connect when pose telemetry is switched off.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
