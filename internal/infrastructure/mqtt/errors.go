package mqtt

import "errors"

// Errors returned by the snapshot mirror. Compare with errors.Is.
var (
	// ErrNotConnected means the broker link is down; the snapshot was not sent.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed means the broker was unreachable at startup.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed wraps a rejected, oversized or unacknowledged message.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrPublishBackpressure means too many snapshots are still awaiting
	// acknowledgement; this one was dropped.
	ErrPublishBackpressure = errors.New("mqtt: too many snapshots awaiting acknowledgement")

	// ErrInvalidQoS rejects a QoS level outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic rejects an empty topic.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
