package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Maximum payload size for MQTT messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// maxSnapshotsInFlight bounds the snapshots awaiting broker acknowledgement.
const maxSnapshotsInFlight = 64

// Stats holds snapshot delivery counters.
type Stats struct {
	SnapshotsPublished uint64 `json:"snapshots_published"`
	SnapshotsFailed    uint64 `json:"snapshots_failed"`
	SnapshotsDropped   uint64 `json:"snapshots_dropped"`
	InFlight           int64  `json:"in_flight"`
}

// Publish sends a message to the specified MQTT topic and waits for the
// broker to acknowledge it.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "trackcast/system/status")
//   - payload: The message payload (max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return c.waitToken(c.client.Publish(topic, qos, retained, payload))
}

// PublishSnapshot hands an encoded snapshot to the client for {prefix}/snapshot
// with the configured QoS and returns without waiting for the broker.
// Acknowledgements are tracked in the background and counted in Stats.
// While maxSnapshotsInFlight snapshots are unacknowledged, further calls
// fail with ErrPublishBackpressure.
//
// Snapshots are not retained; a late subscriber waits one cycle for the next.
func (c *Client) PublishSnapshot(payload []byte) error {
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	if c.inFlight.Add(1) > maxSnapshotsInFlight {
		c.inFlight.Add(-1)
		c.snapshotsDropped.Add(1)
		return ErrPublishBackpressure
	}

	token := c.client.Publish(c.topics.Snapshot(), byte(c.cfg.QoS), false, payload)
	go c.awaitSnapshot(token)
	return nil
}

// awaitSnapshot settles one snapshot publish. Only the first failure after a
// success and the first success after a failure are logged.
func (c *Client) awaitSnapshot(token pahomqtt.Token) {
	defer c.inFlight.Add(-1)

	if err := c.waitToken(token); err != nil {
		c.snapshotsFailed.Add(1)
		if !c.failing.Swap(true) {
			if logger := c.getLogger(); logger != nil {
				logger.Warn("mqtt snapshot delivery failing", "error", err)
			}
		}
		return
	}

	c.snapshotsPublished.Add(1)
	if c.failing.Swap(false) {
		if logger := c.getLogger(); logger != nil {
			logger.Info("mqtt snapshot delivery recovered")
		}
	}
}

// waitToken waits up to the publish timeout for token to complete.
func (c *Client) waitToken(token pahomqtt.Token) error {
	timeout := c.ackTimeout()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

func (c *Client) ackTimeout() time.Duration {
	if c.publishTimeout > 0 {
		return c.publishTimeout
	}
	return defaultPublishTimeout
}

// Stats returns the snapshot delivery counters.
func (c *Client) Stats() Stats {
	return Stats{
		SnapshotsPublished: c.snapshotsPublished.Load(),
		SnapshotsFailed:    c.snapshotsFailed.Load(),
		SnapshotsDropped:   c.snapshotsDropped.Load(),
		InFlight:           c.inFlight.Load(),
	}
}
