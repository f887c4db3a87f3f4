// Package mqtt mirrors trackcast snapshots onto an MQTT broker.
//
// Multicast only reaches the local segment. Consumers elsewhere (dashboards,
// recorders, cloud bridges) can subscribe to the broker instead:
//
//	{prefix}/snapshot        every serialised snapshot, not retained
//	{prefix}/system/status   retained online/offline status, with LWT
//
// PublishSnapshot never waits for the broker. Acknowledgements are settled
// in the background and counted in Stats; a stalled broker shows up as
// ErrPublishBackpressure once too many snapshots are outstanding.
//
// # Security Considerations
//
//   - Use TLS (cfg.Broker.TLS=true) on untrusted networks
//   - Set credentials via TRACKCAST_MQTT_USERNAME / TRACKCAST_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.PublishSnapshot(payload); err != nil {
//	    log.Warn("mqtt publish failed", "error", err)
//	}
package mqtt
