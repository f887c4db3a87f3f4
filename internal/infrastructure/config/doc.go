// Package config handles loading and validating trackcast configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The only setting the core broadcaster needs is the multicast destination;
// everything else configures optional observers (MQTT mirror, InfluxDB
// telemetry, status API) or development conveniences (source selection,
// stdout echo).
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - Snapshots are sent unencrypted; keep multicast.ttl at 1 unless the
//     network is trusted
//
// Usage:
//
//	cfg, err := config.Load("configs/trackcast.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Multicast.Address)
package config
