package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/trackcast/internal/infrastructure/multicast"
)

// DefaultMulticastAddress is the group and port snapshots are sent to when
// nothing else is configured.
const DefaultMulticastAddress = "239.255.42.98:50692"

// Config is the root configuration structure for trackcast.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Multicast MulticastConfig `yaml:"multicast"`
	Poll      PollConfig      `yaml:"poll"`
	Source    SourceConfig    `yaml:"source"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// MulticastConfig contains the snapshot destination.
type MulticastConfig struct {
	// Address is the IPv4 multicast group and port, "ip:port".
	Address string `yaml:"address"`

	// Interface is the network interface name used to join the group.
	// Empty selects the system default (wildcard).
	Interface string `yaml:"interface,omitempty"`

	// TTL is the multicast hop limit. 1 keeps traffic on the local segment.
	TTL int `yaml:"ttl"`
}

// Missing-slot policies for PollConfig.MissingSlot.
const (
	MissingSlotUntracked = "untracked"
	MissingSlotUnchanged = "unchanged"
)

// PollConfig contains poll loop settings.
type PollConfig struct {
	// Interval is the sleep between cycles. Default: 20ms.
	Interval time.Duration `yaml:"interval"`

	// OnlySeen restricts snapshots to devices that have been tracked at least once.
	OnlySeen bool `yaml:"only_seen"`

	// MissingSlot decides what happens to a known device whose slot is absent
	// from a poll: "untracked" or "unchanged".
	MissingSlot string `yaml:"missing_slot"`

	// Echo writes every serialised snapshot to stdout.
	Echo bool `yaml:"echo"`
}

// SourceConfig selects the tracking runtime.
type SourceConfig struct {
	// Type is "simulated" or "replay".
	Type string `yaml:"type"`

	// Slots is the fixed number of device slots per poll. Default: 64.
	Slots int `yaml:"slots"`

	// ReplayFile is the YAML recording used by the replay source.
	ReplayFile string `yaml:"replay_file,omitempty"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains HTTP status API settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket stream settings.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: TRACKCAST_SECTION_KEY
// For example: TRACKCAST_MULTICAST_ADDRESS, TRACKCAST_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults only
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Multicast: MulticastConfig{
			Address: DefaultMulticastAddress,
			TTL:     1,
		},
		Poll: PollConfig{
			Interval:    20 * time.Millisecond,
			OnlySeen:    true,
			MissingSlot: MissingSlotUntracked,
		},
		Source: SourceConfig{
			Type:  "simulated",
			Slots: 64,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "trackcast",
			},
			QoS:         0,
			TopicPrefix: "trackcast",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "trackcast",
			Bucket:        "poses",
			BatchSize:     500,
			FlushInterval: 1,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: TRACKCAST_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Multicast
	if v := os.Getenv("TRACKCAST_MULTICAST_ADDRESS"); v != "" {
		cfg.Multicast.Address = v
	}

	// Source
	if v := os.Getenv("TRACKCAST_SOURCE_TYPE"); v != "" {
		cfg.Source.Type = v
	}
	if v := os.Getenv("TRACKCAST_SOURCE_REPLAY_FILE"); v != "" {
		cfg.Source.ReplayFile = v
	}

	// MQTT
	if v := os.Getenv("TRACKCAST_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("TRACKCAST_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("TRACKCAST_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("TRACKCAST_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// API
	if v := os.Getenv("TRACKCAST_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// Logging
	if v := os.Getenv("TRACKCAST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Multicast validation
	if _, err := multicast.ParseGroup(c.Multicast.Address); err != nil {
		errs = append(errs, "multicast.address: "+err.Error())
	}
	if c.Multicast.TTL < 0 || c.Multicast.TTL > 255 {
		errs = append(errs, "multicast.ttl must be between 0 and 255")
	}

	// Poll validation
	if c.Poll.Interval <= 0 {
		errs = append(errs, "poll.interval must be positive")
	}
	switch c.Poll.MissingSlot {
	case MissingSlotUntracked, MissingSlotUnchanged:
	default:
		errs = append(errs, fmt.Sprintf("poll.missing_slot must be %q or %q", MissingSlotUntracked, MissingSlotUnchanged))
	}

	// Source validation
	switch strings.ToLower(c.Source.Type) {
	case "simulated":
	case "replay":
		if c.Source.ReplayFile == "" {
			errs = append(errs, "source.replay_file is required for the replay source")
		}
	default:
		errs = append(errs, "source.type must be simulated or replay")
	}
	if c.Source.Slots < 1 {
		errs = append(errs, "source.slots must be at least 1")
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	// API validation
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
