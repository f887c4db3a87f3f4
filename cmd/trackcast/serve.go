package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nerrad567/trackcast/internal/api"
	"github.com/nerrad567/trackcast/internal/device"
	"github.com/nerrad567/trackcast/internal/hardware"
	"github.com/nerrad567/trackcast/internal/infrastructure/config"
	"github.com/nerrad567/trackcast/internal/infrastructure/influxdb"
	"github.com/nerrad567/trackcast/internal/infrastructure/logging"
	"github.com/nerrad567/trackcast/internal/infrastructure/multicast"
	"github.com/nerrad567/trackcast/internal/infrastructure/mqtt"
	"github.com/nerrad567/trackcast/internal/tracker"
)

// serveOptions holds flags for the broadcaster.
type serveOptions struct {
	root *rootOptions
	Echo bool
}

// newServeCommand creates the explicit serve command.
func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{root: root}

	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Poll tracking hardware and broadcast snapshots (default)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&opts.Echo, "echo", false, "also write every snapshot to stdout")

	return cmd
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(opts *serveOptions) (*config.Config, error) {
	path := opts.root.configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.root.Address != "" {
		cfg.Multicast.Address = opts.root.Address
	}
	if opts.Echo {
		cfg.Poll.Echo = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}

// runServe is the broadcaster, separated from the command for testability.
// It returns nil on a clean shutdown (ctx cancelled) and an error for any
// initialisation failure or a fatal hardware error.
func runServe(ctx context.Context, opts *serveOptions, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	log := logging.New(cfg.Logging, version).With("session_id", sessionID)
	log.Info("starting trackcast",
		"version", version,
		"commit", commit,
		"build_date", date,
		"config", opts.root.configPath(),
	)

	policy, err := device.ParseMissingSlotPolicy(cfg.Poll.MissingSlot)
	if err != nil {
		return fmt.Errorf("poll.missing_slot: %w", err)
	}
	registry := device.NewRegistry()
	registry.SetLogger(log)
	registry.SetMissingSlotPolicy(policy)

	source, err := hardware.NewSource(cfg.Source.Type, cfg.Source.Slots, cfg.Source.ReplayFile)
	if err != nil {
		return fmt.Errorf("creating hardware source: %w", err)
	}
	log.Info("hardware source selected", "type", cfg.Source.Type, "slots", cfg.Source.Slots)

	publisher, err := multicast.New(ctx, multicast.Config{
		Address:   cfg.Multicast.Address,
		Interface: cfg.Multicast.Interface,
		TTL:       cfg.Multicast.TTL,
	})
	if err != nil {
		return fmt.Errorf("opening multicast socket: %w", err)
	}
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			log.Error("error closing multicast socket", "error", closeErr)
		}
	}()
	log.Info("multicast socket ready",
		"group", publisher.Addr().String(),
		"interface", cfg.Multicast.Interface,
		"ttl", cfg.Multicast.TTL,
	)

	var sinks []tracker.Sink

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"topic", mqttClient.Topics().Snapshot(),
		)
		sinks = append(sinks, mqttSink{client: mqttClient})
	}

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Warn("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		sinks = append(sinks, influxSink{client: influxClient})
	}

	var hub *api.Hub
	if cfg.API.Enabled {
		hub = api.NewHub(cfg.WebSocket, log)
		go hub.Run(ctx)
		sinks = append(sinks, hub)
	}

	filter := device.FilterAll
	if cfg.Poll.OnlySeen {
		filter = device.FilterSeen
	}

	var echo io.Writer
	if cfg.Poll.Echo {
		echo = stdout
	}

	loop, err := tracker.New(tracker.Options{
		Source:    source,
		Registry:  registry,
		Publisher: publisher,
		Interval:  cfg.Poll.Interval,
		Filter:    filter,
		Echo:      echo,
		Sinks:     sinks,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("creating poll loop: %w", err)
	}

	if cfg.API.Enabled {
		server, err := api.New(api.Deps{
			Config:    cfg.API,
			WS:        cfg.WebSocket,
			Logger:    log,
			Registry:  registry,
			Loop:      loop,
			MQTT:      mqttClient,
			InfluxDB:  influxClient,
			Hub:       hub,
			Version:   version,
			SessionID: sessionID,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	log.Info("broadcasting",
		"interval", loop.Interval().String(),
		"filter", filter.String(),
		"sinks", len(sinks),
	)

	if err := loop.Run(ctx); err != nil {
		return fmt.Errorf("poll loop: %w", err)
	}

	stats := loop.Stats()
	log.Info("trackcast stopped",
		"cycles", stats.Cycles,
		"broadcasts", stats.Broadcasts,
		"dropped_cycles", stats.DroppedCycles,
	)
	return nil
}
