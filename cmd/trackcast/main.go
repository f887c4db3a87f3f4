// trackcast - tracked device pose broadcaster
//
// trackcast polls a motion-tracking runtime every few milliseconds and
// multicasts the pose of every observed device as a small JSON snapshot on
// the local network. Listeners join the group and read datagrams; there is
// no handshake, acknowledgement or retransmission.
//
// Optional mirrors (MQTT, InfluxDB) and a read-only status API can be
// enabled in the configuration file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// configEnvVar names the environment variable consulted when --config is unset.
const configEnvVar = "TRACKCAST_CONFIG"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every command.
type rootOptions struct {
	ConfigPath string
	Address    string
}

// newRootCommand builds the CLI. Running the root command without a
// subcommand starts the broadcaster.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	serve := &serveOptions{root: opts}

	cmd := &cobra.Command{
		Use:           "trackcast",
		Short:         "Broadcast tracked device poses over UDP multicast",
		Long:          "Polls tracking hardware and multicasts a JSON snapshot of every observed device each cycle.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), serve, cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default $"+configEnvVar+", then built-in defaults)")
	cmd.PersistentFlags().StringVarP(&opts.Address, "address", "a", "", "multicast group ip:port (overrides config)")
	cmd.Flags().BoolVar(&serve.Echo, "echo", false, "also write every snapshot to stdout")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newListenCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// newVersionCommand prints build information.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trackcast %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// configPath resolves the config file: flag, then environment, then none.
func (o *rootOptions) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return os.Getenv(configEnvVar)
}
