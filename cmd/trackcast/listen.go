package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nerrad567/trackcast/internal/infrastructure/config"
	"github.com/nerrad567/trackcast/internal/infrastructure/logging"
	"github.com/nerrad567/trackcast/internal/infrastructure/multicast"
	"github.com/nerrad567/trackcast/internal/snapshot"
)

// listenOptions holds flags for the listen command.
type listenOptions struct {
	root      *rootOptions
	Count     int
	Interface string
}

// newListenCommand creates a consumer that joins the group and summarises
// every snapshot it receives.
func newListenCommand(root *rootOptions) *cobra.Command {
	opts := &listenOptions{root: root}

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Join the multicast group and print received snapshots",
		Long: `Join the multicast group and print one summary line per snapshot.

Useful for checking a broadcaster from another terminal or machine. Exits
after --count snapshots, or on interrupt when --count is 0.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			address, err := opts.address()
			if err != nil {
				return err
			}
			return runListen(cmd.Context(), address, opts.Interface, opts.Count, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "exit after this many snapshots (0 = until interrupted)")
	cmd.Flags().StringVar(&opts.Interface, "interface", "", "network interface to join the group on")

	return cmd
}

// address resolves the group: --address, then the config file, then the default.
func (o *listenOptions) address() (string, error) {
	if o.root.Address != "" {
		return o.root.Address, nil
	}
	if path := o.root.configPath(); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return "", fmt.Errorf("loading config: %w", err)
		}
		return cfg.Multicast.Address, nil
	}
	return config.DefaultMulticastAddress, nil
}

// runListen receives snapshots until count is reached or ctx is cancelled.
// Datagrams that are not snapshots are logged and skipped.
func runListen(ctx context.Context, address, iface string, count int, out io.Writer) error {
	log := logging.Default()

	listener, err := multicast.New(ctx, multicast.Config{Address: address, Interface: iface})
	if err != nil {
		return fmt.Errorf("joining multicast group: %w", err)
	}
	defer listener.Close()

	log.Info("listening", "group", listener.Addr().String())

	buf := make([]byte, multicast.MaxPayload)
	for received := 0; count <= 0 || received < count; {
		n, from, err := listener.Receive(ctx, buf)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("receiving: %w", err)
		}

		snap, err := snapshot.Unmarshal(buf[:n])
		if err != nil {
			log.Warn("ignoring datagram", "from", from.String(), "bytes", n, "error", err)
			continue
		}

		fmt.Fprintln(out, summarize(snap, from.String()))
		received++
	}
	return nil
}

// summarize renders one line per snapshot.
func summarize(snap snapshot.Snapshot, from string) string {
	tracked := 0
	for _, d := range snap.Trackers {
		if d.Tracked {
			tracked++
		}
	}
	return fmt.Sprintf("ts=%d devices=%d tracked=%d from=%s",
		snap.Timestamp, len(snap.Trackers), tracked, from)
}
