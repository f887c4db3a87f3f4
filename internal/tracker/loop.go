package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/nerrad567/trackcast/internal/device"
	"github.com/nerrad567/trackcast/internal/hardware"
	"github.com/nerrad567/trackcast/internal/snapshot"
)

// DefaultInterval is the pause between cycles.
const DefaultInterval = 20 * time.Millisecond

// Publisher sends one encoded snapshot to the network.
type Publisher interface {
	Broadcast(payload []byte) error
}

// Sink is an optional consumer of every published snapshot.
// Each sink is fed from its own goroutine through a short queue; while
// Publish is busy and the queue is full, snapshots are dropped for that
// sink only. The broadcast never waits for a sink.
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap snapshot.Snapshot, payload []byte) error
}

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Loop.
type Options struct {
	Source    hardware.Source
	Registry  *device.Registry
	Publisher Publisher

	// Interval between cycles. Default: DefaultInterval.
	Interval time.Duration

	// Filter applied to every snapshot. The zero value is FilterAll;
	// callers normally pass FilterSeen.
	Filter device.Filter

	// Echo, when set, receives every payload followed by a newline.
	Echo io.Writer

	Sinks  []Sink
	Logger Logger

	// Now returns the wall clock. Default: time.Now.
	Now func() time.Time
}

// Stats is a point-in-time copy of the loop counters.
type Stats struct {
	Cycles            uint64    `json:"cycles"`
	Broadcasts        uint64    `json:"broadcasts"`
	BroadcastFailures uint64    `json:"broadcast_failures"`
	DroppedCycles     uint64    `json:"dropped_cycles"`
	SinkFailures      uint64    `json:"sink_failures"`
	SinkDrops         uint64    `json:"sink_drops"`
	LastTimestamp     time.Time `json:"last_timestamp"`
	LastDeviceCount   int       `json:"last_device_count"`
	Running           bool      `json:"running"`
}

// Loop is the single driver of the hardware session and the registry.
type Loop struct {
	source    hardware.Source
	registry  *device.Registry
	publisher Publisher
	interval  time.Duration
	filter    device.Filter
	echo      io.Writer
	sinks     []Sink
	logger    Logger
	now       func() time.Time

	// Only touched by the loop goroutine.
	prevTS  int64
	workers []*sinkWorker

	running           atomic.Bool
	cycles            atomic.Uint64
	broadcasts        atomic.Uint64
	broadcastFailures atomic.Uint64
	droppedCycles     atomic.Uint64
	sinkFailures      atomic.Uint64
	sinkDrops         atomic.Uint64
	lastTimestamp     atomic.Int64
	lastDeviceCount   atomic.Int64
}

// New validates opts and applies defaults.
func New(opts Options) (*Loop, error) {
	if opts.Source == nil {
		return nil, ErrMissingSource
	}
	if opts.Registry == nil {
		return nil, ErrMissingRegistry
	}
	if opts.Publisher == nil {
		return nil, ErrMissingPublisher
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Loop{
		source:    opts.Source,
		registry:  opts.Registry,
		publisher: opts.Publisher,
		interval:  opts.Interval,
		filter:    opts.Filter,
		echo:      opts.Echo,
		sinks:     opts.Sinks,
		logger:    opts.Logger,
		now:       opts.Now,
	}, nil
}

// Run opens the hardware session and cycles until ctx is cancelled or a
// poll fails. The session is closed before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	sess, err := hardware.OpenSession(ctx, l.source)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			l.logger.Warn("closing tracking session", "error", err)
		}
	}()

	stopSinks := l.startSinks(ctx)
	defer stopSinks()

	l.logger.Info("poll loop started",
		"interval", l.interval.String(),
		"filter", l.filter.String(),
		"sinks", len(l.sinks),
	)

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		if err := l.cycle(ctx, sess); err != nil {
			if ctx.Err() != nil {
				break
			}
			l.logger.Error("poll loop stopped", "error", err)
			return err
		}

		timer.Reset(l.interval)
		select {
		case <-ctx.Done():
			l.logger.Info("poll loop stopped", "cycles", l.cycles.Load())
			return nil
		case <-timer.C:
		}
	}

	l.logger.Info("poll loop stopped", "cycles", l.cycles.Load())
	return nil
}

// cycle runs one poll-to-broadcast pass. Only a poll error is returned.
func (l *Loop) cycle(ctx context.Context, sess *hardware.Session) error {
	poses, err := sess.Poll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrPollFailed, err)
	}
	l.cycles.Add(1)

	l.registry.Ingest(device.EntriesFromPoll(poses))
	snap := snapshot.New(l.timestamp(), l.registry.Snapshot(l.filter))

	payload, err := snapshot.Marshal(snap)
	if err != nil {
		l.droppedCycles.Add(1)
		l.logger.Error("dropping cycle: encoding snapshot", "error", err)
		return nil
	}

	if err := l.publisher.Broadcast(payload); err != nil {
		l.broadcastFailures.Add(1)
		l.droppedCycles.Add(1)
		l.logger.Warn("dropping cycle: broadcast failed", "error", err, "bytes", len(payload))
		return nil
	}
	l.broadcasts.Add(1)
	l.lastTimestamp.Store(snap.Timestamp)
	l.lastDeviceCount.Store(int64(len(snap.Trackers)))

	if l.echo != nil {
		if _, err := fmt.Fprintf(l.echo, "%s\n", payload); err != nil {
			l.sinkFailures.Add(1)
			l.logger.Warn("echo failed", "error", err)
		}
	}

	l.dispatch(delivery{snap: snap, payload: payload})

	return nil
}

// timestamp returns the wall clock, never earlier than the previous cycle's.
func (l *Loop) timestamp() time.Time {
	ms := l.now().UnixMilli()
	if ms < l.prevTS {
		ms = l.prevTS
	}
	l.prevTS = ms
	return time.UnixMilli(ms)
}

// Interval returns the pause between cycles.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Stats returns the current loop counters.
func (l *Loop) Stats() Stats {
	s := Stats{
		Cycles:            l.cycles.Load(),
		Broadcasts:        l.broadcasts.Load(),
		BroadcastFailures: l.broadcastFailures.Load(),
		DroppedCycles:     l.droppedCycles.Load(),
		SinkFailures:      l.sinkFailures.Load(),
		SinkDrops:         l.sinkDrops.Load(),
		LastDeviceCount:   int(l.lastDeviceCount.Load()),
		Running:           l.running.Load(),
	}
	if ts := l.lastTimestamp.Load(); ts != 0 {
		s.LastTimestamp = time.UnixMilli(ts)
	}
	return s
}
