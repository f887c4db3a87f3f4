package hardware

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Source is a motion-tracking runtime that can be polled for poses.
//
// Poll returns one entry per slot; the slice length is fixed for the
// lifetime of an opened source.
type Source interface {
	Open(ctx context.Context) error
	Poll(ctx context.Context) ([]Pose, error)
	Close() error
}

// Session is the process-wide handle to an opened Source.
//
// It keeps the runtime alive between Open and Close and refuses polls once
// closed, so a stale handle can never reach the runtime.
//
// Thread Safety: safe for concurrent use, although only the poll loop is
// expected to hold it.
type Session struct {
	src    Source
	mu     sync.Mutex
	closed bool
}

// OpenSession opens src and returns a session owning it.
func OpenSession(ctx context.Context, src Source) (*Session, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrNotOpen)
	}
	if err := src.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening tracking source: %w", err)
	}
	return &Session{src: src}, nil
}

// Poll returns the current raw poses.
func (s *Session) Poll(ctx context.Context) ([]Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.src.Poll(ctx)
}

// Close releases the runtime. Subsequent calls are no-ops.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// NewSource builds a Source by kind: "simulated" (or empty) or "replay",
// which reads replayFile. slots <= 0 selects DefaultSlots.
func NewSource(kind string, slots int, replayFile string) (Source, error) {
	if slots <= 0 {
		slots = DefaultSlots
	}

	switch strings.ToLower(kind) {
	case "", "simulated":
		return NewSimulated(SimulatedConfig{Slots: slots}), nil
	case "replay":
		return NewReplay(replayFile, slots), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}
