package device

import (
	"sort"
	"sync"

	"github.com/nerrad567/trackcast/internal/hardware"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Entry is one raw pose tagged with the slot it was reported in.
type Entry struct {
	Slot int
	hardware.Pose
}

// EntriesFromPoll tags each pose with its index in the poll result.
func EntriesFromPoll(poses []hardware.Pose) []Entry {
	entries := make([]Entry, len(poses))
	for i, p := range poses {
		entries[i] = Entry{Slot: i, Pose: p}
	}
	return entries
}

// Registry is the persistent map from hardware slot to Device.
//
// Entries are created on the first ingest that mentions their slot and are
// never removed.
//
// All public methods are thread-safe. The poll loop is the only writer.
type Registry struct {
	devices map[int]*Device
	mu      sync.RWMutex
	policy  MissingSlotPolicy
	logger  Logger
}

// NewRegistry creates an empty registry using MissingSlotUntracked.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[int]*Device),
		policy:  MissingSlotUntracked,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// SetMissingSlotPolicy changes how devices absent from a batch are treated.
func (r *Registry) SetMissingSlotPolicy(p MissingSlotPolicy) {
	r.mu.Lock()
	r.policy = p
	r.mu.Unlock()
}

// Ingest applies one poll's worth of entries.
//
// For each entry the device is created if needed, then Tracked is set to
// the entry's validity. A valid entry latches Seen and overwrites the pose
// and class. An invalid entry leaves the previous pose and class in place.
// Entries with a negative slot are skipped.
//
// The whole batch is applied under one lock so readers never observe a
// half-ingested poll.
func (r *Registry) Ingest(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	present := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if e.Slot < 0 {
			r.logger.Warn("skipping entry with negative slot", "slot", e.Slot)
			continue
		}
		present[e.Slot] = struct{}{}
		r.apply(e)
	}

	if r.policy != MissingSlotUntracked {
		return
	}
	for id, d := range r.devices {
		if _, ok := present[id]; ok || !d.Tracked {
			continue
		}
		d.Tracked = false
		r.logger.Info("device tracking lost", "device_id", id, "class", d.Class.String(), "reason", "missing from poll")
	}
}

// apply updates a single device. Caller must hold the write lock.
func (r *Registry) apply(e Entry) {
	d, ok := r.devices[e.Slot]
	if !ok {
		d = newDevice(e.Slot)
		r.devices[e.Slot] = d
	}

	wasTracked := d.Tracked
	d.Tracked = e.Valid

	if !e.Valid {
		if wasTracked {
			r.logger.Info("device tracking lost", "device_id", d.ID, "class", d.Class.String())
		}
		return
	}

	firstSighting := !d.Seen
	d.Seen = true
	d.Position = e.Matrix.Position()
	d.Rotation = e.Matrix.Rotation()
	d.Class = Classify(e.Class, e.Role)

	switch {
	case firstSighting:
		r.logger.Info("device first seen", "device_id", d.ID, "class", d.Class.String())
	case !wasTracked:
		r.logger.Info("device tracking reacquired", "device_id", d.ID, "class", d.Class.String())
	}
}

// Snapshot returns copies of the selected devices sorted by ascending ID.
// The result is never nil.
func (r *Registry) Snapshot(filter Filter) []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		if filter == FilterSeen && !d.Seen {
			continue
		}
		devices = append(devices, *d)
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].ID < devices[j].ID
	})
	return devices
}

// Get returns a copy of the device in slot id.
// Returns ErrDeviceNotFound if the slot has never been ingested.
func (r *Registry) Get(id int) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return Device{}, ErrDeviceNotFound
	}
	return *d, nil
}

// Count returns the number of devices in the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Stats returns current registry statistics.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalDevices: len(r.devices),
		ByClass:      make(map[Class]int),
	}

	for _, d := range r.devices {
		if d.Tracked {
			stats.TrackedDevices++
		}
		if d.Seen {
			stats.SeenDevices++
		}
		stats.ByClass[d.Class]++
	}

	return stats
}
