package device

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/trackcast/internal/hardware"
	"github.com/nerrad567/trackcast/internal/pose"
)

// recordingLogger captures Info messages for lifecycle assertions.
type recordingLogger struct {
	noopLogger
	mu   sync.Mutex
	info []string
	warn []string
}

func (l *recordingLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	l.info = append(l.info, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warn = append(l.warn, msg)
	l.mu.Unlock()
}

func validEntry(slot int, m pose.Matrix34, class hardware.DeviceClass, role hardware.ControllerRole) Entry {
	return Entry{Slot: slot, Pose: hardware.Pose{Valid: true, Matrix: m, Class: class, Role: role}}
}

func invalidEntry(slot int, class hardware.DeviceClass) Entry {
	return Entry{Slot: slot, Pose: hardware.Pose{Class: class}}
}

func TestRegistry_TwoEntryScenario(t *testing.T) {
	r := NewRegistry()
	r.Ingest([]Entry{
		validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone),
		{Slot: 1, Pose: hardware.Pose{Valid: false, Matrix: pose.Matrix34{}, Class: hardware.ClassController, Role: hardware.RoleLeftHand}},
	})

	seen := r.Snapshot(FilterSeen)
	require.Len(t, seen, 1)
	assert.Equal(t, Device{
		ID:       0,
		Tracked:  true,
		Seen:     true,
		Position: pose.Point3{},
		Rotation: pose.Identity(),
		Class:    ClassHMD,
	}, seen[0])

	all := r.Snapshot(FilterAll)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[1].ID)
	assert.False(t, all[1].Tracked)
	assert.False(t, all[1].Seen)
	assert.Equal(t, ClassOther, all[1].Class, "invalid first sighting keeps defaults")
	assert.Equal(t, pose.Identity(), all[1].Rotation)
}

func TestRegistry_SeenLatch(t *testing.T) {
	r := NewRegistry()
	r.Ingest([]Entry{validEntry(2, pose.IdentityMatrix(), hardware.ClassGenericTracker, hardware.RoleNone)})

	for i := 0; i < 5; i++ {
		r.Ingest([]Entry{invalidEntry(2, hardware.ClassGenericTracker)})
		d, err := r.Get(2)
		require.NoError(t, err)
		assert.False(t, d.Tracked)
		assert.True(t, d.Seen, "seen must stay latched after %d invalid polls", i+1)
	}
}

func TestRegistry_StaleOnInvalid(t *testing.T) {
	r := NewRegistry()
	m := pose.RotationY(0.7, pose.Point3{X: 1, Y: 2, Z: 3})
	r.Ingest([]Entry{validEntry(4, m, hardware.ClassController, hardware.RoleRightHand)})

	before, err := r.Get(4)
	require.NoError(t, err)

	// The invalid entry carries a different class and matrix; neither may leak in.
	r.Ingest([]Entry{{Slot: 4, Pose: hardware.Pose{
		Valid:  false,
		Matrix: pose.RotationY(-1, pose.Point3{X: 9, Y: 9, Z: 9}),
		Class:  hardware.ClassHMD,
	}}})

	after, err := r.Get(4)
	require.NoError(t, err)
	assert.False(t, after.Tracked)
	assert.True(t, after.Seen)
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Rotation, after.Rotation)
	assert.Equal(t, ClassRightController, after.Class)
}

func TestRegistry_UpdatesOnValid(t *testing.T) {
	r := NewRegistry()
	r.Ingest([]Entry{validEntry(0, pose.IdentityMatrix(), hardware.ClassController, hardware.RoleNone)})

	m := pose.RotationY(0.3, pose.Point3{X: -1, Y: 1.5, Z: 0.25})
	r.Ingest([]Entry{validEntry(0, m, hardware.ClassController, hardware.RoleLeftHand)})

	d, err := r.Get(0)
	require.NoError(t, err)
	assert.Equal(t, m.Position(), d.Position)
	assert.Equal(t, m.Rotation(), d.Rotation)
	assert.Equal(t, ClassLeftController, d.Class)
}

func TestRegistry_SnapshotOrdering(t *testing.T) {
	r := NewRegistry()

	slots := rand.New(rand.NewSource(7)).Perm(40)
	entries := make([]Entry, 0, len(slots))
	for _, s := range slots {
		entries = append(entries, validEntry(s, pose.IdentityMatrix(), hardware.ClassGenericTracker, hardware.RoleNone))
	}
	r.Ingest(entries)

	snap := r.Snapshot(FilterAll)
	require.Len(t, snap, 40)
	for i := 1; i < len(snap); i++ {
		assert.Less(t, snap[i-1].ID, snap[i].ID)
	}
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Ingest([]Entry{validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone)})

	snap := r.Snapshot(FilterAll)
	snap[0].Tracked = false
	snap[0].Position.X = 100

	d, err := r.Get(0)
	require.NoError(t, err)
	assert.True(t, d.Tracked)
	assert.Zero(t, d.Position.X)
}

func TestRegistry_EmptySnapshotNotNil(t *testing.T) {
	r := NewRegistry()
	assert.NotNil(t, r.Snapshot(FilterAll))
	assert.NotNil(t, r.Snapshot(FilterSeen))
}

func TestRegistry_MissingSlotUntracked(t *testing.T) {
	r := NewRegistry()
	r.Ingest([]Entry{
		validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone),
		validEntry(1, pose.IdentityMatrix(), hardware.ClassGenericTracker, hardware.RoleNone),
	})

	r.Ingest([]Entry{validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone)})

	d, err := r.Get(1)
	require.NoError(t, err)
	assert.False(t, d.Tracked)
	assert.True(t, d.Seen)
	assert.Equal(t, ClassTracker, d.Class)
}

func TestRegistry_MissingSlotUnchanged(t *testing.T) {
	r := NewRegistry()
	r.SetMissingSlotPolicy(MissingSlotUnchanged)
	r.Ingest([]Entry{
		validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone),
		validEntry(1, pose.IdentityMatrix(), hardware.ClassGenericTracker, hardware.RoleNone),
	})

	r.Ingest([]Entry{validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone)})

	d, err := r.Get(1)
	require.NoError(t, err)
	assert.True(t, d.Tracked)
}

func TestRegistry_NegativeSlotSkipped(t *testing.T) {
	r := NewRegistry()
	log := &recordingLogger{}
	r.SetLogger(log)

	r.Ingest([]Entry{validEntry(-1, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone)})

	assert.Zero(t, r.Count())
	assert.Len(t, log.warn, 1)
}

func TestRegistry_GetNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(3)
	require.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestRegistry_LifecycleLogging(t *testing.T) {
	r := NewRegistry()
	log := &recordingLogger{}
	r.SetLogger(log)

	valid := []Entry{validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone)}
	invalid := []Entry{invalidEntry(0, hardware.ClassHMD)}

	r.Ingest(valid)
	r.Ingest(valid)
	r.Ingest(invalid)
	r.Ingest(invalid)
	r.Ingest(valid)

	assert.Equal(t, []string{
		"device first seen",
		"device tracking lost",
		"device tracking reacquired",
	}, log.info)
}

func TestRegistry_SetLoggerNil(t *testing.T) {
	r := NewRegistry()
	r.SetLogger(nil)
	r.Ingest([]Entry{validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone)})
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_Stats(t *testing.T) {
	r := NewRegistry()
	r.Ingest([]Entry{
		validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone),
		validEntry(1, pose.IdentityMatrix(), hardware.ClassTrackingReference, hardware.RoleNone),
		validEntry(2, pose.IdentityMatrix(), hardware.ClassTrackingReference, hardware.RoleNone),
		invalidEntry(3, hardware.ClassController),
	})
	r.Ingest([]Entry{
		validEntry(0, pose.IdentityMatrix(), hardware.ClassHMD, hardware.RoleNone),
		invalidEntry(1, hardware.ClassTrackingReference),
		validEntry(2, pose.IdentityMatrix(), hardware.ClassTrackingReference, hardware.RoleNone),
		invalidEntry(3, hardware.ClassController),
	})

	stats := r.Stats()
	assert.Equal(t, 4, stats.TotalDevices)
	assert.Equal(t, 2, stats.TrackedDevices)
	assert.Equal(t, 3, stats.SeenDevices)
	assert.Equal(t, 1, stats.ByClass[ClassHMD])
	assert.Equal(t, 2, stats.ByClass[ClassSensor])
	assert.Equal(t, 1, stats.ByClass[ClassOther])
}

func TestEntriesFromPoll(t *testing.T) {
	poses := make([]hardware.Pose, 3)
	poses[2] = hardware.Pose{Valid: true, Class: hardware.ClassHMD}

	entries := EntriesFromPoll(poses)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i, e.Slot)
	}
	assert.True(t, entries[2].Valid)
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := NewRegistry()
	poses := make([]hardware.Pose, 16)
	for i := range poses {
		poses[i] = hardware.Pose{Valid: i%2 == 0, Matrix: pose.IdentityMatrix(), Class: hardware.ClassGenericTracker}
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := r.Snapshot(FilterSeen)
				for k := 1; k < len(snap); k++ {
					if snap[k-1].ID >= snap[k].ID {
						t.Errorf("snapshot out of order: %d before %d", snap[k-1].ID, snap[k].ID)
						return
					}
				}
				_ = r.Stats()
			}
		}()
	}

	for j := 0; j < 100; j++ {
		r.Ingest(EntriesFromPoll(poses))
	}
	wg.Wait()

	assert.Equal(t, 16, r.Count())
}

func BenchmarkRegistry_Ingest(b *testing.B) {
	r := NewRegistry()
	poses := make([]hardware.Pose, hardware.DefaultSlots)
	for i := 0; i < 8; i++ {
		poses[i] = hardware.Pose{
			Valid:  true,
			Matrix: pose.RotationY(float64(i), pose.Point3{X: float64(i)}),
			Class:  hardware.ClassGenericTracker,
		}
	}
	entries := EntriesFromPoll(poses)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Ingest(entries)
	}
}

func BenchmarkRegistry_Snapshot(b *testing.B) {
	r := NewRegistry()
	entries := make([]Entry, 0, hardware.DefaultSlots)
	for i := 0; i < hardware.DefaultSlots; i++ {
		entries = append(entries, validEntry(i, pose.IdentityMatrix(), hardware.ClassGenericTracker, hardware.RoleNone))
	}
	r.Ingest(entries)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Snapshot(FilterSeen)
	}
}

func ExampleRegistry_Snapshot() {
	r := NewRegistry()
	r.Ingest([]Entry{
		{Slot: 1, Pose: hardware.Pose{Valid: false, Class: hardware.ClassController}},
		{Slot: 0, Pose: hardware.Pose{Valid: true, Matrix: pose.IdentityMatrix(), Class: hardware.ClassHMD}},
	})

	for _, d := range r.Snapshot(FilterSeen) {
		fmt.Println(d.ID, d.Class, d.Tracked)
	}
	// Output: 0 HMD true
}
