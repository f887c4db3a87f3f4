package hardware

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nerrad567/trackcast/internal/pose"
)

// Simulated slot layout.
const (
	simSlotHMD = iota
	simSlotBaseA
	simSlotBaseB
	simSlotLeft
	simSlotRight
	simSlotTracker
)

// SimulatedConfig configures the synthetic tracking runtime.
type SimulatedConfig struct {
	// Slots is the fixed length of every poll result. Default: DefaultSlots.
	Slots int

	// DropoutPeriod is how often the right controller loses tracking.
	// Default: 10s. Negative disables dropouts.
	DropoutPeriod time.Duration

	// DropoutLength is how long each dropout lasts. Default: 1s.
	DropoutLength time.Duration

	// Now returns the current time. Default: time.Now.
	Now func() time.Time
}

// Simulated is a deterministic stand-in for a real tracking runtime.
//
// Slot 0 is an HMD bobbing at standing height, slots 1-2 are fixed base
// stations, slots 3-4 are left/right controllers orbiting the HMD, slot 5 is
// a generic tracker, and the remaining slots are empty.
type Simulated struct {
	cfg   SimulatedConfig
	mu    sync.Mutex
	start time.Time
	open  bool
}

// NewSimulated creates a simulated source.
func NewSimulated(cfg SimulatedConfig) *Simulated {
	if cfg.Slots <= 0 {
		cfg.Slots = DefaultSlots
	}
	if cfg.DropoutPeriod == 0 {
		cfg.DropoutPeriod = 10 * time.Second
	}
	if cfg.DropoutLength <= 0 {
		cfg.DropoutLength = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Simulated{cfg: cfg}
}

// Open starts the simulation clock.
func (s *Simulated) Open(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = s.cfg.Now()
	s.open = true
	return nil
}

// Poll returns the synthetic poses at the current simulation time.
func (s *Simulated) Poll(ctx context.Context) ([]Pose, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrNotOpen
	}

	elapsed := s.cfg.Now().Sub(s.start)
	return s.frame(elapsed), nil
}

// Close stops the simulation.
func (s *Simulated) Close() error {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	return nil
}

// frame builds the pose array for the given elapsed time.
func (s *Simulated) frame(elapsed time.Duration) []Pose {
	poses := make([]Pose, s.cfg.Slots)
	t := elapsed.Seconds()

	set := func(slot int, p Pose) {
		if slot < len(poses) {
			poses[slot] = p
		}
	}

	head := pose.Point3{X: 0.2 * math.Sin(t*0.5), Y: 1.7 + 0.03*math.Sin(t*2), Z: 0.2 * math.Cos(t*0.5)}
	set(simSlotHMD, Pose{
		Valid:  true,
		Matrix: pose.RotationY(0.4*math.Sin(t*0.3), head),
		Class:  ClassHMD,
	})

	set(simSlotBaseA, Pose{
		Valid:  true,
		Matrix: pose.RotationY(math.Pi/4, pose.Point3{X: -2, Y: 2.2, Z: -2}),
		Class:  ClassTrackingReference,
	})
	set(simSlotBaseB, Pose{
		Valid:  true,
		Matrix: pose.RotationY(-3*math.Pi/4, pose.Point3{X: 2, Y: 2.2, Z: 2}),
		Class:  ClassTrackingReference,
	})

	orbit := func(phase float64) pose.Point3 {
		return pose.Point3{
			X: head.X + 0.4*math.Cos(t+phase),
			Y: 1.1 + 0.1*math.Sin(t*1.5+phase),
			Z: head.Z + 0.4*math.Sin(t+phase),
		}
	}
	set(simSlotLeft, Pose{
		Valid:  true,
		Matrix: pose.RotationY(t, orbit(0)),
		Class:  ClassController,
		Role:   RoleLeftHand,
	})
	set(simSlotRight, Pose{
		Valid:  !s.droppedOut(elapsed),
		Matrix: pose.RotationY(-t, orbit(math.Pi)),
		Class:  ClassController,
		Role:   RoleRightHand,
	})

	set(simSlotTracker, Pose{
		Valid:  true,
		Matrix: pose.RotationY(0, pose.Point3{X: head.X, Y: 1.0, Z: head.Z}),
		Class:  ClassGenericTracker,
	})

	return poses
}

// droppedOut reports whether the right controller is in a tracking dropout.
func (s *Simulated) droppedOut(elapsed time.Duration) bool {
	if s.cfg.DropoutPeriod < 0 {
		return false
	}
	return elapsed%s.cfg.DropoutPeriod >= s.cfg.DropoutPeriod-s.cfg.DropoutLength
}
