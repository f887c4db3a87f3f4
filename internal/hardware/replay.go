package hardware

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/trackcast/internal/pose"
)

// Recording is the on-disk format of a replay file.
//
//	frames:
//	  - devices:
//	      - slot: 0
//	        valid: true
//	        class: hmd
//	        matrix:
//	          - [1, 0, 0, 0]
//	          - [0, 1, 0, 1.7]
//	          - [0, 0, 1, 0]
//	      - slot: 3
//	        valid: true
//	        class: controller
//	        role: left_hand
//	        matrix: [[1, 0, 0, -0.3], [0, 1, 0, 1.1], [0, 0, 1, 0.2]]
type Recording struct {
	Frames []RecordedFrame `yaml:"frames"`
}

// RecordedFrame lists the devices present in one poll. Slots not listed
// are reported as invalid.
type RecordedFrame struct {
	Devices []RecordedDevice `yaml:"devices"`
}

// RecordedDevice is one slot of a recorded frame.
type RecordedDevice struct {
	Slot   int            `yaml:"slot"`
	Valid  bool           `yaml:"valid"`
	Class  DeviceClass    `yaml:"class"`
	Role   ControllerRole `yaml:"role,omitempty"`
	Matrix [][]float64    `yaml:"matrix"`
}

// Replay plays back a Recording, one frame per poll, looping at the end.
type Replay struct {
	path  string
	slots int

	mu     sync.Mutex
	frames [][]Pose
	next   int
	open   bool
}

// NewReplay creates a replay source for the YAML recording at path.
// The file is read on Open.
func NewReplay(path string, slots int) *Replay {
	if slots <= 0 {
		slots = DefaultSlots
	}
	return &Replay{path: path, slots: slots}
}

// Open loads and validates the recording.
func (r *Replay) Open(_ context.Context) error {
	if r.path == "" {
		return fmt.Errorf("%w: no replay file configured", ErrInvalidRecording)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("reading replay file: %w", err)
	}

	frames, err := ParseRecording(data, r.slots)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.frames = frames
	r.next = 0
	r.open = true
	r.mu.Unlock()
	return nil
}

// Poll returns the next recorded frame.
func (r *Replay) Poll(ctx context.Context) ([]Pose, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return nil, ErrNotOpen
	}

	frame := r.frames[r.next]
	r.next = (r.next + 1) % len(r.frames)

	out := make([]Pose, len(frame))
	copy(out, frame)
	return out, nil
}

// Close releases the loaded frames.
func (r *Replay) Close() error {
	r.mu.Lock()
	r.frames = nil
	r.open = false
	r.mu.Unlock()
	return nil
}

// ParseRecording decodes a YAML recording into fixed-length pose arrays.
func ParseRecording(data []byte, slots int) ([][]Pose, error) {
	var rec Recording
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecording, err)
	}
	if len(rec.Frames) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrInvalidRecording)
	}

	frames := make([][]Pose, len(rec.Frames))
	for i, f := range rec.Frames {
		poses := make([]Pose, slots)
		for _, d := range f.Devices {
			if d.Slot < 0 || d.Slot >= slots {
				return nil, fmt.Errorf("%w: frame %d: slot %d outside 0..%d", ErrInvalidRecording, i, d.Slot, slots-1)
			}
			m, err := toMatrix(d.Matrix)
			if err != nil {
				return nil, fmt.Errorf("%w: frame %d slot %d: %w", ErrInvalidRecording, i, d.Slot, err)
			}
			poses[d.Slot] = Pose{
				Valid:  d.Valid,
				Matrix: m,
				Class:  d.Class,
				Role:   d.Role,
			}
		}
		frames[i] = poses
	}
	return frames, nil
}

// toMatrix converts a decoded [][]float64 into a Matrix34.
// A missing matrix decodes to the identity.
func toMatrix(rows [][]float64) (pose.Matrix34, error) {
	if len(rows) == 0 {
		return pose.IdentityMatrix(), nil
	}
	if len(rows) != 3 {
		return pose.Matrix34{}, fmt.Errorf("matrix has %d rows, want 3", len(rows))
	}

	var m pose.Matrix34
	for i, row := range rows {
		if len(row) != 4 {
			return pose.Matrix34{}, fmt.Errorf("matrix row %d has %d columns, want 4", i, len(row))
		}
		copy(m[i][:], row)
	}
	return m, nil
}
