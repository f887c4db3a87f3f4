package device

import (
	"fmt"

	"github.com/nerrad567/trackcast/internal/pose"
)

// Class is the simplified device category published to listeners.
type Class int

// Class values. The zero value is Other, the pre-observation default.
const (
	ClassOther Class = iota
	ClassController
	ClassLeftController
	ClassRightController
	ClassTracker
	ClassHMD
	ClassSensor
)

var classNames = map[Class]string{
	ClassOther:           "Other",
	ClassController:      "Controller",
	ClassLeftController:  "LeftController",
	ClassRightController: "RightController",
	ClassTracker:         "Tracker",
	ClassHMD:             "HMD",
	ClassSensor:          "Sensor",
}

// AllClasses returns every category in declaration order.
func AllClasses() []Class {
	return []Class{
		ClassOther,
		ClassController,
		ClassLeftController,
		ClassRightController,
		ClassTracker,
		ClassHMD,
		ClassSensor,
	}
}

// String returns the wire name of the class.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	name, ok := classNames[c]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClass, int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are case-sensitive.
func (c *Class) UnmarshalText(text []byte) error {
	s := string(text)
	for class, name := range classNames {
		if name == s {
			*c = class
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidClass, s)
}

// Device is the registry's record for one hardware slot.
//
// Position and Rotation reflect the last valid pose; while Tracked is false
// they are stale.
type Device struct {
	ID       int             `json:"id"`
	Tracked  bool            `json:"tracked"`
	Seen     bool            `json:"seen"`
	Position pose.Point3     `json:"position"`
	Rotation pose.Quaternion `json:"rotation"`
	Class    Class           `json:"class"`
}

// newDevice returns a device with pre-observation defaults.
func newDevice(id int) *Device {
	return &Device{
		ID:       id,
		Rotation: pose.Identity(),
		Class:    ClassOther,
	}
}

// Filter selects which devices a snapshot includes.
type Filter int

const (
	// FilterAll includes every device the registry knows about.
	FilterAll Filter = iota

	// FilterSeen includes only devices that have been tracked at least once.
	FilterSeen
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterSeen:
		return "seen"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

// MissingSlotPolicy decides what Ingest does with a known device whose slot
// is absent from the batch.
type MissingSlotPolicy int

const (
	// MissingSlotUntracked marks absent devices as untracked this cycle.
	MissingSlotUntracked MissingSlotPolicy = iota

	// MissingSlotUnchanged leaves absent devices exactly as they were.
	MissingSlotUnchanged
)

// ParseMissingSlotPolicy converts a config value ("untracked" or
// "unchanged") into a policy.
func ParseMissingSlotPolicy(s string) (MissingSlotPolicy, error) {
	switch s {
	case "", "untracked":
		return MissingSlotUntracked, nil
	case "unchanged":
		return MissingSlotUnchanged, nil
	default:
		return MissingSlotUntracked, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Stats holds registry statistics.
type Stats struct {
	TotalDevices   int           `json:"total_devices"`
	TrackedDevices int           `json:"tracked_devices"`
	SeenDevices    int           `json:"seen_devices"`
	ByClass        map[Class]int `json:"by_class"`
}
