package hardware

import (
	"fmt"
	"strings"

	"github.com/nerrad567/trackcast/internal/pose"
)

// DefaultSlots is the fixed number of device slots the runtime reports.
const DefaultSlots = 64

// DeviceClass is the runtime's raw device category.
type DeviceClass int

const (
	ClassInvalid DeviceClass = iota
	ClassHMD
	ClassController
	ClassGenericTracker
	ClassTrackingReference
	ClassDisplayRedirect
)

var deviceClassNames = map[DeviceClass]string{
	ClassInvalid:           "invalid",
	ClassHMD:               "hmd",
	ClassController:        "controller",
	ClassGenericTracker:    "generic_tracker",
	ClassTrackingReference: "tracking_reference",
	ClassDisplayRedirect:   "display_redirect",
}

// String returns the lower-case name used in recordings.
func (c DeviceClass) String() string {
	if name, ok := deviceClassNames[c]; ok {
		return name
	}
	return fmt.Sprintf("device_class(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c DeviceClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *DeviceClass) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for class, name := range deviceClassNames {
		if name == s {
			*c = class
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownDeviceClass, s)
}

// ControllerRole is the hand assignment the runtime gives a controller.
// RoleNone means the runtime did not report a role.
type ControllerRole int

const (
	RoleNone ControllerRole = iota
	RoleLeftHand
	RoleRightHand
	RoleOptOut
	RoleTreadmill
	RoleStylus
)

var controllerRoleNames = map[ControllerRole]string{
	RoleNone:      "none",
	RoleLeftHand:  "left_hand",
	RoleRightHand: "right_hand",
	RoleOptOut:    "opt_out",
	RoleTreadmill: "treadmill",
	RoleStylus:    "stylus",
}

// String returns the lower-case name used in recordings.
func (r ControllerRole) String() string {
	if name, ok := controllerRoleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("controller_role(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r ControllerRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// An empty string decodes to RoleNone.
func (r *ControllerRole) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*r = RoleNone
		return nil
	}
	for role, name := range controllerRoleNames {
		if name == s {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownControllerRole, s)
}

// Pose is one raw entry of a poll. Its slot is its index in the poll result.
type Pose struct {
	Valid  bool
	Matrix pose.Matrix34
	Class  DeviceClass
	Role   ControllerRole
}
