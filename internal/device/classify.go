package device

import "github.com/nerrad567/trackcast/internal/hardware"

// Classify maps a raw hardware class and controller role to a Class.
//
// Only controllers look at the role; left and right hands get their own
// category and every other role collapses to ClassController.
func Classify(class hardware.DeviceClass, role hardware.ControllerRole) Class {
	switch class {
	case hardware.ClassHMD:
		return ClassHMD
	case hardware.ClassController:
		switch role {
		case hardware.RoleLeftHand:
			return ClassLeftController
		case hardware.RoleRightHand:
			return ClassRightController
		default:
			return ClassController
		}
	case hardware.ClassGenericTracker:
		return ClassTracker
	case hardware.ClassTrackingReference:
		return ClassSensor
	default:
		return ClassOther
	}
}
