package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a slot has never been observed.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrInvalidClass is returned when a class name or value is not recognised.
	ErrInvalidClass = errors.New("device: invalid class")

	// ErrInvalidPolicy is returned when a missing-slot policy is not recognised.
	ErrInvalidPolicy = errors.New("device: invalid missing-slot policy")
)
