package hardware

import "errors"

// Sentinel errors for the hardware boundary.
var (
	// ErrSessionClosed is returned when polling a closed session.
	ErrSessionClosed = errors.New("hardware: session closed")

	// ErrNotOpen is returned when polling a source that was never opened.
	ErrNotOpen = errors.New("hardware: source not open")

	// ErrUnknownSource is returned for an unrecognised source type.
	ErrUnknownSource = errors.New("hardware: unknown source type")

	// ErrUnknownDeviceClass is returned when decoding an unknown class name.
	ErrUnknownDeviceClass = errors.New("hardware: unknown device class")

	// ErrUnknownControllerRole is returned when decoding an unknown role name.
	ErrUnknownControllerRole = errors.New("hardware: unknown controller role")

	// ErrInvalidRecording is returned when a replay file is malformed.
	ErrInvalidRecording = errors.New("hardware: invalid recording")
)
