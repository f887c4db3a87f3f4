package multicast

import "errors"

// Domain-specific errors for multicast operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidAddress is returned when the destination is not a parseable "ip:port".
	ErrInvalidAddress = errors.New("multicast: invalid address")

	// ErrNotMulticast is returned when the destination is not an IPv4 multicast group.
	ErrNotMulticast = errors.New("multicast: address is not an IPv4 multicast group")

	// ErrSetupFailed is returned when binding, configuring or joining the socket fails.
	ErrSetupFailed = errors.New("multicast: socket setup failed")

	// ErrPayloadTooLarge is returned when a payload does not fit in one datagram.
	ErrPayloadTooLarge = errors.New("multicast: payload exceeds datagram limit")

	// ErrSendFailed is returned when a datagram could not be sent.
	ErrSendFailed = errors.New("multicast: send failed")

	// ErrClosed is returned when using a closed publisher.
	ErrClosed = errors.New("multicast: publisher closed")
)
