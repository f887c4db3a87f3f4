package snapshot

import "errors"

var (
	// ErrNonFinite is returned when a device carries a NaN or infinite value.
	ErrNonFinite = errors.New("snapshot: non-finite value")

	// ErrDecode is returned when a payload is not a valid snapshot.
	ErrDecode = errors.New("snapshot: decode failed")
)
