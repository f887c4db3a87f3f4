package tracker

import "errors"

var (
	// ErrMissingSource is returned by New when Options.Source is nil.
	ErrMissingSource = errors.New("tracker: source is required")

	// ErrMissingRegistry is returned by New when Options.Registry is nil.
	ErrMissingRegistry = errors.New("tracker: registry is required")

	// ErrMissingPublisher is returned by New when Options.Publisher is nil.
	ErrMissingPublisher = errors.New("tracker: publisher is required")

	// ErrPollFailed wraps a hardware poll error. It ends Run.
	ErrPollFailed = errors.New("tracker: poll failed")

	// ErrAlreadyRunning is returned when Run is called on a running loop.
	ErrAlreadyRunning = errors.New("tracker: loop already running")
)
