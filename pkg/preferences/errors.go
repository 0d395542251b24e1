package preferences

import "errors"

var (
	// ErrUnknownChannel is returned for a channel name outside the known set.
	ErrUnknownChannel = errors.New("preferences: unknown channel")

	// ErrNoSaveFunc is returned by Save when no persistence callback is configured.
	ErrNoSaveFunc = errors.New("preferences: no save callback configured")
)
