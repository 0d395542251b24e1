package center

import "errors"

// ErrNoRemote is returned by Refresh and Run when no platform API client is
// configured.
var ErrNoRemote = errors.New("center: no remote API configured")
