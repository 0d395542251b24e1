package apiclient

import (
	"errors"
	"fmt"
)

// ErrMissingBaseURL is returned by New when no API base URL is provided.
var ErrMissingBaseURL = errors.New("apiclient: missing base URL")

// StatusError reports a non-2xx response from the platform API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

func asStatusError(err error, target **StatusError) bool {
	return errors.As(err, target)
}
