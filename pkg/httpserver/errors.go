package httpserver

import "errors"

var (
	// ErrServe indicates that the listener failed while serving.
	ErrServe = errors.New("http server failed")
	// ErrShutdown indicates that graceful shutdown did not complete in time.
	ErrShutdown = errors.New("http server shutdown failed")
	// ErrAlreadyRunning is returned by Run when the server is already started.
	ErrAlreadyRunning = errors.New("http server already running")
)
