// Package apiclient contains the REST bindings for the platform's
// notification endpoints.
//
// Only the calls the notification subsystem actually makes are bound: the
// list endpoint that backs the periodic resync, and the read/unread/delete
// mutations the center issues optimistically after applying local state.
// List retries transient failures with exponential backoff; mutations are
// single-shot because their callers treat failures as best-effort.
package apiclient
