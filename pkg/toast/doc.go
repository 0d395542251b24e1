// Package toast manages the transient overlay surface for urgent
// notifications.
//
// A notification is offered a toast when it is high or critical priority
// (or explicitly requires action) and still fresh; everything else is left
// to the bell and history surfaces. Active toasts are keyed by notification
// ID and the map is idempotent; re-offering a showing ID does nothing.
//
// Non-persistent toasts auto-dismiss after a configurable duration
// (6 seconds by default). Persistent toasts stay until dismissed or
// acknowledged. Dismissal stops the timer and is terminal for that toast
// instance.
//
// The clock and timer constructor are injectable so tests can advance
// auto-hide countdowns deterministically.
package toast
