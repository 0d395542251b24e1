// Package preferences holds the session-local, per-category channel toggles
// shown on the notification preferences surface.
//
// The toggles round-trip through a caller-supplied save callback whose
// destination is the platform API. They are intentionally not consulted by
// the local delivery path: channel enforcement happens server-side, and the
// client surface only collects the configuration.
//
// Seed settings can be loaded from a YAML defaults file via ParseDefaults.
package preferences
