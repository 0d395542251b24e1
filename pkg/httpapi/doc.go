// Package httpapi exposes the notification center to the dashboard shell
// over HTTP.
//
// The router serves three kinds of surfaces:
//
//   - Read views: GET /bell (badge plus recent items), GET /notifications
//     (filtered, paginated history) and GET /unread-count. These are pure
//     projections of the in-memory store; a request never triggers a fetch.
//   - Mutations: mark read/unread, acknowledge, dismiss, mark-all-read and
//     clear-read. They apply to the local store synchronously and return
//     202 Accepted while the remote sync proceeds in the background.
//   - GET /stream: a datastar SSE connection that pushes the unread count
//     and the latest lifecycle event as signal patches whenever the bus
//     emits.
//
// Usage:
//
//	h := httpapi.New(ctr,
//		httpapi.WithPreferences(prefs),
//		httpapi.WithLogger(log),
//	)
//	r := chi.NewRouter()
//	r.Mount("/api/notifications", h.Router())
package httpapi
