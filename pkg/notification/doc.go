// Package notification defines the notification record and the state
// container that holds the canonical notification list.
//
// # Record
//
// A Notification carries an immutable identity (ID, type, priority,
// category, title, message, creation time) and a mutable read state.
// Producers supply an Input; the subsystem assigns the ID and timestamps.
//
// # Store
//
// Store keeps the list most-recent-first together with a derived unread
// counter. The two are updated atomically under one lock, so the counter
// always equals the number of unread entries no matter how operations are
// interleaved:
//
//	store := notification.NewStore()
//	_ = store.Add(n)
//	store.MarkRead(n.ID)
//	count := store.UnreadCount()
//
// SetAll replaces the list wholesale and recomputes the counter; it is the
// resync path after a refresh from the backing API.
//
// # Views
//
// List applies a Filter (type, priority, category, read state, free-text
// search, date range) and paginates the result. Views are pure reads; they
// never mutate the store.
package notification
