package notification

import (
	"sync"
	"time"
)

// Store is the canonical state container for the notification list and its
// derived unread count. The list is kept most-recent-first; every operation
// is a single atomic transition under the store lock, so no caller can
// observe a state where the list and the counter disagree.
type Store struct {
	mu     sync.RWMutex
	items  []Notification
	unread int
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNow overrides the clock used for read timestamps. Intended for tests.
func WithNow(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty notification store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts the notification at the head of the list and bumps the unread
// count if the record is unread. Inserting an ID that is already present is
// rejected with ErrDuplicateID; a double Add must not double-count unread.
func (s *Store) Add(n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(n.ID) >= 0 {
		return ErrDuplicateID
	}

	s.items = append([]Notification{n}, s.items...)
	if !n.Read {
		s.unread++
	}
	return nil
}

// Remove deletes the notification with the given ID. Removing an unknown ID
// is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	if !s.items[i].Read {
		s.unread--
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
}

// MarkRead marks the notification as read and stamps its read timestamp.
// Idempotent: marking an already-read notification leaves the counter alone.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || s.items[i].Read {
		return
	}
	s.items[i].MarkRead(s.now())
	s.unread--
}

// MarkUnread reverts the notification to unread and clears its read
// timestamp. Idempotent on already-unread notifications.
func (s *Store) MarkUnread(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || !s.items[i].Read {
		return
	}
	s.items[i].MarkUnread()
	s.unread++
}

// MarkAllRead marks every unread notification as read and resets the unread
// count to zero. Returns the number of notifications that changed state.
func (s *Store) MarkAllRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now()
	changed := 0
	for i := range s.items {
		if !s.items[i].Read {
			s.items[i].MarkRead(at)
			changed++
		}
	}
	s.unread = 0
	return changed
}

// ClearRead removes every read notification. Unread entries, and therefore
// the unread count, are untouched. Returns the number of removed entries.
func (s *Store) ClearRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	removed := 0
	for _, n := range s.items {
		if n.Read {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	s.items = kept
	return removed
}

// SetAll replaces the list wholesale and recomputes the unread count from
// scratch. This is the authoritative resync path after a refresh from the
// server and is tolerant of server/client drift. The incoming order is
// preserved; callers are expected to supply most-recent-first data.
func (s *Store) SetAll(list []Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]Notification, len(list))
	copy(s.items, list)
	s.unread = 0
	for _, n := range s.items {
		if !n.Read {
			s.unread++
		}
	}
}

// Get returns a copy of the notification with the given ID.
func (s *Store) Get(id string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Notification{}, false
	}
	return s.items[i], true
}

// All returns a copy of the full list, most-recent-first.
func (s *Store) All() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Recent returns up to limit of the most recent notifications.
func (s *Store) Recent(limit int) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.items) {
		limit = len(s.items)
	}
	out := make([]Notification, limit)
	copy(out, s.items[:limit])
	return out
}

// Len returns the number of notifications in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// indexOf returns the position of the notification with the given ID, or -1.
// Callers must hold the store lock.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
