package notification

import (
	"fmt"
	"time"
)

// Type represents the notification type/severity. It drives icon and color
// selection in every delivery surface.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// IsValid checks if the notification type is valid.
func (t Type) IsValid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// Priority represents the notification priority level. It determines whether
// a toast is raised and whether dismissal requires acknowledgment.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid checks if the priority is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Notification is the core domain model for a user-facing event record.
// ID, Type, Priority, Category, Title, Message and CreatedAt are immutable
// after creation; only the read state changes over the record's lifetime.
type Notification struct {
	ID             string         `json:"id"`
	Type           Type           `json:"type"`
	Priority       Priority       `json:"priority"`
	Category       string         `json:"category"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Read           bool           `json:"isRead"`
	ReadAt         *time.Time     `json:"readAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	Persistent     bool           `json:"persistent"`
	ActionRequired bool           `json:"actionRequired"`
	ActionURL      string         `json:"actionUrl,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Changes        map[string]any `json:"changes,omitempty"`
}

// MarkRead marks the notification as read with the given timestamp.
// Calling it on an already-read notification has no effect.
func (n *Notification) MarkRead(at time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &at
}

// MarkUnread reverts the notification to unread and clears the read timestamp.
func (n *Notification) MarkUnread() {
	n.Read = false
	n.ReadAt = nil
}

// Age returns how long ago the notification was created relative to now.
func (n *Notification) Age(now time.Time) time.Duration {
	return now.Sub(n.CreatedAt)
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return ErrMissingID
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	if !n.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, n.Priority)
	}
	if n.Title == "" {
		return ErrMissingTitle
	}
	if n.CreatedAt.IsZero() {
		return ErrMissingCreatedAt
	}
	if n.Read && n.ReadAt == nil {
		return ErrMissingReadAt
	}
	return nil
}

// ParseType parses a string into a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// ParsePriority parses a string into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}
