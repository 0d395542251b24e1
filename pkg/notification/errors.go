package notification

import "errors"

var (
	// ErrMissingID is returned when a notification has no ID.
	ErrMissingID = errors.New("notification: missing ID")

	// ErrInvalidType is returned for an unknown notification type.
	ErrInvalidType = errors.New("notification: invalid type")

	// ErrInvalidPriority is returned for an unknown priority level.
	ErrInvalidPriority = errors.New("notification: invalid priority")

	// ErrMissingTitle is returned when a notification has no title.
	ErrMissingTitle = errors.New("notification: missing title")

	// ErrMissingCreatedAt is returned when a notification has no creation timestamp.
	ErrMissingCreatedAt = errors.New("notification: missing creation timestamp")

	// ErrMissingReadAt is returned when a read notification has no read timestamp.
	ErrMissingReadAt = errors.New("notification: read without read timestamp")

	// ErrDuplicateID is returned by Store.Add when the ID is already present.
	ErrDuplicateID = errors.New("notification: duplicate ID")

	// ErrNotFound is returned when a notification is not in the store.
	ErrNotFound = errors.New("notification: not found")
)
