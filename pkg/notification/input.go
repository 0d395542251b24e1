package notification

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Input carries the producer-supplied fields of a notification. The subsystem
// assigns ID, creation timestamp and initial read state when the record is
// constructed.
type Input struct {
	Type           Type           `json:"type" validate:"required,oneof=success error warning info"`
	Priority       Priority       `json:"priority" validate:"required,oneof=low medium high critical"`
	Category       string         `json:"category" validate:"max=128"`
	Title          string         `json:"title" validate:"required,max=255"`
	Message        string         `json:"message" validate:"max=4096"`
	Persistent     bool           `json:"persistent"`
	ActionRequired bool           `json:"actionRequired"`
	ActionURL      string         `json:"actionUrl,omitempty" validate:"omitempty,uri"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Changes        map[string]any `json:"changes,omitempty"`
}

// validate is shared across all Input validations. The validator instance
// caches struct metadata, so a single one is cheaper than per-call creation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the input against its struct constraints.
func (in Input) Validate() error {
	return validate.Struct(in)
}

// Build constructs a full notification record from the input.
// The record starts unread.
func (in Input) Build(id string, createdAt time.Time) Notification {
	return Notification{
		ID:             id,
		Type:           in.Type,
		Priority:       in.Priority,
		Category:       in.Category,
		Title:          in.Title,
		Message:        in.Message,
		CreatedAt:      createdAt,
		Persistent:     in.Persistent,
		ActionRequired: in.ActionRequired,
		ActionURL:      in.ActionURL,
		Metadata:       in.Metadata,
		Changes:        in.Changes,
	}
}
