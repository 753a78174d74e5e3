// Package events publishes user change events to a Redis stream.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names a user change.
type Type string

// Event types.
const (
	TypeCreated  Type = "user.created"
	TypeUpdated  Type = "user.updated"
	TypeReplaced Type = "user.replaced"
	TypeDeleted  Type = "user.deleted"
)

// Valid reports whether t is a known event type.
func (t Type) Valid() bool {
	switch t {
	case TypeCreated, TypeUpdated, TypeReplaced, TypeDeleted:
		return true
	}
	return false
}

// Event is the compact stream payload for one user change.
type Event struct {
	Type       Type   `json:"type"`
	UserID     string `json:"uid"`
	OccurredAt int64  `json:"t"` // Unix milliseconds
}

// New builds an event for the user id at the given instant.
func New(t Type, userID uuid.UUID, at time.Time) Event {
	return Event{
		Type:       t,
		UserID:     userID.String(),
		OccurredAt: at.UnixMilli(),
	}
}

// Validate checks the event fields before it is written to the stream.
func Validate(e Event) error {
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.UserID == "" {
		return fmt.Errorf("uid is required")
	}
	if _, err := uuid.Parse(e.UserID); err != nil {
		return fmt.Errorf("uid must be a UUID: %w", err)
	}
	if e.OccurredAt <= 0 {
		return fmt.Errorf("t must be set")
	}
	return nil
}
