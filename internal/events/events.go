// Package events provides event publishing for item lifecycle events.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream for item events.
const StreamName = "item-events"

// EventType represents the type of item event.
type EventType string

const (
	// ItemCreated indicates a new item was created.
	ItemCreated EventType = "ITEM_CREATED"
	// ItemUpdated indicates an existing item was modified.
	ItemUpdated EventType = "ITEM_UPDATED"
	// ItemDeleted indicates an item was deleted.
	ItemDeleted EventType = "ITEM_DELETED"
)

// ItemEvent is the envelope for all item lifecycle events.
type ItemEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewItemEvent builds an event with a fresh id and UTC timestamp.
func NewItemEvent(eventType EventType, itemID string, payload any) ItemEvent {
	return ItemEvent{
		EventID:   uuid.New(),
		EventType: eventType,
		ItemID:    itemID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
