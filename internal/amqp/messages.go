package amqp

import (
	"encoding/json"
	"time"
)

// EventKind names a change to a draft.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventAppended EventKind = "appended"
	EventUpdated  EventKind = "updated"
	EventRemoved  EventKind = "removed"
	EventClosed   EventKind = "closed"
)

// DraftEvent describes one successful change to a draft. It carries the
// shape of the collection, not the entry contents.
type DraftEvent struct {
	DraftID   string    `json:"draft_id"`
	Kind      EventKind `json:"kind"`
	Index     int       `json:"index"`
	Field     string    `json:"field,omitempty"`
	Entries   int       `json:"entries"`
	CanAppend bool      `json:"can_append"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDraftEvent creates an event stamped with the current time. Index is -1
// for events that do not target a single entry.
func NewDraftEvent(draftID string, kind EventKind, index int, field string, entries int, canAppend bool) *DraftEvent {
	return &DraftEvent{
		DraftID:   draftID,
		Kind:      kind,
		Index:     index,
		Field:     field,
		Entries:   entries,
		CanAppend: canAppend,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DraftEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DraftEventFromJSON creates a message from JSON bytes
func DraftEventFromJSON(data []byte) (*DraftEvent, error) {
	var msg DraftEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
