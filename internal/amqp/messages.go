package amqp

import (
	"encoding/json"
	"time"
)

// Entity names carried by events.
const (
	EntityGroup   = "grupo"
	EntityUser    = "usuario"
	EntityExpense = "despesa"
)

// Actions carried by events.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionMemberAdded   = "member_added"
	ActionMemberRemoved = "member_removed"
)

// EntityEvent is a lightweight change notification. It carries only ids;
// consumers fetch current state from the store when they need it.
type EntityEvent struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	GroupID   string    `json:"grupo_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntityEvent creates an event stamped with the current time.
func NewEntityEvent(entity, action, id, groupID string) *EntityEvent {
	return &EntityEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		GroupID:   groupID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *EntityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntityEventFromJSON creates an event from JSON bytes
func EntityEventFromJSON(data []byte) (*EntityEvent, error) {
	var event EntityEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
