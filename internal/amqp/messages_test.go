package amqp

import (
	"testing"
	"time"
)

func TestNewEntityEvent(t *testing.T) {
	before := time.Now()
	event := NewEntityEvent(EntityExpense, ActionCreated, "abc123", "grp456")

	if event.Entity != EntityExpense {
		t.Errorf("Entity = %q, want %q", event.Entity, EntityExpense)
	}
	if event.Action != ActionCreated {
		t.Errorf("Action = %q, want %q", event.Action, ActionCreated)
	}
	if event.ID != "abc123" {
		t.Errorf("ID = %q, want abc123", event.ID)
	}
	if event.GroupID != "grp456" {
		t.Errorf("GroupID = %q, want grp456", event.GroupID)
	}
	if event.Timestamp.Before(before) {
		t.Error("Timestamp should not be before event creation")
	}
}

func TestEntityEventFromJSON_Invalid(t *testing.T) {
	if _, err := EntityEventFromJSON([]byte("not json")); err == nil {
		t.Error("EntityEventFromJSON should fail on malformed input")
	}
}
