package project

import "time"

// EventType identifies a project lifecycle event.
type EventType string

const (
	EventCreated EventType = "project_created"
	EventUpdated EventType = "project_updated"
	EventDeleted EventType = "project_deleted"
)

// Event carries the full project state after a committed change.
type Event struct {
	Type       EventType `cbor:"1,keyasint"`
	Owner      string    `cbor:"2,keyasint"`
	Project    Project   `cbor:"3,keyasint"`
	OccurredAt time.Time `cbor:"4,keyasint"`
}
