package models

import (
	"time"
)

// Event is a recorded occurrence of a declared event type
type Event struct {
	ID               string     `json:"id" db:"id"`
	Namespace        string     `json:"namespace" db:"namespace"`
	Name             string     `json:"name" db:"name"`
	ActorID          string     `json:"actor_id" db:"actor_id"`
	TargetType       ObjectType `json:"target_type" db:"target_type"`
	TargetID         string     `json:"target_id" db:"target_id"`
	ActionObjectType *string    `json:"action_object_type,omitempty" db:"action_object_type"`
	ActionObjectID   *string    `json:"action_object_id,omitempty" db:"action_object_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// Type returns the fully qualified event type, e.g. "cabinets.cabinet_created"
func (e *Event) Type() string {
	return e.Namespace + "." + e.Name
}
