package models

import (
	"time"
)

// Document is a reference to a document owned by the document subsystem.
// This service never mutates document content.
type Document struct {
	ID        string    `json:"id" db:"id"`
	Label     string    `json:"label" db:"label"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DocumentCabinet is the membership of one document in one cabinet.
// Position increases monotonically and records insertion order.
type DocumentCabinet struct {
	Position   int64     `json:"position" db:"id"`
	CabinetID  string    `json:"cabinet_id" db:"cabinet_id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
}
