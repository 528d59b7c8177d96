package domain

import "time"

// EventKind identifies one pipeline milestone in the audit trail.
type EventKind string

const (
	EventPublicationCreated EventKind = "publication.created"
	EventPublicationUpdated EventKind = "publication.updated"
	EventSummaryGenerated   EventKind = "publication.summary_generated"
	EventSummaryFailed      EventKind = "publication.summary_failed"
	EventPublicationHidden  EventKind = "publication.hidden"
	EventPublicationShown   EventKind = "publication.shown"
	EventPublicationDeleted EventKind = "publication.deleted"
)

// SystemActor attributes records the worker cannot tie to a resolvable user.
const SystemActor = "system"

// AuditRecord is append-only; rows are never mutated after creation.
type AuditRecord struct {
	ID          int64     `json:"id"`
	Kind        EventKind `json:"kind"`
	Description string    `json:"description"`
	EntityKind  string    `json:"entity_kind"`
	EntityID    int64     `json:"entity_id"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}
