package domain

import "time"

// ChangeKind identifies what mutated inside a project.
type ChangeKind string

const (
	ChangeProjectUpdated     ChangeKind = "project.updated"
	ChangeProjectDeleted     ChangeKind = "project.deleted"
	ChangeParticipantAdded   ChangeKind = "participant.added"
	ChangeParticipantRemoved ChangeKind = "participant.removed"
	ChangeExpenseCreated     ChangeKind = "expense.created"
	ChangeExpenseUpdated     ChangeKind = "expense.updated"
	ChangeExpenseDeleted     ChangeKind = "expense.deleted"
)

// ChangeEvent is emitted after every successful mutation so subscribed
// clients can refresh their view of the project.
type ChangeEvent struct {
	ProjectID string     `json:"project_id"`
	Kind      ChangeKind `json:"kind"`
	EntityID  string     `json:"entity_id,omitempty"`
	At        time.Time  `json:"at"`
}
