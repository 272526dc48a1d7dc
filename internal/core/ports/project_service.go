package ports

import (
	"context"
	"time"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

// CreateProjectInput carries everything needed to create a project. The
// acting user becomes the creator and participants[0]; ParticipantEmails are
// the invitations issued at creation time.
type CreateProjectInput struct {
	Session           Session
	Title             string
	ParticipantEmails []string
}

// RenameProjectInput is the partial-field update for a project (title only).
type RenameProjectInput struct {
	Session   Session
	ProjectID string
	Title     string
}

// ParticipantInput adds or removes a single participant by email.
type ParticipantInput struct {
	Session   Session
	ProjectID string
	Email     string
}

// ProjectSummary is the lightweight view used in list responses.
type ProjectSummary struct {
	ID               string
	Title            string
	CreatedBy        string
	CreatedAt        time.Time
	ParticipantCount int
	IsCreator        bool
}

// ProjectDetail is the full project view including participants.
type ProjectDetail struct {
	ID           string
	Title        string
	CreatedBy    string
	CreatedAt    time.Time
	Participants []domain.Participant
	IsCreator    bool
}

// ProjectService defines use-case operations on projects and their
// participant lists.
type ProjectService interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*ProjectDetail, error)
	// ListProjects returns only projects where the session user is creator or
	// listed participant, preserving the store's order.
	ListProjects(ctx context.Context, session Session) ([]ProjectSummary, error)
	GetProject(ctx context.Context, session Session, projectID string) (*ProjectDetail, error)
	RenameProject(ctx context.Context, input RenameProjectInput) error
	// DeleteProject removes the project and cascades to its expenses.
	DeleteProject(ctx context.Context, session Session, projectID string) error
	AddParticipant(ctx context.Context, input ParticipantInput) (*domain.Participant, error)
	RemoveParticipant(ctx context.Context, input ParticipantInput) error
}
