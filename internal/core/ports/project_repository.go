package ports

import (
	"context"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

// ProjectRepository defines persistence operations for project documents.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (string, error)
	// FindByID retrieves a single project; domain.ErrProjectNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns every project document. Visibility filtering is a service
	// concern because membership is decided by email, case-insensitively.
	List(ctx context.Context) ([]*domain.Project, error)
	// UpdateTitle performs a partial-field merge on the title only.
	UpdateTitle(ctx context.Context, id, title string) error
	// ReplaceParticipants overwrites the participants array.
	ReplaceParticipants(ctx context.Context, id string, participants []domain.Participant) error
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository defines persistence operations for the expense
// sub-collection, always scoped by project id.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) (string, error)
	FindByID(ctx context.Context, projectID, expenseID string) (*domain.Expense, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Expense, error)
	Update(ctx context.Context, e *domain.Expense) error
	Delete(ctx context.Context, projectID, expenseID string) error
	// DeleteByProject removes every expense belonging to the project
	// (cascade on project deletion).
	DeleteByProject(ctx context.Context, projectID string) error
}

// AuthRepository defines the interface for user account persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
