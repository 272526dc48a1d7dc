package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripsplit/expenses-system/internal/core/domain"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// IdempotencyStore abstracts the replay marker store (Redis). Get returns
// the expense id recorded for the key, or "" when unseen.
type IdempotencyStore interface {
	Get(ctx context.Context, projectID, key string) (string, error)
	Set(ctx context.Context, projectID, key, expenseID string) error
}

type ExpenseService struct {
	projects ports.ProjectRepository
	expenses ports.ExpenseRepository
	idem     IdempotencyStore
	feed     ports.ChangeFeed
	logger   zerolog.Logger
}

func NewExpenseService(
	projects ports.ProjectRepository,
	expenses ports.ExpenseRepository,
	idem IdempotencyStore,
	feed ports.ChangeFeed,
	logger zerolog.Logger,
) *ExpenseService {
	return &ExpenseService{projects: projects, expenses: expenses, idem: idem, feed: feed, logger: logger}
}

// AddExpense validates and persists a new expense. The per-person share is
// computed once here and stored, never recomputed at read time. When an
// idempotency key was already seen, the previously created expense is
// returned without a second insert.
func (s *ExpenseService) AddExpense(ctx context.Context, input ports.ExpenseInput) (*ports.ExpenseResult, error) {
	project, err := s.memberProject(ctx, input.Session, input.ProjectID)
	if err != nil {
		return nil, err
	}

	expense, err := buildExpense(project, input)
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		existingID, err := s.idem.Get(ctx, project.ID, input.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("project_id", project.ID).Msg("idempotency check failed, processing anyway")
		} else if existingID != "" {
			existing, err := s.expenses.FindByID(ctx, project.ID, existingID)
			if err == nil {
				s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("expense_id", existingID).Msg("idempotent replay")
				return &ports.ExpenseResult{Expense: existing, AlreadyExisted: true}, nil
			}
		}
	}

	id, err := s.expenses.Create(ctx, expense)
	if err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to create expense")
		return nil, err
	}
	expense.ID = id

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Set(ctx, project.ID, input.IdempotencyKey, id); err != nil {
			s.logger.Warn().Err(err).Str("expense_id", id).Msg("failed to set idempotency marker")
		}
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("expense_id", id).
		Float64("amount", expense.Amount).
		Int("split_among", len(expense.SplitAmong)).
		Msg("expense created")

	s.emit(domain.ChangeExpenseCreated, project.ID, id)
	return &ports.ExpenseResult{Expense: expense}, nil
}

// ListExpenses returns the project's expenses together with the running total.
func (s *ExpenseService) ListExpenses(ctx context.Context, session ports.Session, projectID string) (*ports.ExpenseListResult, error) {
	project, err := s.memberProject(ctx, session, projectID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListByProject(ctx, project.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to list expenses")
		return nil, err
	}

	return &ports.ExpenseListResult{
		Expenses: expenses,
		Total:    domain.TotalExpenses(expenses),
	}, nil
}

// UpdateExpense replaces the user-editable fields of an expense and
// recomputes the stored per-person share.
func (s *ExpenseService) UpdateExpense(ctx context.Context, input ports.ExpenseInput) (*ports.ExpenseResult, error) {
	project, err := s.memberProject(ctx, input.Session, input.ProjectID)
	if err != nil {
		return nil, err
	}

	current, err := s.expenses.FindByID(ctx, project.ID, input.ExpenseID)
	if err != nil {
		return nil, err
	}

	updated, err := buildExpense(project, input)
	if err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt

	if err := s.expenses.Update(ctx, updated); err != nil {
		s.logger.Error().Err(err).Str("expense_id", updated.ID).Msg("failed to update expense")
		return nil, err
	}

	s.emit(domain.ChangeExpenseUpdated, project.ID, updated.ID)
	return &ports.ExpenseResult{Expense: updated}, nil
}

// DeleteExpense removes a single expense from the project.
func (s *ExpenseService) DeleteExpense(ctx context.Context, session ports.Session, projectID, expenseID string) error {
	project, err := s.memberProject(ctx, session, projectID)
	if err != nil {
		return err
	}

	if _, err := s.expenses.FindByID(ctx, project.ID, expenseID); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, project.ID, expenseID); err != nil {
		s.logger.Error().Err(err).Str("expense_id", expenseID).Msg("failed to delete expense")
		return err
	}

	s.emit(domain.ChangeExpenseDeleted, project.ID, expenseID)
	return nil
}

// buildExpense validates input against the project's current participants and
// computes the stored per-person share.
func buildExpense(project *domain.Project, input ports.ExpenseInput) (*domain.Expense, error) {
	concept := strings.TrimSpace(input.Concept)
	if concept == "" {
		return nil, domain.ErrEmptyConcept
	}
	if input.Amount <= 0 {
		return nil, domain.ErrNonPositiveAmount
	}
	if len(input.SplitAmong) == 0 {
		return nil, domain.ErrEmptySplit
	}
	if !project.HasParticipantName(input.PaidBy) {
		return nil, domain.ErrUnknownParticipant
	}
	for _, name := range input.SplitAmong {
		if !project.HasParticipantName(name) {
			return nil, domain.ErrUnknownParticipant
		}
	}

	splitAmong := make([]string, len(input.SplitAmong))
	copy(splitAmong, input.SplitAmong)

	return &domain.Expense{
		ProjectID:       project.ID,
		Concept:         concept,
		Amount:          input.Amount,
		PaidBy:          input.PaidBy,
		SplitAmong:      splitAmong,
		AmountPerPerson: domain.ComputeShare(input.Amount, len(splitAmong)),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func (s *ExpenseService) memberProject(ctx context.Context, session ports.Session, projectID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(session.UserID, session.Email) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}

func (s *ExpenseService) emit(kind domain.ChangeKind, projectID, entityID string) {
	if s.feed == nil {
		return
	}
	s.feed.Enqueue(domain.ChangeEvent{
		ProjectID: projectID,
		Kind:      kind,
		EntityID:  entityID,
		At:        time.Now().UTC(),
	})
}
