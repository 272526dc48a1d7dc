package ports

import (
	"context"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

// ExpenseInput carries the user-editable fields of an expense. PaidBy and
// SplitAmong are participant names and must match current participants of
// the project at write time.
type ExpenseInput struct {
	Session   Session
	ProjectID string
	// ExpenseID is empty on create and set on update.
	ExpenseID  string
	Concept    string
	Amount     float64
	PaidBy     string
	SplitAmong []string
	// IdempotencyKey, when non-empty, makes create a replay-safe operation.
	IdempotencyKey string
}

// ExpenseResult is returned after creating or updating an expense.
type ExpenseResult struct {
	Expense *domain.Expense
	// AlreadyExisted is true when the Idempotency-Key matched a previous create.
	AlreadyExisted bool
}

// ExpenseListResult is the project expense sheet: all expenses plus the
// running total.
type ExpenseListResult struct {
	Expenses []*domain.Expense
	Total    float64
}

// ExpenseService defines use-case operations on a project's expenses.
type ExpenseService interface {
	AddExpense(ctx context.Context, input ExpenseInput) (*ExpenseResult, error)
	ListExpenses(ctx context.Context, session Session, projectID string) (*ExpenseListResult, error)
	UpdateExpense(ctx context.Context, input ExpenseInput) (*ExpenseResult, error)
	DeleteExpense(ctx context.Context, session Session, projectID, expenseID string) error
}
