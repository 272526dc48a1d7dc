package ports

import (
	"context"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

// AuthService implements registration and login by email.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
