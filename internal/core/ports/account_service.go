package ports

import (
	"context"

	"github.com/kryos/employee-accounts/internal/core/domain"
)

// EditAccountInput carries the fields of a partial account update.
// A nil field is left unchanged.
type EditAccountInput struct {
	Name     *string
	Email    *string
	Password *string
}

// AccountService defines the account lifecycle use cases.
type AccountService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	Edit(ctx context.Context, id string, input EditAccountInput) (*domain.Account, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}
