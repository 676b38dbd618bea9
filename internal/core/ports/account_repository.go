package ports

import (
	"context"

	"github.com/kryos/employee-accounts/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Implementations return copies; callers mutate the copy and pass it to Update.
type AccountRepository interface {
	// Create stores a new account. Returns domain.ErrEmailExists when the email is taken.
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindBySessionToken(ctx context.Context, token string) (*domain.Account, error)
	// Update replaces the stored account with the same ID.
	Update(ctx context.Context, account *domain.Account) error
}
