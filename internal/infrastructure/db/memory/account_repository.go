// Package memory provides process-local repositories. Data is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/kryos/employee-accounts/internal/core/domain"
)

// AccountRepository keeps accounts in maps indexed by id, email and session token.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
	byToken map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
		byToken: make(map[string]string),
	}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[account.Email]; taken {
		return domain.ErrEmailExists
	}
	stored := account.Clone()
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	if stored.SessionToken != "" {
		r.byToken[stored.SessionToken] = stored.ID
	}
	return nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a.Clone(), nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookup(r.byEmail, email)
}

func (r *AccountRepository) FindBySessionToken(_ context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrAccountNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookup(r.byToken, token)
}

// Update replaces the stored account and re-points the email and token indexes.
func (r *AccountRepository) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if account.Email != current.Email {
		if owner, taken := r.byEmail[account.Email]; taken && owner != account.ID {
			return domain.ErrEmailExists
		}
		delete(r.byEmail, current.Email)
		r.byEmail[account.Email] = account.ID
	}
	if account.SessionToken != current.SessionToken {
		if current.SessionToken != "" {
			delete(r.byToken, current.SessionToken)
		}
		if account.SessionToken != "" {
			r.byToken[account.SessionToken] = account.ID
		}
	}
	r.byID[account.ID] = account.Clone()
	return nil
}

// Len reports the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *AccountRepository) lookup(index map[string]string, key string) (*domain.Account, error) {
	id, ok := index[key]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.byID[id].Clone(), nil
}
