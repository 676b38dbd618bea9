package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kryos/employee-accounts/internal/core/domain"
	"github.com/kryos/employee-accounts/internal/core/ports"
)

const (
	// DefaultEditCooldown is the minimum interval between two edits of one account.
	DefaultEditCooldown = 24 * time.Hour

	sessionTokenBytes = 16
)

// AccountService implements registration, login, edit and logout.
type AccountService struct {
	repo       ports.AccountRepository
	notifier   ports.HashNotifier
	log        zerolog.Logger
	cooldown   time.Duration
	bcryptCost int
	now        func() time.Time
}

// AccountOption customises an AccountService.
type AccountOption func(*AccountService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) AccountOption {
	return func(s *AccountService) { s.now = now }
}

// WithEditCooldown overrides DefaultEditCooldown. Non-positive values are ignored.
func WithEditCooldown(d time.Duration) AccountOption {
	return func(s *AccountService) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) AccountOption {
	return func(s *AccountService) { s.bcryptCost = cost }
}

func NewAccountService(repo ports.AccountRepository, notifier ports.HashNotifier, log zerolog.Logger, opts ...AccountOption) *AccountService {
	s := &AccountService{
		repo:       repo,
		notifier:   notifier,
		log:        log,
		cooldown:   DefaultEditCooldown,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AccountService) Register(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if strings.TrimSpace(name) == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, account.Fingerprint(), account.ID)

	s.log.Info().Str("account_id", account.ID).Str("role", account.Role).Msg("account registered")
	return account.Clone(), nil
}

// Login checks the credentials and issues a fresh session token, replacing
// any token issued earlier. Unknown email and wrong password are reported
// with the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	account.SessionToken = token
	if err := s.repo.Update(ctx, account); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("login")
	return token, account, nil
}

// Edit applies a partial update. It is rejected with domain.ErrEditCooldown
// when the previous modification is more recent than the cooldown.
func (s *AccountService) Edit(ctx context.Context, id string, in ports.EditAccountInput) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if now.Sub(account.LastModified()) < s.cooldown {
		return nil, domain.ErrEditCooldown
	}

	if in.Name != nil && *in.Name != "" {
		account.Name = *in.Name
	}
	if in.Email != nil && *in.Email != "" {
		email := normalizeEmail(*in.Email)
		if email != account.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			account.Email = email
		}
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("edit: %w", err)
		}
		account.PasswordHash = hash
	}
	account.UpdatedAt = &now

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, account.Fingerprint(), account.ID)

	s.log.Info().Str("account_id", account.ID).Msg("account updated")
	return account, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	account, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	account.SessionToken = ""
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("account_id", account.ID).Msg("logout")
	return nil
}

// Authenticate resolves a session token to the account holding it.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	account, err := s.repo.FindBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailExists
	case errors.Is(err, domain.ErrAccountNotFound):
		return nil
	default:
		return err
	}
}

func (s *AccountService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
