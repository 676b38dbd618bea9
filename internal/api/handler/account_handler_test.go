package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kryos/employee-accounts/internal/api/middleware"
	"github.com/kryos/employee-accounts/internal/core/domain"
	"github.com/kryos/employee-accounts/internal/core/ports"
)

type stubAccountService struct {
	registerFn func(ctx context.Context, name, email, password, role string) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.Account, error)
	editFn     func(ctx context.Context, id string, in ports.EditAccountInput) (*domain.Account, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAccountService) Register(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
	return s.registerFn(ctx, name, email, password, role)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) Edit(ctx context.Context, id string, in ports.EditAccountInput) (*domain.Account, error) {
	return s.editFn(ctx, id, in)
}

func (s *stubAccountService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAccountService) Authenticate(_ context.Context, _ string) (*domain.Account, error) {
	return nil, domain.ErrInvalidToken
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAccountHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
			if name != "Alice" || email != "alice@example.com" || password != "secret" || role != "Manager" {
				t.Fatalf("unexpected args: %s %s %s %s", name, email, password, role)
			}
			return &domain.Account{
				ID:           "acc-1",
				Name:         name,
				Email:        email,
				Role:         role,
				PasswordHash: "$2a$10$hash",
				CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	h := NewAccountHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret","role":"Manager"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	emp, ok := resp["employee"].(map[string]any)
	if !ok || emp["id"] != "acc-1" || emp["email"] != "alice@example.com" {
		t.Fatalf("unexpected employee payload: %+v", resp)
	}
	if _, present := emp["updated_at"]; present {
		t.Fatalf("updated_at should be absent before the first edit")
	}
}

func TestAccountHandler_Register_Validation(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAccountHandler(stub)

	for name, body := range map[string]string{
		"not json":      "not-json",
		"missing email": `{"name":"A","password":"p"}`,
		"bad email":     `{"name":"A","email":"nope","password":"p"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := e.NewContext(jsonRequest(http.MethodPost, "/register", body), httptest.NewRecorder())
			err := h.Register(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestAccountHandler_Register_Conflict(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
			return nil, domain.ErrEmailExists
		},
	}
	h := NewAccountHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/register",
		`{"name":"Bob","email":"bob@example.com","password":"p"}`), httptest.NewRecorder())

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAccountHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Account, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.Account{ID: "acc-1", SessionToken: "token123"}, nil
		},
	}
	h := NewAccountHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"email":"alice@example.com","password":"secret"}`), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Account, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAccountHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"email":"a@example.com","password":"bad"}`), httptest.NewRecorder())

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountHandler_Edit_PartialFields(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		editFn: func(ctx context.Context, id string, in ports.EditAccountInput) (*domain.Account, error) {
			if id != "acc-7" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Name == nil || *in.Name != "New Name" {
				t.Fatalf("expected name to be set")
			}
			if in.Email != nil || in.Password != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			now := time.Now().UTC()
			return &domain.Account{ID: id, Name: *in.Name, UpdatedAt: &now}, nil
		},
	}
	h := NewAccountHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/edit/acc-7", `{"name":"New Name"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("acc-7")

	if err := h.Edit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Edit_Cooldown(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		editFn: func(ctx context.Context, id string, in ports.EditAccountInput) (*domain.Account, error) {
			return nil, domain.ErrEditCooldown
		},
	}
	h := NewAccountHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPut, "/edit/x", `{"name":"N"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("x")

	if err := h.Edit(c); !errors.Is(err, domain.ErrEditCooldown) {
		t.Fatalf("expected ErrEditCooldown, got %v", err)
	}
}

func TestAccountHandler_Logout(t *testing.T) {
	e := newEcho()
	var gotToken string
	stub := &stubAccountService{
		logoutFn: func(ctx context.Context, token string) error {
			gotToken = token
			return nil
		},
	}
	h := NewAccountHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/logout", `{"token":"tok"}`), rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotToken != "tok" || rec.Code != http.StatusOK {
		t.Fatalf("unexpected logout result: token=%q code=%d", gotToken, rec.Code)
	}
}

func TestAccountHandler_Me(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccountService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), rec)
	c.Set(middleware.AccountKey, &domain.Account{ID: "acc-1"})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"acc-1"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), httptest.NewRecorder())
	var he *echo.HTTPError
	if err := h.Me(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %v", err)
	}
}
